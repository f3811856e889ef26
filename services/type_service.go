package services

import (
	"context"
	"errors"
	"sync"

	"helpdesk.link/models"
	"helpdesk.link/repositories"
)

type TypeServiceError string

func (e TypeServiceError) Error() string { return string(e) }

const ErrTypeNotFound TypeServiceError = "tipo de link não encontrado"

type ITypeService interface {
	GetTypeByName(ctx context.Context, name string) (*models.Type, error)
}

// TypeService tip tablosu seed ile dolar ve değişmez; sonuçlar bellekte tutulur.
type TypeService struct {
	repo  repositories.ITypeRepository
	mu    sync.RWMutex
	cache map[string]models.Type
}

func NewTypeService() ITypeService {
	return &TypeService{repo: repositories.NewTypeRepository(), cache: map[string]models.Type{}}
}

func (s *TypeService) GetTypeByName(ctx context.Context, name string) (*models.Type, error) {
	s.mu.RLock()
	t, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return &t, nil
	}
	found, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}
	s.mu.Lock()
	s.cache[name] = *found
	s.mu.Unlock()
	return found, nil
}

var _ ITypeService = (*TypeService)(nil)
