package services

import (
	"context"
	"errors"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/repositories"

	"go.uber.org/zap"
)

// LinkServiceError özel servis hataları
type LinkServiceError string

func (e LinkServiceError) Error() string { return string(e) }

const (
	ErrLinkNotFound            LinkServiceError = "link não encontrado"
	ErrLinkCreationFailed      LinkServiceError = "não foi possível criar o link"
	ErrLinkKeyGenerationFailed LinkServiceError = "não foi possível gerar uma chave única"
	ErrLinkDeletionFailed      LinkServiceError = "não foi possível remover o link"
)

// maxKeyAttempts çakışma halinde yeni anahtar deneme sayısı.
const maxKeyAttempts = 5

// ILinkService public anahtar (Link) işlemleri. Transaction, ctx üzerinden
// repositories.WithTx ile taşınır.
type ILinkService interface {
	CreateLink(ctx context.Context, creatorUserID, typeID, targetID uint) (*models.Link, error)
	GetLinkByKey(ctx context.Context, key string) (*models.Link, error)
	SetTarget(ctx context.Context, linkID, targetID uint) error
	DeleteLink(ctx context.Context, link *models.Link, deletingUserID uint) error
}

type LinkService struct {
	repo repositories.ILinkRepository
}

func NewLinkService() ILinkService {
	return &LinkService{repo: repositories.NewLinkRepository()}
}

// CreateLink silinmiş olanlar dahil hiç kullanılmamış bir anahtarla link oluşturur.
func (s *LinkService) CreateLink(ctx context.Context, creatorUserID, typeID, targetID uint) (*models.Link, error) {
	var key string
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		candidate, err := models.NewLinkKey()
		if err != nil {
			return nil, ErrLinkKeyGenerationFailed
		}
		exists, err := s.repo.KeyExists(ctx, candidate)
		if err != nil {
			return nil, ErrLinkCreationFailed
		}
		if !exists {
			key = candidate
			break
		}
		configslog.Log.Warn("Link anahtarı çakıştı, yeniden deneniyor", zap.Int("attempt", attempt+1))
	}
	if key == "" {
		return nil, ErrLinkKeyGenerationFailed
	}

	link := &models.Link{Key: key, TypeID: typeID, TargetID: targetID, CreatorUserID: creatorUserID}
	if err := s.repo.Create(models.WithUserID(ctx, creatorUserID), link); err != nil {
		configslog.Log.Error("Link oluşturulurken repository hatası", zap.Uint("type_id", typeID), zap.Uint("creator_user_id", creatorUserID), zap.Error(err))
		return nil, ErrLinkCreationFailed
	}
	configslog.SLog.Infof("Link oluşturuldu: ID %d, Key: %s (Oluşturan: %d)", link.ID, link.Key, creatorUserID)
	return link, nil
}

func (s *LinkService) GetLinkByKey(ctx context.Context, key string) (*models.Link, error) {
	link, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return link, nil
}

func (s *LinkService) SetTarget(ctx context.Context, linkID, targetID uint) error {
	if err := s.repo.UpdateTarget(ctx, linkID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLinkNotFound
		}
		configslog.Log.Error("Link hedefi güncellenemedi", zap.Uint("link_id", linkID), zap.Uint("target_id", targetID), zap.Error(err))
		return err
	}
	return nil
}

func (s *LinkService) DeleteLink(ctx context.Context, link *models.Link, deletingUserID uint) error {
	if err := s.repo.Delete(ctx, link, deletingUserID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		configslog.Log.Error("Link silinemedi", zap.Uint("link_id", link.ID), zap.Error(err))
		return ErrLinkDeletionFailed
	}
	return nil
}

var _ ILinkService = (*LinkService)(nil)
