package services

import (
	"context"
	"errors"

	"helpdesk.link/models"
	"helpdesk.link/repositories"
)

// AccessServiceError yetki hataları.
type AccessServiceError string

func (e AccessServiceError) Error() string       { return string(e) }
func (e AccessServiceError) UserMessage() string { return string(e) }

const (
	ErrUnauthenticated AccessServiceError = "Sessão inválida ou expirada"
	ErrForbidden       AccessServiceError = "Você não tem permissão para esta operação"
)

// accessChecker kaydın sahibi veya admin olup olmadığını kontrol eder.
type accessChecker struct {
	users repositories.IUserRepository
}

func (a accessChecker) currentUser(ctx context.Context) (*models.User, error) {
	userID, ok := models.UserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	user, err := a.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func isAdmin(u *models.User) bool {
	return u.IsSystem || u.Role == models.RoleAdmin
}

// canManage sahip veya admin ise kullanıcıyı döndürür.
func (a accessChecker) canManage(ctx context.Context, ownerID uint) (*models.User, error) {
	user, err := a.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if !isAdmin(user) && user.ID != ownerID {
		return nil, ErrForbidden
	}
	return user, nil
}
