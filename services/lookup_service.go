package services

import (
	"context"

	"helpdesk.link/models"
	"helpdesk.link/repositories"
)

// ILookupService builder'ın bağlama kontrolleri için kullanıcı/grup listeleri.
type ILookupService interface {
	ListUsers(ctx context.Context) ([]models.LookupItem, error)
	ListGroups(ctx context.Context) ([]models.LookupItem, error)
	UserExists(ctx context.Context, id uint) (bool, error)
	GroupExists(ctx context.Context, id uint) (bool, error)
	IsGroupMember(ctx context.Context, groupID, userID uint) (bool, error)
	GroupIDsForUser(ctx context.Context, userID uint) ([]uint, error)
}

type LookupService struct {
	users  repositories.IUserRepository
	groups repositories.IGroupRepository
}

func NewLookupService() ILookupService {
	return &LookupService{users: repositories.NewUserRepository(), groups: repositories.NewGroupRepository()}
}

func (s *LookupService) ListUsers(ctx context.Context) ([]models.LookupItem, error) {
	return s.users.ListLookup(ctx)
}

func (s *LookupService) ListGroups(ctx context.Context) ([]models.LookupItem, error) {
	return s.groups.ListLookup(ctx)
}

func (s *LookupService) UserExists(ctx context.Context, id uint) (bool, error) {
	return s.users.UserExists(ctx, id)
}

func (s *LookupService) GroupExists(ctx context.Context, id uint) (bool, error) {
	return s.groups.GroupExists(ctx, id)
}

func (s *LookupService) IsGroupMember(ctx context.Context, groupID, userID uint) (bool, error) {
	return s.groups.IsMember(ctx, groupID, userID)
}

func (s *LookupService) GroupIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	return s.groups.GroupIDsForUser(ctx, userID)
}

var _ ILookupService = (*LookupService)(nil)
