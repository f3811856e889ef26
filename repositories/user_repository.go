package repositories

import (
	"context"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IUserRepository kullanıcı ve grup sorguları. Kimlik doğrulama bu sistemde değildir.
type IUserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	ListLookup(ctx context.Context) ([]models.LookupItem, error)
	UserExists(ctx context.Context, id uint) (bool, error)
}

type UserRepository struct {
	base *BaseRepository[models.User]
	db   *gorm.DB
}

func NewUserRepository() IUserRepository {
	db := configs.GetDB()
	return &UserRepository{base: NewBaseRepository[models.User](db), db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.base.FindByID(ctx, id)
}

// ListLookup aktif kullanıcılar, isim sırasıyla.
func (r *UserRepository) ListLookup(ctx context.Context) ([]models.LookupItem, error) {
	var items []models.LookupItem
	err := dbFromContext(ctx, r.db).Model(&models.User{}).
		Select("id, name").Where("status = ?", true).Order("name asc").
		Scan(&items).Error
	if err != nil {
		configslog.Log.Error("UserRepository.ListLookup: DB error", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (r *UserRepository) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

var _ IUserRepository = (*UserRepository)(nil)

type IGroupRepository interface {
	ListLookup(ctx context.Context) ([]models.LookupItem, error)
	GroupExists(ctx context.Context, id uint) (bool, error)
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	GroupIDsForUser(ctx context.Context, userID uint) ([]uint, error)
}

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository() IGroupRepository {
	return &GroupRepository{db: configs.GetDB()}
}

func (r *GroupRepository) ListLookup(ctx context.Context) ([]models.LookupItem, error) {
	var items []models.LookupItem
	err := dbFromContext(ctx, r.db).Model(&models.Group{}).Select("id, name").Order("name asc").Scan(&items).Error
	if err != nil {
		configslog.Log.Error("GroupRepository.ListLookup: DB error", zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (r *GroupRepository) GroupExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.Group{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).Count(&count).Error
	return count > 0, err
}

func (r *GroupRepository) GroupIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := dbFromContext(ctx, r.db).Table("group_members").
		Where("user_id = ?", userID).Pluck("group_id", &ids).Error
	return ids, err
}

var _ IGroupRepository = (*GroupRepository)(nil)
