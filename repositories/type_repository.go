package repositories

import (
	"context"
	"errors"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ITypeRepository interface {
	FindByName(ctx context.Context, name string) (*models.Type, error)
}

type TypeRepository struct {
	db *gorm.DB
}

func NewTypeRepository() ITypeRepository {
	return &TypeRepository{db: configs.GetDB()}
}

func (r *TypeRepository) FindByName(ctx context.Context, name string) (*models.Type, error) {
	var t models.Type
	err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("TypeRepository.FindByName: DB error", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

var _ ITypeRepository = (*TypeRepository)(nil)
