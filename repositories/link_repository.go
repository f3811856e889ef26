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

// ILinkRepository link veritabanı işlemleri için arayüz.
type ILinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	FindByID(ctx context.Context, id uint) (*models.Link, error)
	FindByKey(ctx context.Context, key string) (*models.Link, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	UpdateTarget(ctx context.Context, id uint, targetID uint) error
	Delete(ctx context.Context, link *models.Link, deletedByUserID uint) error
}

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository() ILinkRepository {
	return &LinkRepository{db: configs.GetDB()}
}

func (r *LinkRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// Create Key boşsa modelin BeforeCreate hook'u üretir.
func (r *LinkRepository) Create(ctx context.Context, link *models.Link) error {
	if link == nil {
		return errors.New("oluşturulacak link nil olamaz")
	}
	return r.getDB(ctx).Create(link).Error
}

func (r *LinkRepository) FindByID(ctx context.Context, id uint) (*models.Link, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var link models.Link
	err := r.getDB(ctx).Preload("Type").First(&link, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			configslog.Log.Error("LinkRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		}
		return nil, notFound(err)
	}
	return &link, nil
}

// FindByKey silinmiş linkleri döndürmez.
func (r *LinkRepository) FindByKey(ctx context.Context, key string) (*models.Link, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var link models.Link
	err := r.getDB(ctx).Preload("Type").Where("key = ?", key).First(&link).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			configslog.Log.Error("LinkRepository.FindByKey: DB error", zap.String("key", key), zap.Error(err))
		}
		return nil, notFound(err)
	}
	return &link, nil
}

// KeyExists silinmiş satırlar dahil bakar; emekliye ayrılan anahtarlar tekrar verilmez.
func (r *LinkRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Unscoped().Model(&models.Link{}).Where("key = ?", key).Count(&count).Error
	if err != nil {
		configslog.Log.Error("LinkRepository.KeyExists: DB error", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

func (r *LinkRepository) UpdateTarget(ctx context.Context, id uint, targetID uint) error {
	result := r.getDB(ctx).Model(&models.Link{}).Where("id = ?", id).Update("target_id", targetID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft delete yapar, DeletedBy'ı da yazar.
func (r *LinkRepository) Delete(ctx context.Context, link *models.Link, deletedByUserID uint) error {
	if link == nil || link.ID == 0 {
		return errors.New("silinecek link geçerli değil")
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		if deletedByUserID != 0 {
			if err := tx.Model(link).UpdateColumn("deleted_by", &deletedByUserID).Error; err != nil {
				configslog.Log.Error("LinkRepository.Delete: DeletedBy güncellenemedi", zap.Uint("link_id", link.ID), zap.Error(err))
				return err
			}
		}
		result := tx.Delete(link)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var _ ILinkRepository = (*LinkRepository)(nil)
