package repositories

import (
	"context"
	"errors"
	"time"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IFormRepository form veritabanı işlemleri için arayüz.
type IFormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	FindByID(ctx context.Context, id uint) (*models.Form, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Form, error)
	FindByLinkID(ctx context.Context, linkID uint) (*models.Form, error)
	FindAllByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Form, int64, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Form, int64, error)
	Update(ctx context.Context, form *models.Form) error
	UpdateDetail(ctx context.Context, detail *models.FormDetail) error
	Delete(ctx context.Context, form *models.Form, deletedByUserID uint) error
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository() IFormRepository {
	return &FormRepository{db: configs.GetDB()}
}

func (r *FormRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *FormRepository) Create(ctx context.Context, form *models.Form) error {
	if form == nil || form.LinkID == 0 {
		return errors.New("geçersiz veya eksik link bilgisi olan form oluşturulamaz")
	}
	return r.getDB(ctx).Create(form).Error
}

func (r *FormRepository) FindByID(ctx context.Context, id uint) (*models.Form, error) {
	return r.findOne(ctx, r.getDB(ctx), "id = ?", id)
}

// FindByIDForUpdate satırı transaction sonuna kadar kilitler.
func (r *FormRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Form, error) {
	return r.findOne(ctx, r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "forms.id = ?", id)
}

func (r *FormRepository) FindByLinkID(ctx context.Context, linkID uint) (*models.Form, error) {
	return r.findOne(ctx, r.getDB(ctx), "link_id = ?", linkID)
}

func (r *FormRepository) findOne(_ context.Context, db *gorm.DB, cond string, arg uint) (*models.Form, error) {
	if arg == 0 {
		return nil, ErrNotFound
	}
	var form models.Form
	err := db.Preload("Detail").Preload("Link.Type").Where(cond, arg).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("FormRepository.findOne: DB error", zap.String("cond", cond), zap.Uint("arg", arg), zap.Error(err))
		return nil, err
	}
	return &form, nil
}

// applyFormFilters isim ve durum filtresi ile sıralamayı uygular.
func (r *FormRepository) applyFormFilters(query *gorm.DB, params queryparams.ListParams) *gorm.DB {
	joined := false
	if params.Name != "" {
		query = query.Joins("JOIN form_details ON form_details.form_id = forms.id AND form_details.deleted_at IS NULL").
			Where("form_details.name ILIKE ?", "%"+params.Name+"%")
		joined = true
	}
	if params.Status != "" {
		query = query.Where("forms.is_enabled = ?", params.Status == "true")
	}

	allowedSortColumns := map[string]string{
		"id":         "forms.id",
		"created_at": "forms.created_at",
		"updated_at": "forms.updated_at",
		"is_enabled": "forms.is_enabled",
		"name":       "form_details.name",
	}
	orderColumn, ok := allowedSortColumns[params.SortBy]
	if !ok {
		configslog.SLog.Warnw("Geçersiz form sıralama alanı, varsayılan kullanılıyor", "sort_by", params.SortBy)
		orderColumn = "forms.created_at"
	}
	if orderColumn == "form_details.name" && !joined {
		query = query.Joins("JOIN form_details ON form_details.form_id = forms.id AND form_details.deleted_at IS NULL")
	}
	return query.Order(orderColumn + " " + params.OrderBy)
}

func (r *FormRepository) paginate(query *gorm.DB, params queryparams.ListParams) ([]models.Form, int64, error) {
	params.Validate()
	var (
		forms []models.Form
		total int64
	)
	query = r.applyFormFilters(query, params)
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("FormRepository.paginate: count error", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return []models.Form{}, 0, nil
	}
	err := query.Select("forms.*").
		Preload("Detail").Preload("Link.Type").
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&forms).Error
	if err != nil {
		configslog.Log.Error("FormRepository.paginate: find error", zap.Error(err))
		return nil, total, err
	}
	return forms, total, nil
}

func (r *FormRepository) FindAllByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Form, int64, error) {
	if userID == 0 {
		return nil, 0, errors.New("geçersiz Creator User ID")
	}
	return r.paginate(r.getDB(ctx).Model(&models.Form{}).Where("forms.creator_user_id = ?", userID), params)
}

// FindAllPaginated admin listesi.
func (r *FormRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Form, int64, error) {
	return r.paginate(r.getDB(ctx).Model(&models.Form{}), params)
}

func (r *FormRepository) Update(ctx context.Context, form *models.Form) error {
	if form == nil || form.ID == 0 {
		return errors.New("güncellenecek form geçerli değil")
	}
	return r.getDB(ctx).Omit(clause.Associations).Save(form).Error
}

func (r *FormRepository) UpdateDetail(ctx context.Context, detail *models.FormDetail) error {
	if detail == nil || detail.ID == 0 {
		return errors.New("güncellenecek form detayı geçerli değil")
	}
	return r.getDB(ctx).Save(detail).Error
}

// Delete formu ve detayını soft delete eder. Link servis tarafından silinir.
func (r *FormRepository) Delete(ctx context.Context, form *models.Form, deletedByUserID uint) error {
	if form == nil || form.ID == 0 {
		return errors.New("silinecek form geçerli değil")
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		updateData := map[string]any{"deleted_at": now, "deleted_by": &deletedByUserID}
		result := tx.Model(&models.Form{}).Where("id = ? AND deleted_at IS NULL", form.ID).Updates(updateData)
		if result.Error != nil {
			configslog.Log.Error("FormRepository.Delete: update error", zap.Uint("id", form.ID), zap.Error(result.Error))
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.FormDetail{}).Where("form_id = ? AND deleted_at IS NULL", form.ID).Updates(updateData).Error
	})
}

func (r *FormRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Form{}).Where("creator_user_id = ?", userID).Count(&count).Error
	return count, err
}

var _ IFormRepository = (*FormRepository)(nil)
