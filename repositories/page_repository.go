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

type IPageRepository interface {
	Create(ctx context.Context, page *models.Page) error
	FindByID(ctx context.Context, id uint) (*models.Page, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Page, error)
	FindBySlug(ctx context.Context, slug string) (*models.Page, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	RetireSlug(ctx context.Context, pageID uint, slug string) error
	FindAllByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Page, int64, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Page, int64, error)
	Update(ctx context.Context, page *models.Page) error
	UpdateDetail(ctx context.Context, detail *models.PageDetail) error
	Delete(ctx context.Context, page *models.Page, deletedByUserID uint) error
}

type PageRepository struct {
	db *gorm.DB
}

func NewPageRepository() IPageRepository {
	return &PageRepository{db: configs.GetDB()}
}

func (r *PageRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	if page == nil || page.Slug == "" {
		return errors.New("slug'sız sayfa oluşturulamaz")
	}
	return r.getDB(ctx).Create(page).Error
}

func (r *PageRepository) FindByID(ctx context.Context, id uint) (*models.Page, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return r.first(r.getDB(ctx).Where("pages.id = ?", id), zap.Uint("id", id))
}

func (r *PageRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Page, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return r.first(r.getDB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("pages.id = ?", id), zap.Uint("id", id))
}

func (r *PageRepository) FindBySlug(ctx context.Context, slug string) (*models.Page, error) {
	if slug == "" {
		return nil, ErrNotFound
	}
	return r.first(r.getDB(ctx).Where("slug = ?", slug), zap.String("slug", slug))
}

func (r *PageRepository) first(query *gorm.DB, field zap.Field) (*models.Page, error) {
	var page models.Page
	if err := query.Preload("Detail").First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("PageRepository: DB error", field, zap.Error(err))
		return nil, err
	}
	return &page, nil
}

// SlugExists silinmiş sayfaların ve slug geçmişinin kayıtları da dolu sayılır.
// excludeID sayfası kendi eski slug'ını geri alabilir.
func (r *PageRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.getDB(ctx).Unscoped().Model(&models.Page{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		configslog.Log.Error("PageRepository.SlugExists: DB error", zap.String("slug", slug), zap.Error(err))
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	history := r.getDB(ctx).Unscoped().Model(&models.PageSlugHistory{}).Where("slug = ?", slug)
	if excludeID != 0 {
		history = history.Where("page_id <> ?", excludeID)
	}
	if err := history.Count(&count).Error; err != nil {
		configslog.Log.Error("PageRepository.SlugExists: history error", zap.String("slug", slug), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

// RetireSlug eski slug'ı geçmişe yazar; kayıt zaten varsa dokunmaz.
func (r *PageRepository) RetireSlug(ctx context.Context, pageID uint, slug string) error {
	if pageID == 0 || slug == "" {
		return errors.New("geçmişe yazılacak slug geçerli değil")
	}
	entry := models.PageSlugHistory{PageID: pageID, Slug: slug}
	err := r.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		configslog.Log.Error("PageRepository.RetireSlug: DB error", zap.String("slug", slug), zap.Error(err))
	}
	return err
}

func (r *PageRepository) paginate(query *gorm.DB, params queryparams.ListParams) ([]models.Page, int64, error) {
	params.Validate()
	var (
		pages []models.Page
		total int64
	)
	query = query.Joins("JOIN page_details ON page_details.page_id = pages.id AND page_details.deleted_at IS NULL")
	if params.Name != "" {
		query = query.Where("page_details.title ILIKE ?", "%"+params.Name+"%")
	}
	if params.Status != "" {
		query = query.Where("pages.is_enabled = ?", params.Status == "true")
	}
	sortColumns := map[string]string{
		"id":         "pages.id",
		"created_at": "pages.created_at",
		"slug":       "pages.slug",
		"title":      "page_details.title",
	}
	orderColumn, ok := sortColumns[params.SortBy]
	if !ok {
		orderColumn = "pages.created_at"
	}
	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("PageRepository.paginate: count error", zap.Error(err))
		return nil, 0, err
	}
	if total == 0 {
		return []models.Page{}, 0, nil
	}
	err := query.Select("pages.*").Preload("Detail").
		Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&pages).Error
	if err != nil {
		configslog.Log.Error("PageRepository.paginate: find error", zap.Error(err))
		return nil, total, err
	}
	return pages, total, nil
}

func (r *PageRepository) FindAllByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Page, int64, error) {
	return r.paginate(r.getDB(ctx).Model(&models.Page{}).Where("pages.creator_user_id = ?", userID), params)
}

func (r *PageRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.Page, int64, error) {
	return r.paginate(r.getDB(ctx).Model(&models.Page{}), params)
}

func (r *PageRepository) Update(ctx context.Context, page *models.Page) error {
	if page == nil || page.ID == 0 {
		return errors.New("güncellenecek sayfa geçerli değil")
	}
	return r.getDB(ctx).Omit(clause.Associations).Save(page).Error
}

func (r *PageRepository) UpdateDetail(ctx context.Context, detail *models.PageDetail) error {
	if detail == nil || detail.ID == 0 {
		return errors.New("güncellenecek sayfa detayı geçerli değil")
	}
	return r.getDB(ctx).Save(detail).Error
}

func (r *PageRepository) Delete(ctx context.Context, page *models.Page, deletedByUserID uint) error {
	if page == nil || page.ID == 0 {
		return errors.New("silinecek sayfa geçerli değil")
	}
	return r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		updateData := map[string]any{"deleted_at": time.Now().UTC(), "deleted_by": &deletedByUserID}
		result := tx.Model(&models.Page{}).Where("id = ? AND deleted_at IS NULL", page.ID).Updates(updateData)
		if result.Error != nil {
			configslog.Log.Error("PageRepository.Delete: update error", zap.Uint("id", page.ID), zap.Error(result.Error))
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.PageDetail{}).Where("page_id = ? AND deleted_at IS NULL", page.ID).Updates(updateData).Error
	})
}

var _ IPageRepository = (*PageRepository)(nil)
