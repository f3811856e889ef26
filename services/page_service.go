package services

import (
	"context"
	"errors"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/pagedef"
	"helpdesk.link/pkg/queryparams"
	"helpdesk.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PageServiceError string

func (e PageServiceError) Error() string       { return string(e) }
func (e PageServiceError) UserMessage() string { return string(e) }

func (e PageServiceError) Is(target error) bool {
	return e == ErrPageNotFound && target == builder.ErrNotFound
}

const (
	ErrPageNotFound       PageServiceError = "Página não encontrada"
	ErrPageSlugTaken      PageServiceError = "Este slug já está em uso"
	ErrPageSlugLocked     PageServiceError = "O slug de uma página publicada não pode ser alterado"
	ErrPageCreationFailed PageServiceError = "Não foi possível criar a página"
	ErrPageUpdateFailed   PageServiceError = "Não foi possível atualizar a página"
	ErrPageDeletionFailed PageServiceError = "Não foi possível excluir a página"
	ErrPageInvalidInput   PageServiceError = "Dados da página inválidos"
)

type PageSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	IsEnabled   bool   `json:"isEnabled"`
	ButtonCount int    `json:"buttonCount"`
}

type IPageService interface {
	builder.PageStore

	GetPagesForUser(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	DeletePage(ctx context.Context, id uint) error
	SetPageEnabled(ctx context.Context, id uint, enabled bool) error
	GetPublicPage(ctx context.Context, slug string) (pagedef.Public, error)
}

type PageService struct {
	repo    repositories.IPageRepository
	access  accessChecker
	locator pagedef.FormLocator
	inTx    txRunner
}

// NewPageService locator buton hedeflerini public form rotasına çözer.
func NewPageService(locator pagedef.FormLocator) IPageService {
	return &PageService{
		repo:    repositories.NewPageRepository(),
		access:  accessChecker{users: repositories.NewUserRepository()},
		locator: locator,
		inTx:    gormTx(configs.GetDB()),
	}
}

func (s *PageService) prepare(d pagedef.Definition) (pagedef.Definition, []models.PageButton, error) {
	d = pagedef.SetSlug(d, d.Slug)
	if d.Slug == "" {
		d = pagedef.SetSlug(d, d.Title)
	}
	if err := pagedef.CheckSave(d); err != nil {
		return d, nil, PageServiceError(err.Error())
	}
	buttons, err := prepareButtons(d.Buttons)
	if err != nil {
		return d, nil, PageServiceError(string(ErrPageInvalidInput) + ": " + err.Error())
	}
	return d, buttons, nil
}

func (s *PageService) ensureSlugFree(ctx context.Context, slug string, excludeID uint) error {
	taken, err := s.repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrPageSlugTaken
	}
	return nil
}

func (s *PageService) CreatePage(ctx context.Context, d pagedef.Definition) (pagedef.Definition, error) {
	user, err := s.access.currentUser(ctx)
	if err != nil {
		return pagedef.Definition{}, err
	}
	d, buttons, err := s.prepare(d)
	if err != nil {
		return pagedef.Definition{}, err
	}

	var created models.Page
	txErr := s.inTx(models.WithUserID(ctx, user.ID), func(txCtx context.Context) error {
		if err := s.ensureSlugFree(txCtx, d.Slug, 0); err != nil {
			return err
		}
		created = models.Page{CreatorUserID: user.ID, IsEnabled: true, Slug: d.Slug}
		applyPageDefinition(&created.Detail, d, buttons)
		if err := s.repo.Create(txCtx, &created); err != nil {
			configslog.Log.Error("Sayfa oluşturulamadı", zap.String("slug", d.Slug), zap.Error(err))
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPageSlugTaken
			}
			return ErrPageCreationFailed
		}
		return nil
	})
	if txErr != nil {
		return pagedef.Definition{}, txErr
	}
	configslog.SLog.Infof("Sayfa oluşturuldu: ID %d, Slug: %s", created.ID, created.Slug)
	return pageToDefinition(&created), nil
}

func (s *PageService) GetPage(ctx context.Context, id uint) (pagedef.Definition, error) {
	page, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return pagedef.Definition{}, ErrPageNotFound
		}
		return pagedef.Definition{}, err
	}
	if _, err := s.access.canManage(ctx, page.CreatorUserID); err != nil {
		return pagedef.Definition{}, err
	}
	return pageToDefinition(page), nil
}

// UpdatePage yayınlanmış slug'ı ancak allowSlugChange ile değiştirir.
func (s *PageService) UpdatePage(ctx context.Context, d pagedef.Definition, allowSlugChange bool) (pagedef.Definition, error) {
	if d.ID == 0 {
		return pagedef.Definition{}, ErrPageNotFound
	}
	d, buttons, err := s.prepare(d)
	if err != nil {
		return pagedef.Definition{}, err
	}

	var updated *models.Page
	txErr := s.inTx(ctx, func(txCtx context.Context) error {
		page, err := s.repo.FindByIDForUpdate(txCtx, d.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPageNotFound
			}
			return err
		}
		user, err := s.access.canManage(txCtx, page.CreatorUserID)
		if err != nil {
			return err
		}
		txCtx = models.WithUserID(txCtx, user.ID)

		if d.Slug != page.Slug {
			if !allowSlugChange {
				return ErrPageSlugLocked
			}
			if err := s.ensureSlugFree(txCtx, d.Slug, page.ID); err != nil {
				return err
			}
			if err := s.repo.RetireSlug(txCtx, page.ID, page.Slug); err != nil {
				return ErrPageUpdateFailed
			}
			page.Slug = d.Slug
			if err := s.repo.Update(txCtx, page); err != nil {
				return ErrPageUpdateFailed
			}
		}
		applyPageDefinition(&page.Detail, d, buttons)
		if err := s.repo.UpdateDetail(txCtx, &page.Detail); err != nil {
			configslog.Log.Error("Sayfa detayı güncellenemedi", zap.Uint("id", d.ID), zap.Error(err))
			return ErrPageUpdateFailed
		}
		updated = page
		return nil
	})
	if txErr != nil {
		return pagedef.Definition{}, txErr
	}
	configslog.SLog.Infof("Sayfa güncellendi: ID %d", d.ID)
	return pageToDefinition(updated), nil
}

func (s *PageService) GetPagesForUser(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	user, err := s.access.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	params.Validate()
	var (
		pages []models.Page
		total int64
	)
	if isAdmin(user) {
		pages, total, err = s.repo.FindAllPaginated(ctx, params)
	} else {
		pages, total, err = s.repo.FindAllByUserIDPaginated(ctx, user.ID, params)
	}
	if err != nil {
		return nil, err
	}
	items := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		items = append(items, PageSummary{
			ID:          p.ID,
			Title:       p.Detail.Title,
			Slug:        p.Slug,
			IsEnabled:   p.IsEnabled,
			ButtonCount: len(p.Detail.Buttons),
		})
	}
	return queryparams.NewResult(items, params, total), nil
}

func (s *PageService) withManagedPage(ctx context.Context, id uint, fn func(txCtx context.Context, page *models.Page, user *models.User) error) error {
	return s.inTx(ctx, func(txCtx context.Context) error {
		page, err := s.repo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPageNotFound
			}
			return err
		}
		user, err := s.access.canManage(txCtx, page.CreatorUserID)
		if err != nil {
			return err
		}
		return fn(models.WithUserID(txCtx, user.ID), page, user)
	})
}

func (s *PageService) DeletePage(ctx context.Context, id uint) error {
	err := s.withManagedPage(ctx, id, func(txCtx context.Context, page *models.Page, user *models.User) error {
		if err := s.repo.Delete(txCtx, page, user.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrPageNotFound
			}
			return ErrPageDeletionFailed
		}
		return nil
	})
	if err != nil {
		configslog.Log.Error("Sayfa silinemedi", zap.Uint("id", id), zap.Error(err))
		return err
	}
	configslog.SLog.Infof("Sayfa silindi: ID %d", id)
	return nil
}

func (s *PageService) SetPageEnabled(ctx context.Context, id uint, enabled bool) error {
	return s.withManagedPage(ctx, id, func(txCtx context.Context, page *models.Page, _ *models.User) error {
		page.IsEnabled = enabled
		if err := s.repo.Update(txCtx, page); err != nil {
			return ErrPageUpdateFailed
		}
		return nil
	})
}

// GetPublicPage butonları çözülmüş public görünüm. Çözülemeyen buton işlemsiz
// kalır ve loglanır; sayfa yine gösterilir.
func (s *PageService) GetPublicPage(ctx context.Context, slug string) (pagedef.Public, error) {
	page, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return pagedef.Public{}, ErrPageNotFound
		}
		return pagedef.Public{}, err
	}
	if !page.IsEnabled {
		return pagedef.Public{}, ErrPageNotFound
	}
	pub, err := pagedef.BuildPublic(ctx, pageToDefinition(page), s.locator)
	if err != nil {
		configslog.Log.Warn("Sayfa butonları çözülemedi", zap.String("slug", slug), zap.Error(err))
	}
	return pub, nil
}

var _ IPageService = (*PageService)(nil)
