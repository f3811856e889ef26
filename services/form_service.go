package services

import (
	"context"
	"errors"
	"fmt"

	"helpdesk.link/configs"
	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/pagedef"
	"helpdesk.link/pkg/queryparams"
	"helpdesk.link/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// FormServiceError özel servis hataları. Mesajlar kullanıcıya aynen gösterilir.
type FormServiceError string

func (e FormServiceError) Error() string       { return string(e) }
func (e FormServiceError) UserMessage() string { return string(e) }

// Is builder'ın "kayıt yok" kontrolüyle eşleşir.
func (e FormServiceError) Is(target error) bool {
	return e == ErrFormNotFound && target == builder.ErrNotFound
}

const (
	ErrFormNotFound              FormServiceError = "Formulário não encontrado"
	ErrFormCreationFailed        FormServiceError = "Não foi possível criar o formulário"
	ErrFormUpdateFailed          FormServiceError = "Não foi possível atualizar o formulário"
	ErrFormDeletionFailed        FormServiceError = "Não foi possível excluir o formulário"
	ErrFormInvalidInput          FormServiceError = "Dados do formulário inválidos"
	ErrFormTypeNotFound          FormServiceError = "Tipo de serviço de formulário não encontrado"
	ErrFormLinkFailed            FormServiceError = "Não foi possível gerar o link público do formulário"
	ErrFormPasswordHashingFailed FormServiceError = "Não foi possível definir a senha do formulário"
	ErrFormPasswordMismatch      FormServiceError = "Senha incorreta"
	ErrFormLinkedUserNotFound    FormServiceError = "Usuário vinculado não encontrado"
	ErrFormLinkedGroupNotFound   FormServiceError = "Grupo vinculado não encontrado"
)

// FormSummary liste ekranı satırı.
type FormSummary struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	PublicURL        string `json:"publicUrl"`
	IsEnabled        bool   `json:"isEnabled"`
	FieldCount       int    `json:"fieldCount"`
	ApprovalRequired bool   `json:"approvalRequired"`
}

// FormSettings formla aynı transaction'da kaydedilen ayarlar. Nil alan değişmez,
// boş parola korumayı kaldırır.
type FormSettings struct {
	IsEnabled *bool
	Password  *string
}

// IFormService form işlemleri. Builder deposu ve buton hedef çözücüsü olarak da kullanılır.
type IFormService interface {
	builder.FormStore
	pagedef.FormLocator

	CreateFormWith(ctx context.Context, d formdef.Definition, settings FormSettings) (formdef.Definition, error)
	UpdateFormWith(ctx context.Context, d formdef.Definition, settings FormSettings) (formdef.Definition, error)
	GetFormsForUser(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	DeleteForm(ctx context.Context, id uint) error
	SetFormEnabled(ctx context.Context, id uint, enabled bool) error
	SetFormPassword(ctx context.Context, id uint, password string) error
	RotatePublicURL(ctx context.Context, id uint) (string, error)
	GetPublicForm(ctx context.Context, key string) (*PublicForm, error)
	GetFormByKey(ctx context.Context, key string) (*models.Form, error)
	CheckFormPassword(ctx context.Context, key, password string) error
}

type FormService struct {
	repo        repositories.IFormRepository
	linkService ILinkService
	typeService ITypeService
	lookup      ILookupService
	access      accessChecker
	cache       IFormCache
	inTx        txRunner
}

func NewFormService() IFormService {
	return &FormService{
		repo:        repositories.NewFormRepository(),
		linkService: NewLinkService(),
		typeService: NewTypeService(),
		lookup:      NewLookupService(),
		access:      accessChecker{users: repositories.NewUserRepository()},
		cache:       NewFormCache(),
		inTx:        gormTx(configs.GetDB()),
	}
}

// validateLinkage bağlı kullanıcı veya grubun var olduğunu doğrular.
func (s *FormService) validateLinkage(ctx context.Context, l models.Linkage) error {
	if id, ok := l.UserID(); ok {
		exists, err := s.lookup.UserExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrFormLinkedUserNotFound
		}
	}
	if id, ok := l.GroupID(); ok {
		exists, err := s.lookup.GroupExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrFormLinkedGroupNotFound
		}
	}
	return nil
}

func (s *FormService) prepare(ctx context.Context, d formdef.Definition) ([]models.FormField, error) {
	if err := formdef.CheckSave(d); err != nil {
		return nil, FormServiceError(err.Error())
	}
	fields, err := prepareFields(d.Fields)
	if err != nil {
		return nil, FormServiceError(fmt.Sprintf("%s: %v", ErrFormInvalidInput, err))
	}
	if err := s.validateLinkage(ctx, d.Linkage); err != nil {
		return nil, err
	}
	return fields, nil
}

// hashPassword boş parola için boş hash döndürür.
func hashPassword(password string) (string, error) {
	if password == "" {
		return "", nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFormPasswordHashingFailed
	}
	return string(b), nil
}

func (s FormSettings) passwordHash() (hash string, set bool, err error) {
	if s.Password == nil {
		return "", false, nil
	}
	hash, err = hashPassword(*s.Password)
	return hash, err == nil, err
}

func (s *FormService) CreateForm(ctx context.Context, d formdef.Definition) (formdef.Definition, error) {
	return s.CreateFormWith(ctx, d, FormSettings{})
}

// CreateFormWith link, form, detay ve ayarları tek transaction'da oluşturur.
func (s *FormService) CreateFormWith(ctx context.Context, d formdef.Definition, settings FormSettings) (formdef.Definition, error) {
	user, err := s.access.currentUser(ctx)
	if err != nil {
		return formdef.Definition{}, err
	}
	fields, err := s.prepare(ctx, d)
	if err != nil {
		return formdef.Definition{}, err
	}
	hash, _, err := settings.passwordHash()
	if err != nil {
		return formdef.Definition{}, err
	}
	formType, err := s.typeService.GetTypeByName(ctx, models.TypeNameForm)
	if err != nil {
		return formdef.Definition{}, ErrFormTypeNotFound
	}

	var created models.Form
	txErr := s.inTx(models.WithUserID(ctx, user.ID), func(txCtx context.Context) error {
		link, err := s.linkService.CreateLink(txCtx, user.ID, formType.ID, 0)
		if err != nil {
			return ErrFormLinkFailed
		}

		created = models.Form{LinkID: link.ID, CreatorUserID: user.ID, IsEnabled: true}
		if settings.IsEnabled != nil {
			created.IsEnabled = *settings.IsEnabled
		}
		applyFormDefinition(&created.Detail, d, fields)
		created.Detail.PasswordHash = hash
		if err := s.repo.Create(txCtx, &created); err != nil {
			configslog.Log.Error("Form oluşturulamadı", zap.Uint("user_id", user.ID), zap.Error(err))
			return ErrFormCreationFailed
		}

		if err := s.linkService.SetTarget(txCtx, link.ID, created.ID); err != nil {
			return ErrFormLinkFailed
		}
		created.Link = *link
		return nil
	})
	if txErr != nil {
		return formdef.Definition{}, txErr
	}
	configslog.SLog.Infof("Form oluşturuldu: ID %d, Ad: %s, LinkKey: %s", created.ID, created.Detail.Name, created.Link.Key)
	return formToDefinition(&created), nil
}

// GetForm yazarlık için formu getirir; sadece sahibi veya admin.
func (s *FormService) GetForm(ctx context.Context, id uint) (formdef.Definition, error) {
	form, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return formdef.Definition{}, ErrFormNotFound
		}
		return formdef.Definition{}, err
	}
	if _, err := s.access.canManage(ctx, form.CreatorUserID); err != nil {
		return formdef.Definition{}, err
	}
	return formToDefinition(form), nil
}

// UpdateForm son yazan kazanır; sürüm kontrolü yapılmaz.
func (s *FormService) UpdateForm(ctx context.Context, d formdef.Definition) (formdef.Definition, error) {
	return s.UpdateFormWith(ctx, d, FormSettings{})
}

// UpdateFormWith tanımı ve ayarları tek transaction'da yazar.
func (s *FormService) UpdateFormWith(ctx context.Context, d formdef.Definition, settings FormSettings) (formdef.Definition, error) {
	if d.ID == 0 {
		return formdef.Definition{}, ErrFormNotFound
	}
	fields, err := s.prepare(ctx, d)
	if err != nil {
		return formdef.Definition{}, err
	}
	hash, setHash, err := settings.passwordHash()
	if err != nil {
		return formdef.Definition{}, err
	}

	var updated *models.Form
	txErr := s.inTx(ctx, func(txCtx context.Context) error {
		form, err := s.repo.FindByIDForUpdate(txCtx, d.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFormNotFound
			}
			return err
		}
		user, err := s.access.canManage(txCtx, form.CreatorUserID)
		if err != nil {
			return err
		}
		txCtx = models.WithUserID(txCtx, user.ID)

		if settings.IsEnabled != nil && *settings.IsEnabled != form.IsEnabled {
			form.IsEnabled = *settings.IsEnabled
			if err := s.repo.Update(txCtx, form); err != nil {
				return ErrFormUpdateFailed
			}
		}
		applyFormDefinition(&form.Detail, d, fields)
		if setHash {
			form.Detail.PasswordHash = hash
		}
		if err := s.repo.UpdateDetail(txCtx, &form.Detail); err != nil {
			configslog.Log.Error("Form detayı güncellenemedi", zap.Uint("id", d.ID), zap.Error(err))
			return ErrFormUpdateFailed
		}
		updated = form
		return nil
	})
	if txErr != nil {
		return formdef.Definition{}, txErr
	}
	s.cache.Invalidate(ctx, updated.PublicURL())
	configslog.SLog.Infof("Form güncellendi: ID %d", d.ID)
	return formToDefinition(updated), nil
}

// GetFormsForUser admin tüm formları, operatör kendi formlarını görür.
func (s *FormService) GetFormsForUser(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	user, err := s.access.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	params.Validate()

	var (
		forms []models.Form
		total int64
	)
	if isAdmin(user) {
		forms, total, err = s.repo.FindAllPaginated(ctx, params)
	} else {
		forms, total, err = s.repo.FindAllByUserIDPaginated(ctx, user.ID, params)
	}
	if err != nil {
		return nil, err
	}

	items := make([]FormSummary, 0, len(forms))
	for i := range forms {
		f := &forms[i]
		items = append(items, FormSummary{
			ID:               f.ID,
			Name:             f.Detail.Name,
			PublicURL:        f.PublicURL(),
			IsEnabled:        f.IsEnabled,
			FieldCount:       len(f.Detail.Fields),
			ApprovalRequired: f.Detail.Linkage().RequiresApproval(),
		})
	}
	return queryparams.NewResult(items, params, total), nil
}

// withManagedForm formu kilitler, yetkiyi kontrol eder ve fn'i transaction içinde çalıştırır.
func (s *FormService) withManagedForm(ctx context.Context, id uint, fn func(txCtx context.Context, form *models.Form, user *models.User) error) error {
	return s.inTx(ctx, func(txCtx context.Context) error {
		form, err := s.repo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFormNotFound
			}
			return err
		}
		user, err := s.access.canManage(txCtx, form.CreatorUserID)
		if err != nil {
			return err
		}
		return fn(models.WithUserID(txCtx, user.ID), form, user)
	})
}

// DeleteForm formu ve linkini siler. Silinen anahtar bir daha verilmez.
func (s *FormService) DeleteForm(ctx context.Context, id uint) error {
	var key string
	err := s.withManagedForm(ctx, id, func(txCtx context.Context, form *models.Form, user *models.User) error {
		key = form.PublicURL()
		if err := s.repo.Delete(txCtx, form, user.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrFormNotFound
			}
			return ErrFormDeletionFailed
		}
		return s.linkService.DeleteLink(txCtx, &form.Link, user.ID)
	})
	if err != nil {
		configslog.Log.Error("Form silinemedi", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.cache.Invalidate(ctx, key)
	configslog.SLog.Infof("Form ve linki silindi: ID %d", id)
	return nil
}

func (s *FormService) SetFormEnabled(ctx context.Context, id uint, enabled bool) error {
	var key string
	err := s.withManagedForm(ctx, id, func(txCtx context.Context, form *models.Form, _ *models.User) error {
		key = form.PublicURL()
		form.IsEnabled = enabled
		if err := s.repo.Update(txCtx, form); err != nil {
			return ErrFormUpdateFailed
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, key)
	return nil
}

// SetFormPassword boş parola korumayı kaldırır.
func (s *FormService) SetFormPassword(ctx context.Context, id uint, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	var key string
	err = s.withManagedForm(ctx, id, func(txCtx context.Context, form *models.Form, _ *models.User) error {
		key = form.PublicURL()
		form.Detail.PasswordHash = hash
		if err := s.repo.UpdateDetail(txCtx, &form.Detail); err != nil {
			return ErrFormUpdateFailed
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, key)
	return nil
}

// RotatePublicURL forma yeni bir link verir ve eskisini emekliye ayırır.
func (s *FormService) RotatePublicURL(ctx context.Context, id uint) (string, error) {
	var oldKey, newKey string
	err := s.withManagedForm(ctx, id, func(txCtx context.Context, form *models.Form, user *models.User) error {
		oldKey = form.PublicURL()
		link, err := s.linkService.CreateLink(txCtx, user.ID, form.Link.TypeID, form.ID)
		if err != nil {
			return ErrFormLinkFailed
		}
		old := form.Link
		form.LinkID = link.ID
		if err := s.repo.Update(txCtx, form); err != nil {
			return ErrFormUpdateFailed
		}
		if err := s.linkService.DeleteLink(txCtx, &old, user.ID); err != nil {
			return err
		}
		newKey = link.Key
		return nil
	})
	if err != nil {
		return "", err
	}
	s.cache.Invalidate(ctx, oldKey)
	configslog.SLog.Infof("Form linki yenilendi: ID %d, %s -> %s", id, oldKey, newKey)
	return newKey, nil
}

// GetPublicForm anahtarla aktif formu getirir; önce önbelleğe bakar.
func (s *FormService) GetPublicForm(ctx context.Context, key string) (*PublicForm, error) {
	if pf, ok := s.cache.Get(ctx, key); ok {
		return pf, nil
	}
	form, err := s.GetFormByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	pf := &PublicForm{
		FormID:       form.ID,
		Form:         formToDefinition(form).Public(),
		PasswordHash: form.Detail.PasswordHash,
	}
	s.cache.Set(ctx, key, pf)
	return pf, nil
}

// GetFormByKey public anahtarla aktif formu getirir; link tipini de doğrular.
func (s *FormService) GetFormByKey(ctx context.Context, key string) (*models.Form, error) {
	link, err := s.linkService.GetLinkByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if link.Type.Name != models.TypeNameForm {
		return nil, ErrFormNotFound
	}
	form, err := s.repo.FindByLinkID(ctx, link.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	if !form.IsEnabled {
		return nil, ErrFormNotFound
	}
	return form, nil
}

func (s *FormService) CheckFormPassword(ctx context.Context, key, password string) error {
	pf, err := s.GetPublicForm(ctx, key)
	if err != nil {
		return err
	}
	if !pf.PasswordProtected() {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(pf.PasswordHash), []byte(password)) != nil {
		return ErrFormPasswordMismatch
	}
	return nil
}

// PublicURLForForm sayfa butonlarının form hedefini public anahtara çevirir.
func (s *FormService) PublicURLForForm(ctx context.Context, formID uint) (string, error) {
	form, err := s.repo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrFormNotFound
		}
		return "", err
	}
	return form.PublicURL(), nil
}

var _ IFormService = (*FormService)(nil)
