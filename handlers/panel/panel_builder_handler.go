package handlers

import (
	"errors"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/pagedef"
	"helpdesk.link/services"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PanelBuilderHandler form ve sayfa yazarlık oturumlarını HTTP üzerinden yürütür.
// Her istek oturumu depodan yükler, tek bir değişiklik uygular ve geri yazar.
type PanelBuilderHandler struct {
	forms    builder.FormStore
	pages    builder.PageStore
	locator  pagedef.FormLocator
	sessions services.IBuilderSessionStore
}

func NewPanelBuilderHandler(forms builder.FormStore, pages builder.PageStore, locator pagedef.FormLocator, sessions services.IBuilderSessionStore) *PanelBuilderHandler {
	return &PanelBuilderHandler{forms: forms, pages: pages, locator: locator, sessions: sessions}
}

type formState struct {
	SessionID   string             `json:"sessionId"`
	Kind        string             `json:"kind"`
	Definition  formdef.Definition `json:"definition"`
	SelectedID  string             `json:"selectedId,omitempty"`
	OptionsText string             `json:"optionsText"`
	Preview     formdef.Public     `json:"preview"`
	CanSave     bool               `json:"canSave"`
	HasChanges  bool               `json:"hasChanges"`
}

type pageState struct {
	SessionID  string             `json:"sessionId"`
	Kind       string             `json:"kind"`
	Definition pagedef.Definition `json:"definition"`
	SelectedID string             `json:"selectedId,omitempty"`
	Preview    pagedef.Public     `json:"preview"`
	CanSave    bool               `json:"canSave"`
	HasChanges bool               `json:"hasChanges"`
}

func newFormState(s *builder.FormSession) formState {
	def := s.Definition()
	return formState{
		SessionID:   s.ID(),
		Kind:        "form",
		Definition:  def,
		SelectedID:  s.SelectedID(),
		OptionsText: s.OptionsText(),
		Preview:     s.Preview(),
		CanSave:     formdef.CanSave(def),
		HasChanges:  s.HasChanges(),
	}
}

func (h *PanelBuilderHandler) newPageState(c *fiber.Ctx, s *builder.PageSession) pageState {
	preview, err := s.Preview(c.UserContext(), h.locator)
	if err != nil {
		// çözülemeyen buton önizlemede işlemsiz görünür
		configslog.Log.Debug("Önizleme butonları çözülemedi", zap.String("session_id", s.ID()), zap.Error(err))
	}
	def := s.Definition()
	return pageState{
		SessionID:  s.ID(),
		Kind:       "page",
		Definition: def,
		SelectedID: s.SelectedID(),
		Preview:    preview,
		CanSave:    pagedef.CanSave(def),
		HasChanges: s.HasChanges(),
	}
}

// openFailure kayıt açılamadıysa: bulunamadıysa listeye dönüş adresiyle 404,
// diğer durumlarda yükleme hatası.
func openFailure(c *fiber.Ctx, err error, redirect string) error {
	if errors.Is(err, builder.ErrNotFound) {
		return notFoundJSON(c, err, redirect)
	}
	configslog.Log.Error("Builder kaydı yüklenemedi", zap.Error(err))
	return utils.ErrorJSON(c, fiber.StatusInternalServerError, builder.MsgLoadFailed)
}

// NewFormSession POST /api/builder/forms
func (h *PanelBuilderHandler) NewFormSession(c *fiber.Ctx) error {
	s := builder.NewFormSession()
	if err := h.sessions.SaveForm(c.UserContext(), s); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newFormState(s))
}

// EditFormSession POST /api/builder/forms/:id
func (h *PanelBuilderHandler) EditFormSession(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	s, err := builder.OpenFormSession(c.UserContext(), h.forms, id)
	if err != nil {
		return openFailure(c, err, FormsListPath)
	}
	if err := h.sessions.SaveForm(c.UserContext(), s); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newFormState(s))
}

// NewPageSession POST /api/builder/pages
func (h *PanelBuilderHandler) NewPageSession(c *fiber.Ctx) error {
	s := builder.NewPageSession()
	if err := h.sessions.SavePage(c.UserContext(), s); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.newPageState(c, s))
}

// EditPageSession POST /api/builder/pages/:id
func (h *PanelBuilderHandler) EditPageSession(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	s, err := builder.OpenPageSession(c.UserContext(), h.pages, id)
	if err != nil {
		return openFailure(c, err, PagesListPath)
	}
	if err := h.sessions.SavePage(c.UserContext(), s); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.newPageState(c, s))
}

// GetSession GET /api/builder/sessions/:sid
func (h *PanelBuilderHandler) GetSession(c *fiber.Ctx) error {
	sid := c.Params("sid")
	fs, err := h.sessions.LoadForm(c.UserContext(), sid)
	if err == nil {
		return c.JSON(newFormState(fs))
	}
	if !errors.Is(err, services.ErrBuilderSessionNotFound) {
		return utils.ServiceError(c, err)
	}
	ps, err := h.sessions.LoadPage(c.UserContext(), sid)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(h.newPageState(c, ps))
}

// withForm form oturumunu yükler, fn'i uygular ve oturumu geri yazar.
func (h *PanelBuilderHandler) withForm(c *fiber.Ctx, fn func(s *builder.FormSession) error) error {
	ctx := c.UserContext()
	s, err := h.sessions.LoadForm(ctx, c.Params("sid"))
	if err != nil {
		return utils.ServiceError(c, err)
	}
	if err := fn(s); err != nil {
		return utils.ServiceError(c, err)
	}
	if err := h.sessions.SaveForm(ctx, s); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(newFormState(s))
}

func (h *PanelBuilderHandler) withPage(c *fiber.Ctx, fn func(s *builder.PageSession) error) error {
	ctx := c.UserContext()
	s, err := h.sessions.LoadPage(ctx, c.Params("sid"))
	if err != nil {
		return utils.ServiceError(c, err)
	}
	if err := fn(s); err != nil {
		return utils.ServiceError(c, err)
	}
	if err := h.sessions.SavePage(ctx, s); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(h.newPageState(c, s))
}

// isFormSession oturumun türünü belirler; ikisi de yoksa hata döner.
func (h *PanelBuilderHandler) isFormSession(c *fiber.Ctx) (bool, error) {
	_, err := h.sessions.LoadForm(c.UserContext(), c.Params("sid"))
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, services.ErrBuilderSessionNotFound) {
		return false, err
	}
	if _, err := h.sessions.LoadPage(c.UserContext(), c.Params("sid")); err != nil {
		return false, err
	}
	return false, nil
}

type selectRequest struct {
	ID string `json:"id"`
}

// Select PUT /api/builder/sessions/:sid/selection. Boş ID seçimi kaldırır.
func (h *PanelBuilderHandler) Select(c *fiber.Ctx) error {
	var req selectRequest
	if ok, err := utils.Bind(c, &req); !ok {
		return err
	}
	isForm, err := h.isFormSession(c)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	if isForm {
		return h.withForm(c, func(s *builder.FormSession) error { return s.Select(req.ID) })
	}
	return h.withPage(c, func(s *builder.PageSession) error { return s.Select(req.ID) })
}

// AddField POST /api/builder/sessions/:sid/fields
func (h *PanelBuilderHandler) AddField(c *fiber.Ctx) error {
	return h.withForm(c, func(s *builder.FormSession) error {
		s.AddField()
		return nil
	})
}

// UpdateField PATCH /api/builder/sessions/:sid/fields/:fid
// Var olmayan alan ID'si hata değildir; durum değişmeden döner. Arayüzün
// tekrar denemeleri bu yüzden güvenlidir. Aynısı type, options ve silme için geçerli.
func (h *PanelBuilderHandler) UpdateField(c *fiber.Ctx) error {
	var patch formdef.FieldPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	fid := c.Params("fid")
	return h.withForm(c, func(s *builder.FormSession) error {
		if patch.Type != nil && !patch.Type.Valid() {
			return services.ErrFormInvalidInput
		}
		s.UpdateField(fid, patch)
		return nil
	})
}

type fieldTypeRequest struct {
	Type models.FieldType `json:"type" validate:"required"`
}

// SetFieldType PUT /api/builder/sessions/:sid/fields/:fid/type
func (h *PanelBuilderHandler) SetFieldType(c *fiber.Ctx) error {
	var req fieldTypeRequest
	if ok, err := utils.Bind(c, &req); !ok {
		return err
	}
	if !req.Type.Valid() {
		return utils.ValidationJSON(c, map[string]string{"type": "Tipo de campo inválido"})
	}
	fid := c.Params("fid")
	return h.withForm(c, func(s *builder.FormSession) error {
		s.SetFieldType(fid, req.Type)
		return nil
	})
}

type optionsRequest struct {
	Text string `json:"text"`
}

// EditOptions PUT /api/builder/sessions/:sid/fields/:fid/options
// Ham metin (boş satırlar dahil) oturumda saklanır; alana yalnızca dolu satırlar yazılır.
func (h *PanelBuilderHandler) EditOptions(c *fiber.Ctx) error {
	var req optionsRequest
	if ok, err := utils.Bind(c, &req); !ok {
		return err
	}
	fid := c.Params("fid")
	return h.withForm(c, func(s *builder.FormSession) error {
		if s.SelectedID() != fid {
			if err := s.Select(fid); err != nil {
				return nil
			}
		}
		return s.EditOptions(req.Text)
	})
}

// RemoveField DELETE /api/builder/sessions/:sid/fields/:fid
func (h *PanelBuilderHandler) RemoveField(c *fiber.Ctx) error {
	fid := c.Params("fid")
	return h.withForm(c, func(s *builder.FormSession) error {
		s.RemoveField(fid)
		return nil
	})
}

type linkageRequest struct {
	Linkage models.Linkage `json:"linkage"`
}

// SetLinkage PUT /api/builder/sessions/:sid/linkage. Kullanıcı ve grup birbirini dışlar.
func (h *PanelBuilderHandler) SetLinkage(c *fiber.Ctx) error {
	var req linkageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "Vínculo inválido")
	}
	return h.withForm(c, func(s *builder.FormSession) error {
		s.SetLinkage(req.Linkage)
		return nil
	})
}

type metaRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Content     *string `json:"content"`
}

// SetMeta PUT /api/builder/sessions/:sid/meta. Form için name/description,
// sayfa için title/slug/description/content.
func (h *PanelBuilderHandler) SetMeta(c *fiber.Ctx) error {
	var req metaRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	isForm, err := h.isFormSession(c)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	if isForm {
		return h.withForm(c, func(s *builder.FormSession) error {
			if req.Name != nil {
				s.SetName(*req.Name)
			}
			if req.Description != nil {
				s.SetDescription(*req.Description)
			}
			return nil
		})
	}
	return h.withPage(c, func(s *builder.PageSession) error {
		if req.Title != nil {
			s.SetTitle(*req.Title)
		}
		if req.Slug != nil {
			s.SetSlug(*req.Slug)
		}
		if req.Description != nil {
			s.SetDescription(*req.Description)
		}
		if req.Content != nil {
			s.SetContent(*req.Content)
		}
		return nil
	})
}

// AddButton POST /api/builder/sessions/:sid/buttons
func (h *PanelBuilderHandler) AddButton(c *fiber.Ctx) error {
	return h.withPage(c, func(s *builder.PageSession) error {
		s.AddButton()
		return nil
	})
}

// buttonRequest hedef için formId ve url aynı anda gönderilemez; clearTarget
// hedefi kaldırır.
type buttonRequest struct {
	Label       *string             `json:"label"`
	FormID      *uint               `json:"formId"`
	URL         *string             `json:"url"`
	ClearTarget bool                `json:"clearTarget"`
	Style       *models.ButtonStyle `json:"style"`
}

func (r buttonRequest) patch() (pagedef.ButtonPatch, error) {
	p := pagedef.ButtonPatch{Label: r.Label, Style: r.Style}
	switch {
	case r.FormID != nil && r.URL != nil:
		return p, models.ErrButtonTargetConflict
	case r.ClearTarget:
		t := models.NoTarget()
		p.Target = &t
	case r.FormID != nil:
		t := models.FormTarget(*r.FormID)
		p.Target = &t
	case r.URL != nil:
		t := models.URLTarget(*r.URL)
		p.Target = &t
	}
	return p, nil
}

// UpdateButton PATCH /api/builder/sessions/:sid/buttons/:bid
func (h *PanelBuilderHandler) UpdateButton(c *fiber.Ctx) error {
	var req buttonRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	patch, err := req.patch()
	if err != nil {
		return utils.ValidationJSON(c, map[string]string{"target": "Informe um formulário ou uma URL, não ambos"})
	}
	bid := c.Params("bid")
	return h.withPage(c, func(s *builder.PageSession) error {
		s.UpdateButton(bid, patch)
		return nil
	})
}

// RemoveButton DELETE /api/builder/sessions/:sid/buttons/:bid
// Zaten silinmiş buton için de 200 döner.
func (h *PanelBuilderHandler) RemoveButton(c *fiber.Ctx) error {
	bid := c.Params("bid")
	return h.withPage(c, func(s *builder.PageSession) error {
		s.RemoveButton(bid)
		return nil
	})
}

// Save POST /api/builder/sessions/:sid/save[?allowSlugChange=true]
// Aynı oturum için ikinci kaydetme, ilki bitene kadar 409 alır.
func (h *PanelBuilderHandler) Save(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sid := c.Params("sid")
	isForm, err := h.isFormSession(c)
	if err != nil {
		return utils.ServiceError(c, err)
	}

	release, err := h.sessions.AcquireSaveLock(ctx, sid)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	defer release()

	if isForm {
		s, err := h.sessions.LoadForm(ctx, sid)
		if err != nil {
			return utils.ServiceError(c, err)
		}
		if _, err := s.Save(ctx, h.forms); err != nil {
			return saveFailure(c, sid, err)
		}
		if err := h.sessions.SaveForm(ctx, s); err != nil {
			return utils.ServiceError(c, err)
		}
		return c.JSON(newFormState(s))
	}

	s, err := h.sessions.LoadPage(ctx, sid)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	if _, err := s.Save(ctx, h.pages, c.QueryBool("allowSlugChange", false)); err != nil {
		return saveFailure(c, sid, err)
	}
	if err := h.sessions.SavePage(ctx, s); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(h.newPageState(c, s))
}

// saveFailure kaydedilemeyen tanımda 422, depo hatasında depo mesajıyla 500.
func saveFailure(c *fiber.Ctx, sid string, err error) error {
	var se *builder.SaveError
	if errors.As(err, &se) {
		configslog.Log.Error("Builder kaydı başarısız", zap.String("session_id", sid), zap.Error(se.Err))
		status := utils.StatusFor(se.Err)
		if status < fiber.StatusInternalServerError && status != fiber.StatusNotFound {
			return utils.ErrorJSON(c, status, se.Message)
		}
		return utils.ErrorJSON(c, fiber.StatusInternalServerError, se.Message)
	}
	return utils.ServiceError(c, err)
}

// Cancel POST /api/builder/sessions/:sid/cancel?confirm=true
// Kaydedilmemiş değişiklik varsa onay olmadan oturum bırakılmaz.
func (h *PanelBuilderHandler) Cancel(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sid := c.Params("sid")
	confirmed := c.QueryBool("confirm", false)
	confirm := func() bool { return confirmed }

	isForm, err := h.isFormSession(c)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	var leave bool
	if isForm {
		s, err := h.sessions.LoadForm(ctx, sid)
		if err != nil {
			return utils.ServiceError(c, err)
		}
		leave = s.Cancel(confirm)
	} else {
		s, err := h.sessions.LoadPage(ctx, sid)
		if err != nil {
			return utils.ServiceError(c, err)
		}
		leave = s.Cancel(confirm)
	}

	if !leave {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":           "Existem alterações não salvas. Deseja descartá-las?",
			"confirmRequired": true,
		})
	}
	if err := h.sessions.Delete(ctx, sid); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"cancelled": true})
}
