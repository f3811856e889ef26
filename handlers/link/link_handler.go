package handlers

import (
	"errors"
	"time"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/pipeline"
	"helpdesk.link/services"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderFormPassword şifreli formlara API üzerinden erişimde kullanılır.
const HeaderFormPassword = "X-Form-Password"

// LinkHandler public form ve sayfa istekleri. Kimlik doğrulama gerektirmez.
type LinkHandler struct {
	forms   services.IFormService
	pages   services.IPageService
	tickets pipeline.TicketCreator
	loc     *time.Location
}

// NewLinkHandler loc bilet kimliğindeki tarih için referans saat dilimidir.
func NewLinkHandler(forms services.IFormService, pages services.IPageService, tickets pipeline.TicketCreator, loc *time.Location) *LinkHandler {
	return &LinkHandler{forms: forms, pages: pages, tickets: tickets, loc: loc}
}

// publicForm formu getirir ve şifre korumalıysa şifreyi doğrular.
func (h *LinkHandler) publicForm(c *fiber.Ctx, token, password string) (*services.PublicForm, error) {
	pf, err := h.forms.GetPublicForm(c.UserContext(), token)
	if err != nil {
		return nil, err
	}
	if pf.PasswordProtected() {
		if err := h.forms.CheckFormPassword(c.UserContext(), token, password); err != nil {
			return nil, err
		}
	}
	return pf, nil
}

// GetForm GET /api/public/forms/:token
func (h *LinkHandler) GetForm(c *fiber.Ctx) error {
	token := c.Params("token")
	pf, err := h.publicForm(c, token, c.Get(HeaderFormPassword))
	if err != nil {
		if !errors.Is(err, builder.ErrNotFound) && !errors.Is(err, services.ErrFormPasswordMismatch) {
			configslog.Log.Error("Public form yüklenemedi", zap.String("token", token), zap.Error(err))
		}
		return utils.ServiceError(c, err)
	}
	return c.JSON(pf.Form)
}

// GetPage GET /api/public/pages/:slug
func (h *LinkHandler) GetPage(c *fiber.Ctx) error {
	page, err := h.pages.GetPublicPage(c.UserContext(), c.Params("slug"))
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(page)
}

// Submit POST /api/public/forms/:token/submissions
// Gövde multipart'tır: "data" parçası JSON değerler, her dosya alanı kendi
// ID'siyle ayrı parça. Geçersiz gönderim 422 ile alan hatalarını döndürür.
func (h *LinkHandler) Submit(c *fiber.Ctx) error {
	token := c.Params("token")
	pf, err := h.publicForm(c, token, c.Get(HeaderFormPassword))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "Envie os dados como multipart/form-data")
	}
	payload, err := formfill.ReadMultipart(mf)
	if err != nil {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	fill := formfill.FromPayload(formfill.New(pf.Form), payload)
	conf, err := pipeline.New(h.tickets, h.loc).Submit(c.UserContext(), fill)
	if err != nil {
		var verr *formfill.ValidationError
		if !errors.As(err, &verr) {
			configslog.Log.Error("Gönderim başarısız", zap.String("token", token), zap.Error(err))
		}
		return utils.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(conf)
}
