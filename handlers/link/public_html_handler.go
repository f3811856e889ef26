package handlers

import (
	"errors"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/formfill"
	"helpdesk.link/pkg/pipeline"
	"helpdesk.link/pkg/renderer"
	"helpdesk.link/services"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	formActionField   = "_action"
	formPasswordField = "_password"
	actionUnlock      = "unlock"
)

func (h *LinkHandler) renderNotFound(c *fiber.Ctx, message string) error {
	return renderer.RenderError(c, fiber.StatusNotFound, "Não encontrado", message)
}

func (h *LinkHandler) renderFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, builder.ErrNotFound) {
		return h.renderNotFound(c, utils.MessageFor(err, "Link não encontrado"))
	}
	configslog.Log.Error("Public sayfa hatası", zap.String("path", c.Path()), zap.Error(err))
	return renderer.RenderError(c, fiber.StatusInternalServerError, "Erro", utils.MessageFor(err, utils.MsgUnexpected))
}

func (h *LinkHandler) renderForm(c *fiber.Ctx, fill *formfill.Fill, errs map[string]string, password, message string, status int) error {
	view := renderer.NewFormView(fill, errs)
	return renderer.Render(c, renderer.ViewFormFill, renderer.LayoutPublic, fiber.Map{
		"Title":    view.Name,
		"Form":     view,
		"Password": password,
		"Error":    message,
	}, status)
}

func (h *LinkHandler) renderPassword(c *fiber.Ctx, pf *services.PublicForm, message string, status int) error {
	view := renderer.NewFormView(formfill.New(pf.Form), nil)
	return renderer.Render(c, renderer.ViewFormPassword, renderer.LayoutPublic, fiber.Map{
		"Title": view.Name,
		"Form":  view,
		"Error": message,
	}, status)
}

// ShowForm GET /f/:token. Şifreli formda önce şifre istenir.
func (h *LinkHandler) ShowForm(c *fiber.Ctx) error {
	pf, err := h.forms.GetPublicForm(c.UserContext(), c.Params("token"))
	if err != nil {
		return h.renderFailure(c, err)
	}
	if pf.PasswordProtected() {
		return h.renderPassword(c, pf, "", fiber.StatusOK)
	}
	return h.renderForm(c, formfill.New(pf.Form), nil, "", "", fiber.StatusOK)
}

// SubmitForm POST /f/:token. "_action=unlock" yalnızca şifreyi doğrular ve
// formu açar; diğer durumda gönderim yapılır. Hatalı gönderimde girilen
// değerler korunarak form yeniden çizilir.
func (h *LinkHandler) SubmitForm(c *fiber.Ctx) error {
	token := c.Params("token")
	ctx := c.UserContext()

	pf, err := h.forms.GetPublicForm(ctx, token)
	if err != nil {
		return h.renderFailure(c, err)
	}

	password := c.FormValue(formPasswordField)
	if pf.PasswordProtected() {
		if err := h.forms.CheckFormPassword(ctx, token, password); err != nil {
			if errors.Is(err, services.ErrFormPasswordMismatch) {
				return h.renderPassword(c, pf, utils.MessageFor(err, ""), fiber.StatusUnauthorized)
			}
			return h.renderFailure(c, err)
		}
	}
	if c.FormValue(formActionField) == actionUnlock {
		return h.renderForm(c, formfill.New(pf.Form), nil, password, "", fiber.StatusOK)
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return h.renderForm(c, formfill.New(pf.Form), nil, password, "Não foi possível ler o envio. Tente novamente.", fiber.StatusBadRequest)
	}
	payload, err := formfill.ReadBrowserForm(mf)
	if err != nil {
		return h.renderForm(c, formfill.New(pf.Form), nil, password, "Não foi possível ler os arquivos enviados.", fiber.StatusBadRequest)
	}

	fill := formfill.FromPayload(formfill.New(pf.Form), payload)
	conf, err := pipeline.New(h.tickets, h.loc).Submit(ctx, fill)
	if err != nil {
		var verr *formfill.ValidationError
		if errors.As(err, &verr) {
			return h.renderForm(c, fill, verr.Errors, password, "", fiber.StatusUnprocessableEntity)
		}
		configslog.Log.Error("HTML gönderim başarısız", zap.String("token", token), zap.Error(err))
		return h.renderForm(c, fill, nil, password, utils.MessageFor(err, pipeline.MsgSubmissionFailed), utils.StatusFor(err))
	}

	return renderer.Render(c, renderer.ViewConfirmation, renderer.LayoutPublic, fiber.Map{
		"Title":        "Solicitação enviada",
		"Confirmation": renderer.NewConfirmationView(pf.Form.Name, token, conf),
	}, fiber.StatusCreated)
}

// ShowPage GET /p/:slug
func (h *LinkHandler) ShowPage(c *fiber.Ctx) error {
	page, err := h.pages.GetPublicPage(c.UserContext(), c.Params("slug"))
	if err != nil {
		return h.renderFailure(c, err)
	}
	view := renderer.NewPageView(page)
	return renderer.Render(c, renderer.ViewPage, renderer.LayoutPublic, fiber.Map{
		"Title": view.Title,
		"Page":  view,
	})
}
