package handlers // handlers/panel paketi

import (
	"errors"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/formdef"
	"helpdesk.link/pkg/queryparams"
	"helpdesk.link/services"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FormsListPath bulunamayan kayıtta istemcinin döneceği liste ekranı.
const FormsListPath = "/forms"

// PanelFormHandler operatörün formları için JSON uçları.
type PanelFormHandler struct {
	service services.IFormService
}

func NewPanelFormHandler(service services.IFormService) *PanelFormHandler {
	return &PanelFormHandler{service: service}
}

type formRequest struct {
	Name        string             `json:"name" validate:"required,max=255"`
	Description string             `json:"description"`
	Fields      []models.FormField `json:"fields" validate:"required,min=1"`
	Linkage     models.Linkage     `json:"linkage"`
	IsEnabled   *bool              `json:"isEnabled"`
	Password    *string            `json:"password"`
}

func (r formRequest) definition(id uint) formdef.Definition {
	return formdef.Definition{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Fields:      r.Fields,
		Linkage:     r.Linkage,
	}
}

// notFoundJSON 404 cevabına liste ekranına dönüş adresini ekler.
func notFoundJSON(c *fiber.Ctx, err error, redirect string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":    utils.MessageFor(err, builder.MsgLoadFailed),
		"redirect": redirect,
	})
}

func (r formRequest) settings() services.FormSettings {
	return services.FormSettings{IsEnabled: r.IsEnabled, Password: r.Password}
}

// ListForms GET /api/forms
func (h *PanelFormHandler) ListForms(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetFormsForUser(c.UserContext(), params)
	if err != nil {
		configslog.Log.Error("Panel - ListForms hatası", zap.Error(err))
		return utils.ServiceError(c, err)
	}
	return c.JSON(result)
}

// CreateForm POST /api/forms
func (h *PanelFormHandler) CreateForm(c *fiber.Ctx) error {
	var req formRequest
	if ok, err := utils.Bind(c, &req); !ok {
		return err
	}

	saved, err := h.service.CreateFormWith(c.UserContext(), req.definition(0), req.settings())
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// GetForm GET /api/forms/:id
func (h *PanelFormHandler) GetForm(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	def, err := h.service.GetForm(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, builder.ErrNotFound) {
			return notFoundJSON(c, err, FormsListPath)
		}
		return utils.ServiceError(c, err)
	}
	return c.JSON(def)
}

// UpdateForm PUT /api/forms/:id. Son yazan kazanır.
func (h *PanelFormHandler) UpdateForm(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	var req formRequest
	if ok, err := utils.Bind(c, &req); !ok {
		return err
	}

	saved, err := h.service.UpdateFormWith(c.UserContext(), req.definition(id), req.settings())
	if err != nil {
		if errors.Is(err, builder.ErrNotFound) {
			return notFoundJSON(c, err, FormsListPath)
		}
		return utils.ServiceError(c, err)
	}
	return c.JSON(saved)
}

// DeleteForm DELETE /api/forms/:id
func (h *PanelFormHandler) DeleteForm(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := h.service.DeleteForm(c.UserContext(), id); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RotateLink POST /api/forms/:id/rotate-link. Eski public anahtar bir daha kullanılmaz.
func (h *PanelFormHandler) RotateLink(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	key, err := h.service.RotatePublicURL(c.UserContext(), id)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"publicUrl": key})
}
