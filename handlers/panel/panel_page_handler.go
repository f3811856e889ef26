package handlers

import (
	"errors"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/builder"
	"helpdesk.link/pkg/pagedef"
	"helpdesk.link/pkg/queryparams"
	"helpdesk.link/services"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const PagesListPath = "/pages"

// PanelPageHandler bilgilendirme sayfaları için JSON uçları.
type PanelPageHandler struct {
	service services.IPageService
}

func NewPanelPageHandler(service services.IPageService) *PanelPageHandler {
	return &PanelPageHandler{service: service}
}

type pageRequest struct {
	Title       string              `json:"title" validate:"required,max=255"`
	Slug        string              `json:"slug" validate:"max=255"`
	Description string              `json:"description"`
	Content     string              `json:"content"`
	Buttons     []models.PageButton `json:"buttons"`
	IsEnabled   *bool               `json:"isEnabled"`
}

func (r pageRequest) definition(id uint) pagedef.Definition {
	return pagedef.Definition{
		ID:          id,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Content:     r.Content,
		Buttons:     r.Buttons,
	}
}

// ListPages GET /api/pages
func (h *PanelPageHandler) ListPages(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.GetPagesForUser(c.UserContext(), params)
	if err != nil {
		configslog.Log.Error("Panel - ListPages hatası", zap.Error(err))
		return utils.ServiceError(c, err)
	}
	return c.JSON(result)
}

// CreatePage POST /api/pages
func (h *PanelPageHandler) CreatePage(c *fiber.Ctx) error {
	var req pageRequest
	if ok, err := utils.Bind(c, &req); !ok {
		return err
	}
	saved, err := h.service.CreatePage(c.UserContext(), req.definition(0))
	if err != nil {
		return utils.ServiceError(c, err)
	}
	if req.IsEnabled != nil {
		if err := h.service.SetPageEnabled(c.UserContext(), saved.ID, *req.IsEnabled); err != nil {
			return utils.ServiceError(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// GetPage GET /api/pages/:id
func (h *PanelPageHandler) GetPage(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	def, err := h.service.GetPage(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, builder.ErrNotFound) {
			return notFoundJSON(c, err, PagesListPath)
		}
		return utils.ServiceError(c, err)
	}
	return c.JSON(def)
}

// UpdatePage PUT /api/pages/:id?allowSlugChange=true
// Yayınlanmış sayfanın slug'ı açık izin olmadan değişmez.
func (h *PanelPageHandler) UpdatePage(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	var req pageRequest
	if ok, err := utils.Bind(c, &req); !ok {
		return err
	}
	allowSlugChange := c.QueryBool("allowSlugChange", false)

	saved, err := h.service.UpdatePage(c.UserContext(), req.definition(id), allowSlugChange)
	if err != nil {
		if errors.Is(err, builder.ErrNotFound) {
			return notFoundJSON(c, err, PagesListPath)
		}
		return utils.ServiceError(c, err)
	}
	if req.IsEnabled != nil {
		if err := h.service.SetPageEnabled(c.UserContext(), id, *req.IsEnabled); err != nil {
			return utils.ServiceError(c, err)
		}
	}
	return c.JSON(saved)
}

// DeletePage DELETE /api/pages/:id
func (h *PanelPageHandler) DeletePage(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := h.service.DeletePage(c.UserContext(), id); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
