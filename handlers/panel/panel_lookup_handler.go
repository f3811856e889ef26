package handlers

import (
	"helpdesk.link/configs/configslog"
	"helpdesk.link/services"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PanelLookupHandler builder'daki kullanıcı/grup bağlama listeleri.
type PanelLookupHandler struct {
	lookup services.ILookupService
}

func NewPanelLookupHandler(lookup services.ILookupService) *PanelLookupHandler {
	return &PanelLookupHandler{lookup: lookup}
}

// ListUsers GET /api/lookups/users
func (h *PanelLookupHandler) ListUsers(c *fiber.Ctx) error {
	items, err := h.lookup.ListUsers(c.UserContext())
	if err != nil {
		configslog.Log.Error("Kullanıcı listesi alınamadı", zap.Error(err))
		return utils.ErrorJSON(c, fiber.StatusInternalServerError, "Não foi possível carregar os usuários")
	}
	return c.JSON(items)
}

// ListGroups GET /api/lookups/groups
func (h *PanelLookupHandler) ListGroups(c *fiber.Ctx) error {
	items, err := h.lookup.ListGroups(c.UserContext())
	if err != nil {
		configslog.Log.Error("Grup listesi alınamadı", zap.Error(err))
		return utils.ErrorJSON(c, fiber.StatusInternalServerError, "Não foi possível carregar os grupos")
	}
	return c.JSON(items)
}
