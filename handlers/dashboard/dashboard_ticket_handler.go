package handlers

import (
	"context"
	"fmt"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/pkg/queryparams"
	"helpdesk.link/services"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DashboardTicketHandler gönderimlerden oluşan biletler ve onay kararları.
type DashboardTicketHandler struct {
	service services.ITicketService
}

func NewDashboardTicketHandler(service services.ITicketService) *DashboardTicketHandler {
	return &DashboardTicketHandler{service: service}
}

// ListPending GET /api/tickets/pending. Oturumdaki kullanıcının onayını bekleyenler.
func (h *DashboardTicketHandler) ListPending(c *fiber.Ctx) error {
	params := queryparams.DefaultListParams("created_at")
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	params.Validate()

	result, err := h.service.ListPendingApprovals(c.UserContext(), params)
	if err != nil {
		configslog.Log.Error("Dashboard - ListPending hatası", zap.Error(err))
		return utils.ServiceError(c, err)
	}
	return c.JSON(result)
}

// GetTicket GET /api/tickets/:id
func (h *DashboardTicketHandler) GetTicket(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	ticket, err := h.service.GetTicket(c.UserContext(), id)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(ticket)
}

// GetAttachment GET /api/tickets/:id/attachments/:aid
func (h *DashboardTicketHandler) GetAttachment(c *fiber.Ctx) error {
	id, ok := utils.ParamUint(c, "id")
	aid, aok := utils.ParamUint(c, "aid")
	if !ok || !aok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	att, err := h.service.GetAttachment(c.UserContext(), id, aid)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	ct := att.ContentType
	if ct == "" {
		ct = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, ct)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", att.FileName))
	return c.Send(att.Data)
}

// Approve POST /api/tickets/:id/approve
func (h *DashboardTicketHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.service.ApproveTicket, string(models.TicketOpen))
}

// Reject POST /api/tickets/:id/reject
func (h *DashboardTicketHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.service.RejectTicket, string(models.TicketRejected))
}

func (h *DashboardTicketHandler) decide(c *fiber.Ctx, fn func(ctx context.Context, id uint) error, status string) error {
	id, ok := utils.ParamUint(c, "id")
	if !ok {
		return utils.ErrorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}
	if err := fn(c.UserContext(), id); err != nil {
		return utils.ServiceError(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "status": status})
}
