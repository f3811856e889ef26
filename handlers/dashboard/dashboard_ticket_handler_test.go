package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"helpdesk.link/models"
	"helpdesk.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTickets 1 numaralı bilet onay bekler ve yalnızca 7 numaralı kullanıcı karar verebilir.
type fakeTickets struct {
	services.ITicketService
	status map[uint]models.TicketStatus
}

func (f *fakeTickets) decide(ctx context.Context, id uint, next models.TicketStatus) error {
	st, ok := f.status[id]
	if !ok {
		return services.ErrTicketNotFound
	}
	if uid, _ := models.UserIDFromContext(ctx); uid != 7 {
		return services.ErrTicketNotApprover
	}
	if st != models.TicketPendingApproval {
		return services.ErrTicketNotPending
	}
	f.status[id] = next
	return nil
}

func (f *fakeTickets) ApproveTicket(ctx context.Context, id uint) error {
	return f.decide(ctx, id, models.TicketOpen)
}

func (f *fakeTickets) RejectTicket(ctx context.Context, id uint) error {
	return f.decide(ctx, id, models.TicketRejected)
}

func (f *fakeTickets) GetAttachment(_ context.Context, ticketID, attachmentID uint) (*models.TicketAttachment, error) {
	if ticketID != 1 || attachmentID != 3 {
		return nil, services.ErrTicketNotFound
	}
	return &models.TicketAttachment{TicketID: 1, FieldID: "doc", FileName: "rg.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}, nil
}

func newTicketApp(svc *fakeTickets, userID uint) *fiber.App {
	h := NewDashboardTicketHandler(svc)
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(models.WithUserID(c.UserContext(), userID))
		return c.Next()
	})
	app.Get("/api/tickets/:id/attachments/:aid", h.GetAttachment)
	app.Post("/api/tickets/:id/approve", h.Approve)
	app.Post("/api/tickets/:id/reject", h.Reject)
	return app
}

func post(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil), -1)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestApproveTicket(t *testing.T) {
	svc := &fakeTickets{status: map[uint]models.TicketStatus{1: models.TicketPendingApproval}}
	app := newTicketApp(svc, 7)

	status, body := post(t, app, "/api/tickets/1/approve")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, string(models.TicketOpen), body["status"])
	assert.Equal(t, models.TicketOpen, svc.status[1])

	status, body = post(t, app, "/api/tickets/1/reject")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, string(services.ErrTicketNotPending), body["error"])
}

func TestRejectTicket(t *testing.T) {
	svc := &fakeTickets{status: map[uint]models.TicketStatus{1: models.TicketPendingApproval}}

	status, body := post(t, newTicketApp(svc, 9), "/api/tickets/1/reject")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, string(services.ErrTicketNotApprover), body["error"])
	assert.Equal(t, models.TicketPendingApproval, svc.status[1])

	status, _ = post(t, newTicketApp(svc, 7), "/api/tickets/1/reject")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.TicketRejected, svc.status[1])

	status, _ = post(t, newTicketApp(svc, 7), "/api/tickets/2/reject")
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = post(t, newTicketApp(svc, 7), "/api/tickets/x/reject")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGetAttachment(t *testing.T) {
	app := newTicketApp(&fakeTickets{}, 7)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/1/attachments/3", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="rg.pdf"`, resp.Header.Get(fiber.HeaderContentDisposition))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/tickets/1/attachments/4", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
