package routes

import (
	handlers "helpdesk.link/handlers/dashboard"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes gönderimlerden oluşan biletler ve onay kararları.
// Karar yetkisi servis katmanında bağlı kullanıcı/grup üzerinden kontrol edilir.
func registerDashboardRoutes(api fiber.Router, svc *Services) {
	ticketHandler := handlers.NewDashboardTicketHandler(svc.Tickets)

	api.Get("/tickets/pending", ticketHandler.ListPending)
	api.Get("/tickets/:id", ticketHandler.GetTicket)
	api.Get("/tickets/:id/attachments/:aid", ticketHandler.GetAttachment)
	api.Post("/tickets/:id/approve", ticketHandler.Approve)
	api.Post("/tickets/:id/reject", ticketHandler.Reject)
}
