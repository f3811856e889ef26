package routes

import (
	"helpdesk.link/configs"
	handlers "helpdesk.link/handlers/link"

	"github.com/gofiber/fiber/v2"
)

// registerPublicLinkRoutes kimlik doğrulamasız public form ve sayfa rotaları.
func registerPublicLinkRoutes(app *fiber.App, cfg *configs.AppConfig, svc *Services) {
	linkHandler := handlers.NewLinkHandler(svc.Forms, svc.Pages, svc.Tickets, cfg.TicketLocation)

	public := app.Group("/api/public")
	public.Get("/forms/:token", linkHandler.GetForm)
	public.Post("/forms/:token/submissions", linkHandler.Submit)
	public.Get("/pages/:slug", linkHandler.GetPage)

	app.Get("/f/:token", linkHandler.ShowForm)
	app.Post("/f/:token", linkHandler.SubmitForm)
	app.Get("/p/:slug", linkHandler.ShowPage)
}
