package routes

import (
	handlers "helpdesk.link/handlers/panel"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes form/sayfa yönetimi, lookup ve builder oturumları.
func registerPanelRoutes(api fiber.Router, svc *Services) {
	formHandler := handlers.NewPanelFormHandler(svc.Forms)
	pageHandler := handlers.NewPanelPageHandler(svc.Pages)
	lookupHandler := handlers.NewPanelLookupHandler(svc.Lookup)
	builderHandler := handlers.NewPanelBuilderHandler(svc.Forms, svc.Pages, svc.Forms, svc.Sessions)

	// --- Formlar ---
	api.Get("/forms", formHandler.ListForms)
	api.Post("/forms", formHandler.CreateForm)
	api.Get("/forms/:id", formHandler.GetForm)
	api.Put("/forms/:id", formHandler.UpdateForm)
	api.Delete("/forms/:id", formHandler.DeleteForm)
	api.Post("/forms/:id/rotate-link", formHandler.RotateLink)

	// --- Sayfalar ---
	api.Get("/pages", pageHandler.ListPages)
	api.Post("/pages", pageHandler.CreatePage)
	api.Get("/pages/:id", pageHandler.GetPage)
	api.Put("/pages/:id", pageHandler.UpdatePage)
	api.Delete("/pages/:id", pageHandler.DeletePage)

	// --- Lookup ---
	api.Get("/lookups/users", lookupHandler.ListUsers)
	api.Get("/lookups/groups", lookupHandler.ListGroups)

	// --- Builder ---
	builder := api.Group("/builder")
	builder.Post("/forms", builderHandler.NewFormSession)
	builder.Post("/forms/:id", builderHandler.EditFormSession)
	builder.Post("/pages", builderHandler.NewPageSession)
	builder.Post("/pages/:id", builderHandler.EditPageSession)

	session := builder.Group("/sessions/:sid")
	session.Get("", builderHandler.GetSession)
	session.Put("/selection", builderHandler.Select)
	session.Post("/fields", builderHandler.AddField)
	session.Patch("/fields/:fid", builderHandler.UpdateField)
	session.Put("/fields/:fid/type", builderHandler.SetFieldType)
	session.Put("/fields/:fid/options", builderHandler.EditOptions)
	session.Delete("/fields/:fid", builderHandler.RemoveField)
	session.Put("/linkage", builderHandler.SetLinkage)
	session.Put("/meta", builderHandler.SetMeta)
	session.Post("/buttons", builderHandler.AddButton)
	session.Patch("/buttons/:bid", builderHandler.UpdateButton)
	session.Delete("/buttons/:bid", builderHandler.RemoveButton)
	session.Post("/save", builderHandler.Save)
	session.Post("/cancel", builderHandler.Cancel)
}
