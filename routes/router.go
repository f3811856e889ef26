package routes

import (
	"strings"

	"helpdesk.link/configs"
	"helpdesk.link/pkg/renderer"
	"helpdesk.link/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// Services rota grupları arasında paylaşılan servis örnekleri. Form servisi
// sayfa ve bilet servislerine de verilir; public form önbelleği tek kalır.
type Services struct {
	Forms    services.IFormService
	Pages    services.IPageService
	Tickets  services.ITicketService
	Lookup   services.ILookupService
	Sessions services.IBuilderSessionStore
}

// NewServices DB ve Redis bağlantıları kurulduktan sonra çağrılmalı.
func NewServices() *Services {
	forms := services.NewFormService()
	return &Services{
		Forms:    forms,
		Pages:    services.NewPageService(forms),
		Tickets:  services.NewTicketService(forms),
		Lookup:   services.NewLookupService(),
		Sessions: services.NewBuilderSessionStore(),
	}
}

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, cfg *configs.AppConfig, svc *Services) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Form-Password",
	}))

	// Public rotalar kimlik doğrulamalı /api grubundan önce kaydedilmeli.
	registerPublicLinkRoutes(app, cfg, svc)

	api := authenticated(app, cfg)
	registerAuthRoutes(api)
	registerPanelRoutes(api, svc)
	registerDashboardRoutes(api, svc)

	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") || c.Accepts("text/html", "application/json") == "application/json" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recurso não encontrado"})
	}
	return renderer.RenderError(c, fiber.StatusNotFound, "Página não encontrada", "O endereço acessado não existe.")
}
