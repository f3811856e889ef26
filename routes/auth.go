package routes

import (
	"helpdesk.link/configs"
	"helpdesk.link/middlewares"
	"helpdesk.link/models"

	"github.com/gofiber/fiber/v2"
)

// authenticated /api altında JWT ve operatör/admin rolü isteyen grubu döndürür.
// Kimlik ve rol dış sistemin imzaladığı token'dan okunur.
func authenticated(app *fiber.App, cfg *configs.AppConfig) fiber.Router {
	return app.Group("/api",
		middlewares.AuthJWT(cfg.JWTSecret),
		middlewares.RequireRole(models.RoleOperator, models.RoleAdmin),
	)
}

func registerAuthRoutes(api fiber.Router) {
	api.Get("/auth/me", currentIdentity)
}

// currentIdentity GET /api/auth/me. İstemcinin token'daki kimliği görmesi için.
func currentIdentity(c *fiber.Ctx) error {
	id, _ := middlewares.UserID(c)
	role, _ := c.Locals(middlewares.LocalsRole).(string)
	return c.JSON(fiber.Map{"userId": id, "role": role})
}
