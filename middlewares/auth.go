package middlewares

import (
	"strings"

	"helpdesk.link/configs/configslog"
	"helpdesk.link/models"
	"helpdesk.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LocalsUserID = "userID"
	LocalsRole   = "role"
)

// AuthJWT Bearer token'ı doğrular; kullanıcı ID'sini ve rolü Locals'a, ID'yi
// ayrıca servislerin okuyacağı istek context'ine yazar.
func AuthJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return utils.ErrorJSON(c, fiber.StatusUnauthorized, "Cabeçalho Authorization ausente ou inválido")
		}
		claims, err := utils.ParseJWT(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			configslog.Log.Debug("JWT reddedildi", zap.String("path", c.Path()), zap.Error(err))
			return utils.ErrorJSON(c, fiber.StatusUnauthorized, "Token inválido ou expirado")
		}

		c.Locals(LocalsUserID, claims.UserID)
		c.Locals(LocalsRole, claims.Role)
		c.SetUserContext(models.WithUserID(c.UserContext(), claims.UserID))
		return c.Next()
	}
}

// RequireRole AuthJWT'den sonra çalışır.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalsRole).(string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		configslog.SLog.Warnf("Yetkisiz rol erişimi: %q -> %s", role, c.Path())
		return utils.ErrorJSON(c, fiber.StatusForbidden, "Você não tem permissão para esta operação")
	}
}

// UserID AuthJWT'nin yazdığı kullanıcı ID'si.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalsUserID).(uint)
	return id, ok && id != 0
}
