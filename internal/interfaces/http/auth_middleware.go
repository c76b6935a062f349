package http

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Reportes-api/internal/application/dto"
	"github.com/jhoicas/Reportes-api/internal/domain/entity"
	"github.com/jhoicas/Reportes-api/pkg/config"
)

// Locals keys de la identidad autenticada.
const (
	LocalIdentity   = "identity"
	LocalSuperAdmin = "superadmin"
)

// Authenticator resuelve un bearer token a la identidad del usuario.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entity.Identity, error)
}

// AuthMiddleware valida el Bearer Token, resuelve la identidad (rol leído del store) y la guarda en c.Locals.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, errResp := bearerToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		id, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalIdentity, id)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", &dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Authorization header requerido"}
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", &dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token vacío"}
	}
	return token, nil
}

// RequireRole exige que la identidad tenga uno de los roles indicados. Va después de AuthMiddleware.
func RequireRole(allowed ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := GetIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad no encontrada"})
		}
		for _, r := range allowed {
			if id.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "ACCESS_DENIED", Message: "el rol " + string(id.Role) + " no tiene permiso para este recurso",
		})
	}
}

// SuperAdminMiddleware acepta X-Admin-Token igual al configurado, o un bearer cuyo email esté en la lista de superadmins.
func SuperAdminMiddleware(cfg config.SuperAdminConfig, auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.Token != "" {
			if got := c.Get("X-Admin-Token"); got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(cfg.Token)) == 1 {
				c.Locals(LocalSuperAdmin, true)
				return c.Next()
			}
		}
		token, errResp := bearerToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		id, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalIdentity, id)
		if !cfg.IsSuperAdminEmail(id.Email) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ACCESS_DENIED", Message: "se requiere superadmin"})
		}
		c.Locals(LocalSuperAdmin, true)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad autenticada (después de AuthMiddleware).
func GetIdentity(c *fiber.Ctx) (entity.Identity, bool) {
	id, ok := c.Locals(LocalIdentity).(entity.Identity)
	return id, ok
}
