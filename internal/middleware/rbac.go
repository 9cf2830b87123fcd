package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aula-go-api/internal/utils"
)

// RequireRole ensures that the authenticated user possesses one of the
// allowed roles. It assumes JWTProtected ran earlier in the chain.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		normalized := strings.ToLower(strings.TrimSpace(role))
		if normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		if c.Locals(LocalsUserID) == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		role := normalizeRoleValue(c.Locals(LocalsUserRole))
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}

// UserIDFromCtx returns the authenticated user id bound to the request.
func UserIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(LocalsUserID); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// UserRoleFromCtx returns the authenticated user role bound to the request.
func UserRoleFromCtx(c *fiber.Ctx) string {
	return normalizeRoleValue(c.Locals(LocalsUserRole))
}
