// file: internals/helpers/auth/identity.go
package helperAuth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (diisi oleh middleware AuthJWT)
   ============================================ */

const (
	LocProfessionalID = "professional_id" // string | uuid.UUID
	LocTimezone       = "tz"              // string IANA, mis. "America/Sao_Paulo"
	LocClaims         = "jwt_claims"
)

// GetProfessionalIDFromToken mengambil identitas profesional dari c.Locals.
// 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetProfessionalIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocProfessionalID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated")
	}

	var s string
	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated")
		}
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthenticated")
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Professional ID pada token tidak valid")
	}
	return id, nil
}

// GetTimezoneFromToken: "" kalau token tidak membawa tz
func GetTimezoneFromToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocTimezone).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
