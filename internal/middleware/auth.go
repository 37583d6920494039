package middleware

import (
	"strconv"
	"strings"

	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthenticated(c)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return unauthenticated(c)
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			return unauthenticated(c)
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil || userID <= 0 {
			return unauthenticated(c)
		}
		role, ok := models.ParseRole(claims.Role)
		if !ok {
			return unauthenticated(c)
		}

		c.Locals(principalKey, models.Principal{ID: userID, Role: role})
		return c.Next()
	}
}

// RequireCapability rejects callers whose role lacks capability. It runs
// before any request parsing, so a forbidden caller never sees validation
// errors.
func RequireCapability(capability models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.Can(capability) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Unauthorized"})
		}
		return c.Next()
	}
}

func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	principal, ok := c.Locals(principalKey).(models.Principal)
	return principal, ok
}

// SetPrincipal is used by handler tests to stand in for AuthRequired.
func SetPrincipal(principal models.Principal) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
}
