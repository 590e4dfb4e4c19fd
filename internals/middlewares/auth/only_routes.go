package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "newsroom_backend/internals/helpers"
)

// OnlyRolesSlice lets the request through when the current role is one of allowedRoles.
func OnlyRolesSlice(message string, allowedRoles []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentRole(c)
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		if message == "" {
			message = "Forbidden: you are not authorized to access this resource"
		}
		return helper.JsonError(c, fiber.StatusForbidden, message)
	}
}

// OnlyMutatingFor guards non-GET requests only, so a group can share one guard.
func OnlyMutatingFor(message string, allowedRoles []string) fiber.Handler {
	guard := OnlyRolesSlice(message, allowedRoles)
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}
		return guard(c)
	}
}
