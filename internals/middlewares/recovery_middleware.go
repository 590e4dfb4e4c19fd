package middlewares

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	helper "newsroom_backend/internals/helpers"
)

// RecoveryMiddleware turns a panic into a 500 handled by ErrorHandler.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
	})
}

// ErrorHandler renders every unhandled error in the JSON error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= 500 {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		return helper.JsonError(c, code, "Internal Server Error")
	}
	return helper.JsonError(c, code, err.Error())
}
