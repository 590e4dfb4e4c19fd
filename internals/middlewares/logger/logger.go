package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"newsroom_backend/internals/configs"
)

// LoggerMiddleware writes one access line per request.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   configs.GetEnv("APP_TIMEZONE", "UTC"),
		Format:     "[${time}] ${locals:request_id} ${ip} - ${method} ${path} - ${status} - ${latency}\n",
	})
}
