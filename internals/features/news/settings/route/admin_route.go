package route

import (
	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/features/news"
	"newsroom_backend/internals/features/news/settings/controller"
)

func SettingsAdminRoutes(admin fiber.Router, m *news.Module) {
	settingsCtrl := controller.NewSettingsController(m.Settings, m.History, m.Cache)

	admin.Get("/config", settingsCtrl.Index)
	admin.Post("/config/save", settingsCtrl.Save)
	admin.Get("/history", settingsCtrl.ListHistory)
}
