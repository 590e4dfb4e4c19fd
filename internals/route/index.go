package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/constants"
	"newsroom_backend/internals/features/news"
	middlewares "newsroom_backend/internals/middlewares"
	"newsroom_backend/internals/middlewares/auth"
	routeDetails "newsroom_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, m *news.Module, jwtSecret string) {
	startTime = time.Now()

	log.Println("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, m.DB)

	app.Use(m.Languages.Middleware())

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (token required, guests read-only)...")
	admin := app.Group("/admin/module/news",
		auth.RequireAuth(jwtSecret),
		auth.OnlyMutatingFor(constants.RoleErrorGuest("news administration"), constants.NonGuestRoles),
		middlewares.AdminWriteRateLimiter(),
	)
	routeDetails.NewsAdminRoutes(admin, m)

	// ===================== PUBLIC =====================
	log.Println("[INFO] Mounting public news routes...")
	routeDetails.NewsPublicRoutes(app, m)

	// slug resolver last: it matches any one or two segment path
	routeDetails.NewsResolverRoutes(app, m)
}
