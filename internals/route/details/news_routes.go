package details

import (
	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/features/news"
	categoryRoutes "newsroom_backend/internals/features/news/categories/route"
	galleryRoutes "newsroom_backend/internals/features/news/galleries/route"
	postRoutes "newsroom_backend/internals/features/news/posts/route"
	settingsRoutes "newsroom_backend/internals/features/news/settings/route"
	siteRoutes "newsroom_backend/internals/features/news/site/route"
)

// Mounted under /admin/module/news. Mutating routes are POST only.
func NewsAdminRoutes(admin fiber.Router, m *news.Module) {
	categoryRoutes.CategoryAdminRoutes(admin, m)
	galleryRoutes.GalleryAdminRoutes(admin, m)
	settingsRoutes.SettingsAdminRoutes(admin, m)
	postRoutes.PostAdminRoutes(admin, m)
}

// Public feed, post page, search and widgets.
func NewsPublicRoutes(app fiber.Router, m *news.Module) {
	siteRoutes.SitePublicRoutes(app, m)
}

func NewsResolverRoutes(app fiber.Router, m *news.Module) {
	siteRoutes.SiteResolverRoutes(app, m)
}
