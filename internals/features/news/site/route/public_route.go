package route

import (
	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/features/news"
	"newsroom_backend/internals/features/news/site/controller"
)

func SitePublicRoutes(app fiber.Router, m *news.Module) {
	siteCtrl := controller.NewSiteController(m.Site)

	feed := app.Group("/news")
	feed.Get("/", siteCtrl.Home)
	feed.Get("/pg/:page", siteCtrl.Home)
	feed.Get("/search", siteCtrl.Search)
	feed.Get("/category/:id", siteCtrl.Category)
	feed.Get("/category/:id/page/:page", siteCtrl.Category)

	widgets := feed.Group("/site")
	widgets.Get("/categories", siteCtrl.Categories)
	widgets.Get("/recent", siteCtrl.Recent)
	widgets.Get("/popular", siteCtrl.Popular)
	widgets.Get("/random", siteCtrl.Random)
	widgets.Get("/front/:category_id", siteCtrl.Front)
	widgets.Get("/sequential/:id", siteCtrl.Sequential)

	app.Get("/module/news/post/:id", siteCtrl.Post)
}

// SiteResolverRoutes catch every remaining one or two segment path, so they
// are mounted last.
func SiteResolverRoutes(app fiber.Router, m *news.Module) {
	siteCtrl := controller.NewSiteController(m.Site)

	app.Get("/:slug", siteCtrl.Resolve)
	app.Get("/:code/:slug", siteCtrl.Resolve)
}
