package route

import (
	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/features/news"
	"newsroom_backend/internals/features/news/galleries/controller"
)

func GalleryAdminRoutes(admin fiber.Router, m *news.Module) {
	galleryCtrl := controller.NewGalleryController(m.Galleries)

	gallery := admin.Group("/post/gallery")
	gallery.Get("/edit/:id", galleryCtrl.Edit)
	gallery.Post("/save", galleryCtrl.Save)
	gallery.Post("/delete/:id", galleryCtrl.Delete)
	gallery.Get("/:post_id", galleryCtrl.Index)
}
