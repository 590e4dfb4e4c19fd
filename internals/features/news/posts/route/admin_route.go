package route

import (
	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/features/news"
	"newsroom_backend/internals/features/news/posts/controller"
)

func PostAdminRoutes(admin fiber.Router, m *news.Module) {
	postCtrl := controller.NewPostController(m.Posts, m.Categories, m.Galleries, m.Settings, m.Languages)

	admin.Get("/", postCtrl.Index)
	admin.Get("/browse/category/:id/page/:page", postCtrl.Index)
	admin.Get("/browse/category/:id", postCtrl.Index)
	admin.Get("/browse/:page", postCtrl.Index)

	post := admin.Group("/post")
	post.Get("/add", postCtrl.Add)
	post.Get("/edit/:id", postCtrl.Edit)
	post.Post("/save", postCtrl.Save)
	post.Post("/delete-selected", postCtrl.DeleteSelected)
	post.Post("/delete/:id", postCtrl.Delete)
	post.Post("/tweak", postCtrl.Tweak)
}
