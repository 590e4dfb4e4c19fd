package route

import (
	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/features/news"
	"newsroom_backend/internals/features/news/categories/controller"
)

func CategoryAdminRoutes(admin fiber.Router, m *news.Module) {
	categoryCtrl := controller.NewCategoryController(m.Categories, m.Languages)

	category := admin.Group("/category")
	category.Get("/", categoryCtrl.Index)
	category.Get("/add", categoryCtrl.Add)
	category.Get("/edit/:id", categoryCtrl.Edit)
	category.Post("/save", categoryCtrl.Save)
	category.Post("/delete-selected", categoryCtrl.DeleteSelected)
	category.Post("/delete/:id", categoryCtrl.Delete)
}
