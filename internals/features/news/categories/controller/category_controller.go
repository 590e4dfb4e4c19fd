package controller

import (
	"github.com/gofiber/fiber/v2"

	langService "newsroom_backend/internals/features/cms/languages/service"
	"newsroom_backend/internals/features/news/categories/dto"
	"newsroom_backend/internals/features/news/categories/service"
	postController "newsroom_backend/internals/features/news/posts/controller"
	postDto "newsroom_backend/internals/features/news/posts/dto"
	helper "newsroom_backend/internals/helpers"
)

type CategoryController struct {
	Categories *service.Service
	Languages  *langService.Service
}

func NewCategoryController(categories *service.Service, languages *langService.Service) *CategoryController {
	return &CategoryController{Categories: categories, Languages: languages}
}

// GET /admin/module/news/category
func (ctrl *CategoryController) Index(c *fiber.Ctx) error {
	rows, err := ctrl.Categories.FetchAll(c.UserContext(), langService.LangID(c))
	if err != nil {
		return postController.WriteError(c, err, "list categories")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// GET /admin/module/news/category/add
func (ctrl *CategoryController) Add(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", fiber.Map{
		"category":  dto.CategoryDTO{Seo: true},
		"languages": ctrl.Languages.FetchAll(),
	})
}

// GET /admin/module/news/category/edit/:id
func (ctrl *CategoryController) Edit(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	ctx := c.UserContext()
	category, err := ctrl.Categories.FetchByID(ctx, langService.LangID(c), id)
	if err != nil {
		return postController.WriteError(c, err, "load category")
	}
	translations, err := ctrl.Categories.FetchTranslations(ctx, id)
	if err != nil {
		return postController.WriteError(c, err, "load category")
	}
	urls, err := ctrl.Categories.GetSwitchURLs(ctx, id)
	if err != nil {
		return postController.WriteError(c, err, "load category")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"category":     category,
		"translations": translations,
		"switch_urls":  urls,
		"languages":    ctrl.Languages.FetchAll(),
	})
}

// POST /admin/module/news/category/save
func (ctrl *CategoryController) Save(c *fiber.Ctx) error {
	var req dto.SaveCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if ferrs := helper.ValidateStruct(req); ferrs != nil {
		return helper.JsonValidationError(c, ferrs)
	}

	ctx := c.UserContext()
	lang := langService.LangID(c)
	if req.ID == 0 {
		id, err := ctrl.Categories.Add(ctx, req)
		if err != nil {
			return postController.WriteError(c, err, "create category")
		}
		category, err := ctrl.Categories.FetchByID(ctx, lang, id)
		if err != nil {
			return postController.WriteError(c, err, "load category")
		}
		return helper.JsonCreated(c, "Category has been created successfully", category)
	}

	if err := ctrl.Categories.Update(ctx, req); err != nil {
		return postController.WriteError(c, err, "update category")
	}
	category, err := ctrl.Categories.FetchByID(ctx, lang, req.ID)
	if err != nil {
		return postController.WriteError(c, err, "load category")
	}
	return helper.JsonUpdated(c, "Category has been updated successfully", category)
}

// POST /admin/module/news/category/delete/:id
func (ctrl *CategoryController) Delete(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	if err := ctrl.Categories.DeleteByID(c.UserContext(), id); err != nil {
		return postController.WriteError(c, err, "delete category")
	}
	return helper.JsonDeleted(c, "Category has been deleted successfully", fiber.Map{"id": id})
}

// POST /admin/module/news/category/delete-selected
func (ctrl *CategoryController) DeleteSelected(c *fiber.Ctx) error {
	var req dto.DeleteSelectedRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if ferrs := helper.ValidateStruct(req); ferrs != nil {
		return helper.JsonValidationError(c, ferrs)
	}
	if err := ctrl.Categories.DeleteByIDs(c.UserContext(), req.IDs); err != nil {
		return postController.WriteError(c, err, "delete categories")
	}
	return helper.JsonDeleted(c, "Categories have been deleted successfully", fiber.Map{"ids": req.IDs})
}
