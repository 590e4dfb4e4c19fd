package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	langService "newsroom_backend/internals/features/cms/languages/service"
	postController "newsroom_backend/internals/features/news/posts/controller"
	postDto "newsroom_backend/internals/features/news/posts/dto"
	"newsroom_backend/internals/features/news/site/service"
	helper "newsroom_backend/internals/helpers"
)

type SiteController struct {
	Site *service.Service
}

func NewSiteController(site *service.Service) *SiteController {
	return &SiteController{Site: site}
}

func writeError(c *fiber.Ctx, err error, action string) error {
	if errors.Is(err, service.ErrNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Page not found")
	}
	return postController.WriteError(c, err, action)
}

func optionalID(c *fiber.Ctx, key string) uint {
	id, _ := postDto.ParseUintKey(c.Query(key))
	return id
}

// GET /news, /news/pg/:page (?sort=all|latest)
func (ctrl *SiteController) Home(c *fiber.Ctx) error {
	feed, err := ctrl.Site.Home(c.UserContext(), langService.LangID(c), helper.PageParam(c, "page"), c.Query("sort"))
	if err != nil {
		return writeError(c, err, "load news")
	}
	return helper.JsonList(c, "ok", feed.Posts, &feed.Pagination)
}

// GET /news/category/:id, /news/category/:id/page/:page
func (ctrl *SiteController) Category(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	page, err := ctrl.Site.Category(c.UserContext(), langService.LangID(c), id, helper.PageParam(c, "page"))
	if err != nil {
		return writeError(c, err, "load category")
	}
	return helper.JsonOK(c, "ok", page)
}

// GET /module/news/post/:id
func (ctrl *SiteController) Post(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid post id")
	}
	page, err := ctrl.Site.Post(c.UserContext(), langService.LangID(c), id)
	if err != nil {
		return writeError(c, err, "load post")
	}
	return helper.JsonOK(c, "ok", page)
}

// GET /news/search?q=
func (ctrl *SiteController) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return helper.JsonValidationError(c, map[string][]string{"q": {"is required"}})
	}
	feed, err := ctrl.Site.Search(c.UserContext(), langService.LangID(c), q, c.QueryInt("page", 1))
	if err != nil {
		return writeError(c, err, "search posts")
	}
	return helper.JsonList(c, "ok", feed.Posts, &feed.Pagination)
}

// GET /:slug, /:code/:slug
func (ctrl *SiteController) Resolve(c *fiber.Ctx) error {
	page, err := ctrl.Site.Resolve(c.UserContext(), c.Params("code"), c.Params("slug"), c.QueryInt("page", 1))
	if err != nil {
		return writeError(c, err, "load page")
	}
	return helper.JsonOK(c, "ok", page)
}

/* ===============================
   Widgets (/news/site/*)
=================================*/

func (ctrl *SiteController) Categories(c *fiber.Ctx) error {
	rows, err := ctrl.Site.Categories(c.UserContext(), langService.LangID(c))
	if err != nil {
		return writeError(c, err, "list categories")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (ctrl *SiteController) Recent(c *fiber.Ctx) error {
	rows, err := ctrl.Site.Recent(c.UserContext(), langService.LangID(c), c.QueryInt("limit"), optionalID(c, "category_id"))
	if err != nil {
		return writeError(c, err, "list recent posts")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (ctrl *SiteController) Popular(c *fiber.Ctx) error {
	rows, err := ctrl.Site.Popular(c.UserContext(), langService.LangID(c), c.QueryInt("limit"),
		optionalID(c, "category_id"), c.QueryBool("random"), int64(c.QueryInt("views")))
	if err != nil {
		return writeError(c, err, "list popular posts")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (ctrl *SiteController) Random(c *fiber.Ctx) error {
	rows, err := ctrl.Site.Random(c.UserContext(), langService.LangID(c), c.QueryInt("limit"), optionalID(c, "category_id"))
	if err != nil {
		return writeError(c, err, "list random posts")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (ctrl *SiteController) Front(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("category_id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	rows, err := ctrl.Site.Front(c.UserContext(), langService.LangID(c), id, c.QueryInt("limit"))
	if err != nil {
		return writeError(c, err, "list front posts")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (ctrl *SiteController) Sequential(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid post id")
	}
	seq, err := ctrl.Site.Sequential(c.UserContext(), langService.LangID(c), id)
	if err != nil {
		return writeError(c, err, "load sequential posts")
	}
	return helper.JsonOK(c, "ok", seq)
}
