package controller

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	langService "newsroom_backend/internals/features/cms/languages/service"
	categoryService "newsroom_backend/internals/features/news/categories/service"
	galleryService "newsroom_backend/internals/features/news/galleries/service"
	"newsroom_backend/internals/features/news/posts/dto"
	"newsroom_backend/internals/features/news/posts/repository"
	"newsroom_backend/internals/features/news/posts/service"
	settingsService "newsroom_backend/internals/features/news/settings/service"
	helper "newsroom_backend/internals/helpers"
	"newsroom_backend/internals/helpers/images"
)

const maxAdminPerPage = 100

type PostController struct {
	Posts      *service.Service
	Categories *categoryService.Service
	Galleries  *galleryService.Service
	Settings   *settingsService.Service
	Languages  *langService.Service
}

func NewPostController(posts *service.Service, categories *categoryService.Service, galleries *galleryService.Service, settings *settingsService.Service, languages *langService.Service) *PostController {
	return &PostController{
		Posts:      posts,
		Categories: categories,
		Galleries:  galleries,
		Settings:   settings,
		Languages:  languages,
	}
}

func queryBool(c *fiber.Ctx, key string) *bool {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// GET /admin/module/news, /browse/:page, /browse/category/:id(/page/:page)
func (ctrl *PostController) Index(c *fiber.Ctx) error {
	ctx := c.UserContext()
	st, err := ctrl.Settings.Get(ctx)
	if err != nil {
		return WriteError(c, err, "load settings")
	}
	paging := helper.ResolvePaging(c, st.PerPageCount, maxAdminPerPage)

	in := repository.FilterInput{
		Published: queryBool(c, "published"),
		Seo:       queryBool(c, "seo"),
		Front:     queryBool(c, "front"),
		Name:      c.Query("name"),
	}
	if id, ok := dto.ParseUintKey(c.Params("id")); ok {
		in.CategoryID = &id
	} else if id, ok := dto.ParseUintKey(c.Query("category_id")); ok {
		in.CategoryID = &id
	}

	posts, total, err := ctrl.Posts.Filter(ctx, langService.LangID(c), in, paging.Page, paging.PerPage,
		c.Query("sort", "id"), c.QueryBool("desc", true))
	if err != nil {
		return WriteError(c, err, "list posts")
	}
	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ok", posts, &pg)
}

// GET /admin/module/news/post/add
func (ctrl *PostController) Add(c *fiber.Ctx) error {
	ctx := c.UserContext()
	lang := langService.LangID(c)
	dummy, err := ctrl.Posts.FetchDummy(ctx)
	if err != nil {
		return WriteError(c, err, "prepare post form")
	}
	categories, err := ctrl.Categories.FetchList(ctx, lang)
	if err != nil {
		return WriteError(c, err, "prepare post form")
	}
	attached, err := ctrl.Categories.FetchAllWithPosts(ctx, lang, 0)
	if err != nil {
		return WriteError(c, err, "prepare post form")
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"post":       dummy,
		"categories": categories,
		"attached":   attached,
		"languages":  ctrl.Languages.FetchAll(),
	})
}

// GET /admin/module/news/post/edit/:id
func (ctrl *PostController) Edit(c *fiber.Ctx) error {
	id, ok := dto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid post id")
	}
	ctx := c.UserContext()
	lang := langService.LangID(c)

	post, err := ctrl.Posts.FetchByID(ctx, lang, id, true)
	if err != nil {
		return WriteError(c, err, "load post")
	}
	translations, err := ctrl.Posts.FetchTranslations(ctx, id)
	if err != nil {
		return WriteError(c, err, "load post")
	}
	categories, err := ctrl.Categories.FetchList(ctx, lang)
	if err != nil {
		return WriteError(c, err, "load post")
	}
	attached, err := ctrl.Categories.FetchAllWithPosts(ctx, lang, id)
	if err != nil {
		return WriteError(c, err, "load post")
	}
	gallery, err := ctrl.Galleries.FetchAllByPostID(ctx, id)
	if err != nil {
		return WriteError(c, err, "load post")
	}
	urls, err := ctrl.Posts.GetSwitchURLs(ctx, id)
	if err != nil {
		return WriteError(c, err, "load post")
	}
	post.Gallery = gallery
	return helper.JsonOK(c, "ok", fiber.Map{
		"post":         post,
		"translations": translations,
		"categories":   categories,
		"attached":     attached,
		"switch_urls":  urls,
		"languages":    ctrl.Languages.FetchAll(),
	})
}

// parseSave accepts either a JSON body or a multipart form with the JSON in
// the "data" field and the cover in the "cover" file part.
func parseSave(c *fiber.Ctx) (dto.SavePostRequest, *images.File, error) {
	var req dto.SavePostRequest
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(&req); err != nil {
			return req, nil, fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}
		return req, nil, nil
	}
	if err := sonic.UnmarshalString(c.FormValue("data"), &req); err != nil {
		return req, nil, fiber.NewError(fiber.StatusBadRequest, "invalid data field")
	}
	fh, err := c.FormFile("cover")
	if err != nil {
		return req, nil, nil
	}
	file, err := images.FileFromHeader(fh)
	return req, file, err
}

// POST /admin/module/news/post/save
func (ctrl *PostController) Save(c *fiber.Ctx) error {
	req, cover, err := parseSave(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.FromFiberError(c, fe)
		}
		return WriteError(c, err, "read cover")
	}
	if ferrs := helper.ValidateStruct(req); ferrs != nil {
		return helper.JsonValidationError(c, ferrs)
	}

	ctx := c.UserContext()
	if req.ID == 0 {
		id, err := ctrl.Posts.Add(ctx, req, cover)
		if err != nil {
			return WriteError(c, err, "create post")
		}
		post, err := ctrl.Posts.FetchByID(ctx, langService.LangID(c), id, false)
		if err != nil {
			return WriteError(c, err, "load post")
		}
		return helper.JsonCreated(c, "Post has been created successfully", post)
	}

	if err := ctrl.Posts.Update(ctx, req, cover); err != nil {
		return WriteError(c, err, "update post")
	}
	post, err := ctrl.Posts.FetchByID(ctx, langService.LangID(c), req.ID, false)
	if err != nil {
		return WriteError(c, err, "load post")
	}
	return helper.JsonUpdated(c, "Post has been updated successfully", post)
}

// POST /admin/module/news/post/delete/:id
func (ctrl *PostController) Delete(c *fiber.Ctx) error {
	id, ok := dto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid post id")
	}
	if err := ctrl.Posts.DeleteByID(c.UserContext(), id); err != nil {
		return WriteError(c, err, "delete post")
	}
	return helper.JsonDeleted(c, "Post has been deleted successfully", fiber.Map{"id": id})
}

// POST /admin/module/news/post/delete-selected
func (ctrl *PostController) DeleteSelected(c *fiber.Ctx) error {
	var req dto.DeleteSelectedRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if ferrs := helper.ValidateStruct(req); ferrs != nil {
		return helper.JsonValidationError(c, ferrs)
	}
	if err := ctrl.Posts.DeleteByIDs(c.UserContext(), req.IDs); err != nil {
		return WriteError(c, err, "delete posts")
	}
	return helper.JsonDeleted(c, "Posts have been deleted successfully", fiber.Map{"ids": req.IDs})
}

// POST /admin/module/news/post/tweak
func (ctrl *PostController) Tweak(c *fiber.Ctx) error {
	var req dto.TweakRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if ferrs := helper.ValidateStruct(req); ferrs != nil {
		return helper.JsonValidationError(c, ferrs)
	}

	updates := make([]service.SettingsUpdate, 0, len(req.Settings))
	for key, cols := range req.Settings {
		id, ok := dto.ParseUintKey(key)
		if !ok {
			return helper.JsonValidationError(c, map[string][]string{"settings": {"invalid post id " + strconv.Quote(key)}})
		}
		updates = append(updates, service.SettingsUpdate{ID: id, Columns: dto.Columns(cols)})
	}
	if err := ctrl.Posts.UpdateSettings(c.UserContext(), updates); err != nil {
		return WriteError(c, err, "update post settings")
	}
	return helper.JsonUpdated(c, "Posts have been updated successfully", fiber.Map{"count": len(updates)})
}
