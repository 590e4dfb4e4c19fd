package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"newsroom_backend/internals/features/news/galleries/dto"
	"newsroom_backend/internals/features/news/galleries/service"
	postController "newsroom_backend/internals/features/news/posts/controller"
	postDto "newsroom_backend/internals/features/news/posts/dto"
	helper "newsroom_backend/internals/helpers"
	"newsroom_backend/internals/helpers/images"
)

type GalleryController struct {
	Galleries *service.Service
}

func NewGalleryController(galleries *service.Service) *GalleryController {
	return &GalleryController{Galleries: galleries}
}

func writeError(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Post not found")
	case errors.Is(err, service.ErrFileRequired):
		return helper.JsonValidationError(c, map[string][]string{"file": {"is required"}})
	}
	return postController.WriteError(c, err, action)
}

// GET /admin/module/news/post/gallery/:post_id
func (ctrl *GalleryController) Index(c *fiber.Ctx) error {
	postID, ok := postDto.ParseUintKey(c.Params("post_id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid post id")
	}
	rows, err := ctrl.Galleries.FetchAllByPostID(c.UserContext(), postID)
	if err != nil {
		return writeError(c, err, "list gallery")
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// GET /admin/module/news/post/gallery/edit/:id
func (ctrl *GalleryController) Edit(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid gallery id")
	}
	row, err := ctrl.Galleries.FetchByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err, "load gallery image")
	}
	return helper.JsonOK(c, "ok", row)
}

// POST /admin/module/news/post/gallery/save (multipart, image in "file")
func (ctrl *GalleryController) Save(c *fiber.Ctx) error {
	var req dto.SaveGalleryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if ferrs := helper.ValidateStruct(req); ferrs != nil {
		return helper.JsonValidationError(c, ferrs)
	}

	var file *images.File
	if fh, err := c.FormFile("file"); err == nil {
		f, err := images.FileFromHeader(fh)
		if err != nil {
			return writeError(c, err, "read gallery image")
		}
		file = f
	}

	ctx := c.UserContext()
	if req.GalleryID == 0 {
		row, err := ctrl.Galleries.Add(ctx, req.GalleryPostID, req.GalleryOrder, file)
		if err != nil {
			return writeError(c, err, "add gallery image")
		}
		return helper.JsonCreated(c, "Image has been added successfully", row)
	}
	row, err := ctrl.Galleries.Update(ctx, req.GalleryID, req.GalleryOrder, file)
	if err != nil {
		return writeError(c, err, "update gallery image")
	}
	return helper.JsonUpdated(c, "Image has been updated successfully", row)
}

// POST /admin/module/news/post/gallery/delete/:id
func (ctrl *GalleryController) Delete(c *fiber.Ctx) error {
	id, ok := postDto.ParseUintKey(c.Params("id"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid gallery id")
	}
	if err := ctrl.Galleries.DeleteByID(c.UserContext(), id); err != nil {
		return writeError(c, err, "delete gallery image")
	}
	return helper.JsonDeleted(c, "Image has been deleted successfully", fiber.Map{"id": id})
}
