package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	langService "newsroom_backend/internals/features/cms/languages/service"
	webPageService "newsroom_backend/internals/features/cms/webpages/service"
	categoryRepo "newsroom_backend/internals/features/news/categories/repository"
	galleryRepo "newsroom_backend/internals/features/news/galleries/repository"
	"newsroom_backend/internals/features/news/posts/repository"
	"newsroom_backend/internals/features/news/posts/service"
	helper "newsroom_backend/internals/helpers"
	"newsroom_backend/internals/helpers/images"
)

// WriteError renders a news service error with the matching status.
func WriteError(c *fiber.Ctx, err error, action string) error {
	var verr *service.ValidationError
	var ioErr *images.ImageIOError
	switch {
	case errors.As(err, &verr):
		return helper.JsonValidationError(c, verr.Fields)
	case errors.Is(err, service.ErrCategoryRequired):
		return helper.JsonValidationError(c, map[string][]string{"category_id": {"category does not exist"}})
	case errors.Is(err, images.ErrUnsupportedImage):
		return helper.JsonValidationError(c, map[string][]string{"file": {err.Error()}})
	case errors.Is(err, service.ErrForbiddenColumn):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, categoryRepo.ErrNotFound),
		errors.Is(err, galleryRepo.ErrNotFound),
		errors.Is(err, webPageService.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.As(err, &ioErr):
		log.Printf("[NEWS] %s: image %s failed on %s: %v", action, ioErr.Op, ioErr.Path, ioErr.Err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store image")
	case errors.Is(err, langService.ErrNoLanguages):
		log.Printf("[NEWS] %s: %v", action, err)
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "No language configured")
	default:
		log.Printf("[NEWS] %s: %v", action, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to "+action)
	}
}
