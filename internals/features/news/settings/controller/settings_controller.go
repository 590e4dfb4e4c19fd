package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	historyService "newsroom_backend/internals/features/cms/histories/service"
	"newsroom_backend/internals/features/news/settings/service"
	helper "newsroom_backend/internals/helpers"
	"newsroom_backend/internals/helpers/cache"
)

type SettingsController struct {
	Settings *service.Service
	History  *historyService.Service
	Cache    *cache.FeedCache
}

func NewSettingsController(settings *service.Service, history *historyService.Service, feeds *cache.FeedCache) *SettingsController {
	return &SettingsController{Settings: settings, History: history, Cache: feeds}
}

// GET /admin/module/news/config
func (ctrl *SettingsController) Index(c *fiber.Ctx) error {
	st, err := ctrl.Settings.Get(c.UserContext())
	if err != nil {
		log.Printf("[NEWS] config load: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	return helper.JsonOK(c, "ok", st)
}

// POST /admin/module/news/config/save
func (ctrl *SettingsController) Save(c *fiber.Ctx) error {
	st, err := ctrl.Settings.Get(c.UserContext())
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load settings")
	}
	if err := c.BodyParser(&st); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid body")
	}
	if ferrs := helper.ValidateStruct(st); ferrs != nil {
		return helper.JsonValidationError(c, ferrs)
	}
	if err := ctrl.Settings.Save(c.UserContext(), st); err != nil {
		log.Printf("[NEWS] config save: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save settings")
	}
	ctrl.Cache.Bump(c.UserContext())
	ctrl.History.Write(c.UserContext(), "News", "Settings have been updated")
	return helper.JsonUpdated(c, "Settings have been updated successfully", st)
}

// GET /admin/module/news/history?limit=
func (ctrl *SettingsController) ListHistory(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	rows, err := ctrl.History.FetchLatest(c.UserContext(), "News", limit)
	if err != nil {
		log.Printf("[NEWS] history load: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load history")
	}
	return helper.JsonList(c, "ok", rows, nil)
}
