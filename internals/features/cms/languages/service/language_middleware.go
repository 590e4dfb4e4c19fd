package service

import (
	"github.com/gofiber/fiber/v2"
)

const (
	LocLangID   = "lang_id"
	LocLangCode = "lang_code"
)

// Middleware resolves the active language from ?lang=, the X-Language header
// or the default language, in that order.
func (s *Service) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := s.Default()
		code := c.Query("lang")
		if code == "" {
			code = c.Get("X-Language")
		}
		if code != "" {
			if l, ok := s.FetchByCode(code); ok {
				lang = l
			}
		}
		c.Locals(LocLangID, lang.LanguageID)
		c.Locals(LocLangCode, lang.LanguageCode)
		return c.Next()
	}
}

// LangID reads the language resolved by Middleware.
func LangID(c *fiber.Ctx) uint {
	if v, ok := c.Locals(LocLangID).(uint); ok {
		return v
	}
	return 0
}
