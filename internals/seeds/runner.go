package seeds

import (
	"log"

	"gorm.io/gorm"

	"newsroom_backend/internals/configs"
	"newsroom_backend/internals/seeds/languages"
)

// RunAllSeeds is idempotent; rows that already exist are skipped.
func RunAllSeeds(db *gorm.DB) {
	path := configs.GetEnv("SEED_LANGUAGES_FILE", "internals/seeds/languages/data_languages.json")
	if err := languages.SeedLanguagesFromJSON(db, path); err != nil {
		code := configs.GetEnv("DEFAULT_LANG_CODE", "en")
		log.Printf("[SEED] languages from %s failed: %v, falling back to %q", path, err, code)
		if err := languages.SeedLanguages(db, []languages.LanguageSeed{{
			LanguageCode:      code,
			LanguageName:      code,
			LanguageIsDefault: true,
			LanguageOrder:     1,
		}}); err != nil {
			log.Printf("[SEED] default language failed: %v", err)
		}
	}
}
