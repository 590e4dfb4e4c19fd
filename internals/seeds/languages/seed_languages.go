package languages

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"newsroom_backend/internals/features/cms/languages/model"
)

type LanguageSeed struct {
	LanguageCode      string `json:"language_code"`
	LanguageName      string `json:"language_name"`
	LanguageIsDefault bool   `json:"language_is_default"`
	LanguageOrder     int    `json:"language_order"`
}

// SeedLanguagesFromJSON inserts every language whose code is not present yet.
func SeedLanguagesFromJSON(db *gorm.DB, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}
	var data []LanguageSeed
	if err := sonic.Unmarshal(content, &data); err != nil {
		return fmt.Errorf("decode %s: %w", filePath, err)
	}
	return SeedLanguages(db, data)
}

func SeedLanguages(db *gorm.DB, data []LanguageSeed) error {
	for _, item := range data {
		var existing model.LanguageModel
		err := db.Where("language_code = ?", item.LanguageCode).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record := model.LanguageModel{
			LanguageCode:      item.LanguageCode,
			LanguageName:      item.LanguageName,
			LanguageIsDefault: item.LanguageIsDefault,
			LanguageOrder:     item.LanguageOrder,
		}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("insert language %s: %w", item.LanguageCode, err)
		}
		log.Printf("[SEED] language %s added", item.LanguageCode)
	}
	return nil
}
