package model

import "time"

type CategoryModel struct {
	CategoryID        uint      `gorm:"column:category_id;primaryKey;autoIncrement" json:"category_id"`
	CategorySeo       bool      `gorm:"column:category_seo;not null" json:"category_seo"`
	CategoryCreatedAt time.Time `gorm:"column:category_created_at;autoCreateTime" json:"category_created_at"`
	CategoryUpdatedAt time.Time `gorm:"column:category_updated_at;autoUpdateTime" json:"category_updated_at"`
}

func (CategoryModel) TableName() string { return "news_categories" }

type CategoryTranslationModel struct {
	CategoryTranslationCategoryID      uint   `gorm:"column:category_translation_category_id;primaryKey;autoIncrement:false" json:"category_id"`
	CategoryTranslationLangID          uint   `gorm:"column:category_translation_lang_id;primaryKey;autoIncrement:false" json:"lang_id"`
	CategoryTranslationWebPageID       uint   `gorm:"column:category_translation_web_page_id;not null;index" json:"web_page_id"`
	CategoryTranslationName            string `gorm:"column:category_translation_name;type:varchar(255);not null" json:"name"`
	CategoryTranslationTitle           string `gorm:"column:category_translation_title;type:varchar(255);not null" json:"title"`
	CategoryTranslationDescription     string `gorm:"column:category_translation_description;type:text;not null" json:"description"`
	CategoryTranslationKeywords        string `gorm:"column:category_translation_keywords;type:text;not null" json:"keywords"`
	CategoryTranslationMetaDescription string `gorm:"column:category_translation_meta_description;type:text;not null" json:"meta_description"`
}

func (CategoryTranslationModel) TableName() string { return "news_category_translations" }
