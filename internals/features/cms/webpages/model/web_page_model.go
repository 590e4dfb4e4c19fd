package model

// WebPageModel maps a human readable slug (per language) to a module entity.
type WebPageModel struct {
	WebPageID         uint   `gorm:"column:web_page_id;primaryKey;autoIncrement" json:"web_page_id"`
	WebPageLangID     uint   `gorm:"column:web_page_lang_id;not null;uniqueIndex:uq_web_pages_lang_slug,priority:1" json:"web_page_lang_id"`
	WebPageSlug       string `gorm:"column:web_page_slug;type:varchar(255);not null;uniqueIndex:uq_web_pages_lang_slug,priority:2" json:"web_page_slug"`
	WebPageModule     string `gorm:"column:web_page_module;type:varchar(64);not null" json:"web_page_module"`
	WebPageController string `gorm:"column:web_page_controller;type:varchar(128);not null" json:"web_page_controller"`
	WebPageTargetID   uint   `gorm:"column:web_page_target_id;not null;index" json:"web_page_target_id"`
}

func (WebPageModel) TableName() string { return "web_pages" }
