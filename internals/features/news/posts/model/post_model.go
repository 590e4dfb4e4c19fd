package model

import "time"

// PostModel holds the language invariant attributes of a news post.
type PostModel struct {
	PostID         uint      `gorm:"column:post_id;primaryKey;autoIncrement" json:"post_id"`
	PostCategoryID uint      `gorm:"column:post_category_id;not null;index:idx_news_posts_category" json:"post_category_id"`
	PostPublished  bool      `gorm:"column:post_published;not null" json:"post_published"`
	PostSeo        bool      `gorm:"column:post_seo;not null" json:"post_seo"`
	PostFront      bool      `gorm:"column:post_front;not null" json:"post_front"`
	PostTimestamp  int64     `gorm:"column:post_timestamp;not null;index:idx_news_posts_timestamp" json:"post_timestamp"`
	PostCover      string    `gorm:"column:post_cover;type:varchar(255);not null" json:"post_cover"`
	PostViews      int64     `gorm:"column:post_views;not null" json:"post_views"`
	PostCreatedAt  time.Time `gorm:"column:post_created_at;autoCreateTime" json:"post_created_at"`
	PostUpdatedAt  time.Time `gorm:"column:post_updated_at;autoUpdateTime" json:"post_updated_at"`
}

func (PostModel) TableName() string { return "news_posts" }

// PostTranslationModel is one language variant of a post.
type PostTranslationModel struct {
	PostTranslationPostID          uint   `gorm:"column:post_translation_post_id;primaryKey;autoIncrement:false" json:"post_id"`
	PostTranslationLangID          uint   `gorm:"column:post_translation_lang_id;primaryKey;autoIncrement:false" json:"lang_id"`
	PostTranslationWebPageID       uint   `gorm:"column:post_translation_web_page_id;not null;index" json:"web_page_id"`
	PostTranslationName            string `gorm:"column:post_translation_name;type:varchar(255);not null" json:"name"`
	PostTranslationTitle           string `gorm:"column:post_translation_title;type:varchar(255);not null" json:"title"`
	PostTranslationIntro           string `gorm:"column:post_translation_intro;type:text;not null" json:"intro"`
	PostTranslationFull            string `gorm:"column:post_translation_full;type:text;not null" json:"full"`
	PostTranslationKeywords        string `gorm:"column:post_translation_keywords;type:text;not null" json:"keywords"`
	PostTranslationMetaDescription string `gorm:"column:post_translation_meta_description;type:text;not null" json:"meta_description"`
}

func (PostTranslationModel) TableName() string { return "news_post_translations" }

// PostAttachedModel links a post (master) to a related post (slave).
type PostAttachedModel struct {
	PostAttachedMasterID uint `gorm:"column:post_attached_master_id;primaryKey;autoIncrement:false" json:"master_id"`
	PostAttachedSlaveID  uint `gorm:"column:post_attached_slave_id;primaryKey;autoIncrement:false;index" json:"slave_id"`
}

func (PostAttachedModel) TableName() string { return "news_post_attached" }
