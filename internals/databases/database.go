package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"newsroom_backend/internals/configs"
	historyModel "newsroom_backend/internals/features/cms/histories/model"
	languageModel "newsroom_backend/internals/features/cms/languages/model"
	webPageModel "newsroom_backend/internals/features/cms/webpages/model"
	categoryModel "newsroom_backend/internals/features/news/categories/model"
	galleryModel "newsroom_backend/internals/features/news/galleries/model"
	postModel "newsroom_backend/internals/features/news/posts/model"
	settingsModel "newsroom_backend/internals/features/news/settings/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("[DB] connecting to PostgreSQL...")

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=newsroom&options=-c statement_timeout=3000",
		configs.GetEnv("DB_USER"),
		configs.GetEnv("DB_PASSWORD"),
		configs.GetEnv("DB_HOST", "localhost"),
		configs.GetEnv("DB_PORT", "5432"),
		configs.GetEnv("DB_NAME"),
		configs.GetEnv("DB_SSLMODE", "require"),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: configs.NewGormLogger()})
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	DB = db
	log.Println("[DB] connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[DB] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("[DB] warm-up ping err: %v", err)
			return
		}
		var n int64
		if err := DB.Table("news_posts").Count(&n).Error; err != nil {
			log.Printf("[DB] warm-up query err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Models lists every table owned by this service.
func Models() []any {
	return []any{
		&languageModel.LanguageModel{},
		&webPageModel.WebPageModel{},
		&historyModel.HistoryModel{},
		&settingsModel.NewsConfigModel{},
		&categoryModel.CategoryModel{},
		&categoryModel.CategoryTranslationModel{},
		&postModel.PostModel{},
		&postModel.PostTranslationModel{},
		&postModel.PostAttachedModel{},
		&galleryModel.GalleryModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
