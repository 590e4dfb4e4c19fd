// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "newsroom_backend/internals/databases"
	langModel "newsroom_backend/internals/features/cms/languages/model"
	langService "newsroom_backend/internals/features/cms/languages/service"
)

// Open returns a migrated SQLite database with two languages: en (default) and id.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, db.Create(&[]langModel.LanguageModel{
		{LanguageCode: "en", LanguageName: "English", LanguageIsDefault: true, LanguageOrder: 1},
		{LanguageCode: "id", LanguageName: "Bahasa Indonesia", LanguageOrder: 2},
	}).Error)
	return db
}

// Languages returns a refreshed language service over db.
func Languages(t *testing.T, db *gorm.DB) *langService.Service {
	t.Helper()
	svc := langService.NewService(db)
	require.NoError(t, svc.Refresh(context.Background()))
	return svc
}
