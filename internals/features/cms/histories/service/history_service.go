package service

import (
	"context"
	"fmt"
	"log"

	"newsroom_backend/internals/features/cms/histories/model"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Write records an audit line. It is best-effort: failures are logged and
// never reach the caller.
func (s *Service) Write(ctx context.Context, module, template string, args ...any) {
	if s == nil || s.db == nil {
		return
	}
	raw, err := sonic.Marshal(args)
	if err != nil {
		raw = []byte("[]")
	}
	row := model.HistoryModel{
		HistoryModule:  module,
		HistoryMessage: fmt.Sprintf(template, args...),
		HistoryArgs:    datatypes.JSON(raw),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("[HISTORY] write %s failed: %v", module, err)
	}
}

func (s *Service) FetchLatest(ctx context.Context, module string, limit int) ([]model.HistoryModel, error) {
	var rows []model.HistoryModel
	err := s.db.WithContext(ctx).
		Where("history_module = ?", module).
		Order("history_id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
