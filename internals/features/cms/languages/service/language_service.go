package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"newsroom_backend/internals/features/cms/languages/model"

	"gorm.io/gorm"
)

var ErrNoLanguages = errors.New("languages: no language configured")

// Service keeps the (small, rarely changing) language table in memory.
type Service struct {
	db *gorm.DB

	mu     sync.RWMutex
	byID   map[uint]model.LanguageModel
	byCode map[string]model.LanguageModel
	list   []model.LanguageModel
	def    model.LanguageModel
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Refresh reloads the language table.
func (s *Service) Refresh(ctx context.Context) error {
	var rows []model.LanguageModel
	if err := s.db.WithContext(ctx).
		Order("language_order ASC, language_id ASC").
		Find(&rows).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return ErrNoLanguages
	}

	byID := make(map[uint]model.LanguageModel, len(rows))
	byCode := make(map[string]model.LanguageModel, len(rows))
	def := rows[0]
	for _, r := range rows {
		byID[r.LanguageID] = r
		byCode[strings.ToLower(r.LanguageCode)] = r
		if r.LanguageIsDefault {
			def = r
		}
	}

	s.mu.Lock()
	s.byID, s.byCode, s.list, s.def = byID, byCode, rows, def
	s.mu.Unlock()
	return nil
}

func (s *Service) FetchAll() []model.LanguageModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LanguageModel(nil), s.list...)
}

func (s *Service) FetchByID(id uint) (model.LanguageModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	return l, ok
}

func (s *Service) FetchByCode(code string) (model.LanguageModel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byCode[strings.ToLower(strings.TrimSpace(code))]
	return l, ok
}

func (s *Service) Default() model.LanguageModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.def
}
