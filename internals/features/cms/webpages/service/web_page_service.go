package service

import (
	"context"
	"errors"
	"fmt"

	langService "newsroom_backend/internals/features/cms/languages/service"
	"newsroom_backend/internals/features/cms/webpages/model"
	helper "newsroom_backend/internals/helpers"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("web page not found")

// SwitchURL is the address of one entity in one language.
type SwitchURL struct {
	LangID   uint   `json:"lang_id"`
	LangCode string `json:"lang_code"`
	LangName string `json:"lang_name"`
	URL      string `json:"url"`
}

// Service is the slug registry. It is tx-aware: WithTx binds it to a running
// transaction so page rows commit or roll back together with the entity rows.
type Service struct {
	db        *gorm.DB
	languages *langService.Service
}

func NewService(db *gorm.DB, languages *langService.Service) *Service {
	return &Service{db: db, languages: languages}
}

func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, languages: s.languages}
}

// Sluggify normalizes any string into the registry's slug alphabet.
func (s *Service) Sluggify(raw string) string {
	return helper.Slugify(raw, helper.DefaultSlugMaxLen)
}

// Surround builds the public URL of a slug. The default language is served from
// the site root, others under their language code.
func (s *Service) Surround(slug string, langID uint) string {
	if slug == "" {
		return ""
	}
	lang, ok := s.languages.FetchByID(langID)
	if !ok || lang.LanguageID == s.languages.Default().LanguageID {
		return "/" + slug
	}
	return "/" + lang.LanguageCode + "/" + slug
}

// Add registers a slug for target. A taken slug gets a numeric suffix.
func (s *Service) Add(ctx context.Context, langID uint, slug, module, controller string, targetID uint) (model.WebPageModel, error) {
	unique, err := s.uniqueSlug(ctx, langID, slug, 0)
	if err != nil {
		return model.WebPageModel{}, err
	}
	page := model.WebPageModel{
		WebPageLangID:     langID,
		WebPageSlug:       unique,
		WebPageModule:     module,
		WebPageController: controller,
		WebPageTargetID:   targetID,
	}
	if err := s.db.WithContext(ctx).Create(&page).Error; err != nil {
		return model.WebPageModel{}, fmt.Errorf("add web page: %w", err)
	}
	return page, nil
}

// Update changes the slug of an existing page, keeping it unique.
func (s *Service) Update(ctx context.Context, id uint, slug string) (model.WebPageModel, error) {
	page, err := s.FetchByID(ctx, id)
	if err != nil {
		return model.WebPageModel{}, err
	}
	unique, err := s.uniqueSlug(ctx, page.WebPageLangID, slug, id)
	if err != nil {
		return model.WebPageModel{}, err
	}
	if unique == page.WebPageSlug {
		return page, nil
	}
	if err := s.db.WithContext(ctx).Model(&model.WebPageModel{}).
		Where("web_page_id = ?", id).
		Update("web_page_slug", unique).Error; err != nil {
		return model.WebPageModel{}, fmt.Errorf("update web page: %w", err)
	}
	page.WebPageSlug = unique
	return page, nil
}

func (s *Service) DeleteByID(ctx context.Context, id uint) error {
	return s.DeleteByIDs(ctx, []uint{id})
}

func (s *Service) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("web_page_id IN ?", ids).Delete(&model.WebPageModel{}).Error
}

func (s *Service) FetchByID(ctx context.Context, id uint) (model.WebPageModel, error) {
	var page model.WebPageModel
	err := s.db.WithContext(ctx).First(&page, "web_page_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return page, ErrNotFound
	}
	return page, err
}

func (s *Service) FetchBySlug(ctx context.Context, langID uint, slug string) (model.WebPageModel, error) {
	var page model.WebPageModel
	err := s.db.WithContext(ctx).
		Where("web_page_lang_id = ? AND web_page_slug = ?", langID, slug).
		First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return page, ErrNotFound
	}
	return page, err
}

// SwitchURLs lists the URL of target in every language it has a page in,
// following the configured language order.
func (s *Service) SwitchURLs(ctx context.Context, controller string, targetID uint) ([]SwitchURL, error) {
	var pages []model.WebPageModel
	if err := s.db.WithContext(ctx).
		Where("web_page_controller = ? AND web_page_target_id = ?", controller, targetID).
		Find(&pages).Error; err != nil {
		return nil, err
	}
	byLang := make(map[uint]model.WebPageModel, len(pages))
	for _, p := range pages {
		byLang[p.WebPageLangID] = p
	}

	out := make([]SwitchURL, 0, len(pages))
	for _, lang := range s.languages.FetchAll() {
		p, ok := byLang[lang.LanguageID]
		if !ok {
			continue
		}
		out = append(out, SwitchURL{
			LangID:   lang.LanguageID,
			LangCode: lang.LanguageCode,
			LangName: lang.LanguageName,
			URL:      s.Surround(p.WebPageSlug, lang.LanguageID),
		})
	}
	return out, nil
}

func (s *Service) uniqueSlug(ctx context.Context, langID uint, raw string, exceptID uint) (string, error) {
	base := s.Sluggify(raw)
	if base == "" {
		return "", fmt.Errorf("web page: empty slug from %q", raw)
	}
	return helper.EnsureUniqueSlugCI(ctx, s.db, model.WebPageModel{}.TableName(), "web_page_slug", base,
		func(q *gorm.DB) *gorm.DB {
			q = q.Where("web_page_lang_id = ?", langID)
			if exceptID != 0 {
				q = q.Where("web_page_id <> ?", exceptID)
			}
			return q
		}, helper.DefaultSlugMaxLen)
}
