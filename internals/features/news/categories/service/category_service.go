package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	historyService "newsroom_backend/internals/features/cms/histories/service"
	langService "newsroom_backend/internals/features/cms/languages/service"
	webPageService "newsroom_backend/internals/features/cms/webpages/service"
	"newsroom_backend/internals/features/news/categories/dto"
	"newsroom_backend/internals/features/news/categories/model"
	"newsroom_backend/internals/features/news/categories/repository"
	postRepo "newsroom_backend/internals/features/news/posts/repository"
	postService "newsroom_backend/internals/features/news/posts/service"
	settingsService "newsroom_backend/internals/features/news/settings/service"
	"newsroom_backend/internals/helpers/cache"
)

const CategoryController = "Category@index"

var ErrNotFound = repository.ErrNotFound

type ValidationError = postService.ValidationError

type Deps struct {
	DB        *gorm.DB
	Languages *langService.Service
	WebPages  *webPageService.Service
	Settings  *settingsService.Service
	Posts     *postService.Service
	History   *historyService.Service
	Cache     *cache.FeedCache
}

type Service struct {
	db        *gorm.DB
	repo      *repository.CategoryRepository
	postRepo  *postRepo.PostRepository
	languages *langService.Service
	webPages  *webPageService.Service
	settings  *settingsService.Service
	posts     *postService.Service
	history   *historyService.Service
	cache     *cache.FeedCache
}

func NewService(d Deps) *Service {
	return &Service{
		db:        d.DB,
		repo:      repository.NewCategoryRepository(d.DB),
		postRepo:  postRepo.NewPostRepository(d.DB),
		languages: d.Languages,
		webPages:  d.WebPages,
		settings:  d.Settings,
		posts:     d.Posts,
		history:   d.History,
		cache:     d.Cache,
	}
}

func (s *Service) toDTO(row repository.CategoryRow) dto.CategoryDTO {
	return dto.ToCategoryDTO(row, s.webPages.Surround(row.Slug, row.LangID))
}

// FetchAll lists categories with their post count, newest first. Empty
// categories are included with a count of zero.
func (s *Service) FetchAll(ctx context.Context, langID uint) ([]dto.CategoryDTO, error) {
	rows, err := s.repo.FetchAll(ctx, langID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.toDTO(r))
	}
	return out, nil
}

func (s *Service) FetchByID(ctx context.Context, langID, id uint) (dto.CategoryDTO, error) {
	row, err := s.repo.FetchByID(ctx, langID, id)
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	return s.toDTO(row), nil
}

func (s *Service) FetchTranslations(ctx context.Context, id uint) ([]dto.TranslationDTO, error) {
	if _, err := s.repo.FetchCategory(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.FetchTranslations(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToTranslationDTOs(rows), nil
}

func (s *Service) FetchList(ctx context.Context, langID uint) ([]dto.OptionDTO, error) {
	rows, err := s.repo.FetchList(ctx, langID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OptionDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.OptionDTO{ID: r.CategoryID, Name: r.Name})
	}
	return out, nil
}

// FetchAllWithPosts groups every post but excludeID under its category name.
func (s *Service) FetchAllWithPosts(ctx context.Context, langID, excludeID uint) ([]dto.PostGroupDTO, error) {
	rows, err := s.posts.FetchOptions(ctx, langID, excludeID)
	if err != nil {
		return nil, err
	}
	out := []dto.PostGroupDTO{}
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.CategoryName]
		if !ok {
			i = len(out)
			index[r.CategoryName] = i
			out = append(out, dto.PostGroupDTO{Category: r.CategoryName})
		}
		out[i].Posts = append(out[i].Posts, r)
	}
	return out, nil
}

func (s *Service) GetSwitchURLs(ctx context.Context, id uint) ([]webPageService.SwitchURL, error) {
	return s.webPages.SwitchURLs(ctx, CategoryController, id)
}

func (s *Service) checkInput(in *dto.SaveCategoryRequest) error {
	fields := map[string][]string{}
	seen := map[uint]bool{}
	for i, t := range in.Translations {
		key := fmt.Sprintf("translations[%d]", i)
		if _, ok := s.languages.FetchByID(t.LangID); !ok {
			fields[key+".lang_id"] = append(fields[key+".lang_id"], "unknown language")
			continue
		}
		if seen[t.LangID] {
			fields[key+".lang_id"] = append(fields[key+".lang_id"], "duplicate language")
		}
		seen[t.LangID] = true
		if s.webPages.Sluggify(t.Slug) == "" {
			fields[key+".slug"] = append(fields[key+".slug"], "must contain letters or digits")
		}
	}
	for _, l := range s.languages.FetchAll() {
		if !seen[l.LanguageID] {
			fields["translations"] = append(fields["translations"], "missing language "+l.LanguageCode)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func translationModel(categoryID, webPageID uint, t dto.TranslationInput) model.CategoryTranslationModel {
	return model.CategoryTranslationModel{
		CategoryTranslationCategoryID:      categoryID,
		CategoryTranslationLangID:          t.LangID,
		CategoryTranslationWebPageID:       webPageID,
		CategoryTranslationName:            t.Name,
		CategoryTranslationTitle:           t.Title,
		CategoryTranslationDescription:     t.Description,
		CategoryTranslationKeywords:        t.Keywords,
		CategoryTranslationMetaDescription: t.MetaDescription,
	}
}

func (s *Service) Add(ctx context.Context, in dto.SaveCategoryRequest) (uint, error) {
	in.Prepare()
	if err := s.checkInput(&in); err != nil {
		return 0, err
	}
	category := model.CategoryModel{CategorySeo: in.Seo}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pages := s.webPages.WithTx(tx)
		if err := repo.Create(ctx, &category); err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		for _, t := range in.Translations {
			page, err := pages.Add(ctx, t.LangID, t.Slug, postService.Module, CategoryController, category.CategoryID)
			if err != nil {
				return err
			}
			tr := translationModel(category.CategoryID, page.WebPageID, t)
			if err := repo.CreateTranslation(ctx, &tr); err != nil {
				return fmt.Errorf("create category translation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.history.Write(ctx, postService.Module, "Category %q has been added", in.Translations[0].Name)
	s.cache.Bump(ctx)
	return category.CategoryID, nil
}

func (s *Service) Update(ctx context.Context, in dto.SaveCategoryRequest) error {
	if _, err := s.repo.FetchCategory(ctx, in.ID); err != nil {
		return err
	}
	in.Prepare()
	if err := s.checkInput(&in); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pages := s.webPages.WithTx(tx)
		if err := repo.UpdateColumns(ctx, in.ID, map[string]any{"category_seo": in.Seo}); err != nil {
			return err
		}
		for _, t := range in.Translations {
			existing, err := repo.FetchTranslation(ctx, in.ID, t.LangID)
			switch {
			case err == nil:
				page, err := pages.Update(ctx, existing.CategoryTranslationWebPageID, t.Slug)
				if errors.Is(err, webPageService.ErrNotFound) {
					page, err = pages.Add(ctx, t.LangID, t.Slug, postService.Module, CategoryController, in.ID)
				}
				if err != nil {
					return err
				}
				if err := repo.UpdateTranslation(ctx, translationModel(in.ID, page.WebPageID, t)); err != nil {
					return err
				}
			case errors.Is(err, repository.ErrNotFound):
				page, err := pages.Add(ctx, t.LangID, t.Slug, postService.Module, CategoryController, in.ID)
				if err != nil {
					return err
				}
				tr := translationModel(in.ID, page.WebPageID, t)
				if err := repo.CreateTranslation(ctx, &tr); err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.history.Write(ctx, postService.Module, "Category %q has been updated", in.Translations[0].Name)
	s.cache.Bump(ctx)
	return nil
}

func (s *Service) DeleteByID(ctx context.Context, id uint) error {
	return s.DeleteByIDs(ctx, []uint{id})
}

// DeleteByIDs removes the categories together with every post they hold.
// An unknown id fails the whole batch.
func (s *Service) DeleteByIDs(ctx context.Context, ids []uint) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	existing, err := s.repo.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("category #%d: %w", id, ErrNotFound)
		}
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs, err := s.postRepo.WithTx(tx).FetchIDsByCategoryIDs(ctx, ids)
		if err != nil {
			return err
		}
		if err := s.posts.RemoveWithin(ctx, tx, st, postIDs); err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		pageIDs, err := repo.FetchWebPageIDs(ctx, ids)
		if err != nil {
			return err
		}
		if err := s.webPages.WithTx(tx).DeleteByIDs(ctx, pageIDs); err != nil {
			return err
		}
		if err := repo.DeleteTranslations(ctx, ids); err != nil {
			return err
		}
		return repo.DeleteByIDs(ctx, ids)
	})
	if err != nil {
		return err
	}
	s.history.Write(ctx, postService.Module, "%d categories have been removed", len(ids))
	s.cache.Bump(ctx)
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
