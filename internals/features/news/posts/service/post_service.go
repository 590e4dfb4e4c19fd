package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"gorm.io/gorm"

	historyService "newsroom_backend/internals/features/cms/histories/service"
	langService "newsroom_backend/internals/features/cms/languages/service"
	webPageService "newsroom_backend/internals/features/cms/webpages/service"
	categoryRepo "newsroom_backend/internals/features/news/categories/repository"
	galleryService "newsroom_backend/internals/features/news/galleries/service"
	"newsroom_backend/internals/features/news/posts/dto"
	"newsroom_backend/internals/features/news/posts/model"
	"newsroom_backend/internals/features/news/posts/repository"
	settingsService "newsroom_backend/internals/features/news/settings/service"
	"newsroom_backend/internals/helpers/cache"
	"newsroom_backend/internals/helpers/images"
)

const (
	Module         = "News"
	PostController = "Post@index"
	ImagePath      = "data/uploads/module/news/posts"
)

var (
	ErrNotFound         = repository.ErrNotFound
	ErrForbiddenColumn  = errors.New("post: column cannot be toggled")
	ErrCategoryRequired = errors.New("post: category does not exist")
)

// ValidationError lists input problems found by the service, keyed like the
// request fields.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "post: invalid input: " + strings.Join(keys, ", ")
}

type Deps struct {
	DB        *gorm.DB
	Languages *langService.Service
	WebPages  *webPageService.Service
	Settings  *settingsService.Service
	Galleries *galleryService.Service
	Store     images.Store
	RootURL   string
	History   *historyService.Service
	Cache     *cache.FeedCache
}

type Service struct {
	db         *gorm.DB
	repo       *repository.PostRepository
	categories *categoryRepo.CategoryRepository
	languages  *langService.Service
	webPages   *webPageService.Service
	settings   *settingsService.Service
	galleries  *galleryService.Service
	store      images.Store
	rootURL    string
	history    *historyService.Service
	cache      *cache.FeedCache
}

func NewService(d Deps) *Service {
	return &Service{
		db:         d.DB,
		repo:       repository.NewPostRepository(d.DB),
		categories: categoryRepo.NewCategoryRepository(d.DB),
		languages:  d.Languages,
		webPages:   d.WebPages,
		settings:   d.Settings,
		galleries:  d.Galleries,
		store:      d.Store,
		rootURL:    d.RootURL,
		history:    d.History,
		cache:      d.Cache,
	}
}

// Repository exposes the mapper, mainly so tests can pin the clock.
func (s *Service) Repository() *repository.PostRepository { return s.repo }

// Manager builds the cover image manager for the current settings.
func (s *Service) Manager(st settingsService.Settings) *images.Manager {
	return images.NewManager(s.store, ImagePath, s.rootURL, st.CoverQuality, st.PostImageSizes()...)
}

/* ===============================
   Hydration
=================================*/

type hydrator struct {
	st  settingsService.Settings
	m   *images.Manager
	web *webPageService.Service
}

func (s *Service) hydrator(ctx context.Context) (*hydrator, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &hydrator{st: st, m: s.Manager(st), web: s.webPages}, nil
}

func (h *hydrator) timeBag(ts int64) dto.TimeBag {
	return dto.TimeBag{
		Timestamp: ts,
		ListDate:  h.st.FormatListDate(ts),
		PostDate:  h.st.FormatPostDate(ts),
	}
}

func (h *hydrator) one(row repository.PostRow) dto.PostDTO {
	return dto.ToPostDTO(row, h.web.Surround(row.Slug, row.LangID), h.timeBag(row.Timestamp), h.m.Bag(row.PostID, row.Cover))
}

func (h *hydrator) many(rows []repository.PostRow) []dto.PostDTO {
	out := make([]dto.PostDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, h.one(r))
	}
	return out
}

func (s *Service) hydrateRows(ctx context.Context, rows []repository.PostRow, err error) ([]dto.PostDTO, error) {
	if err != nil {
		return nil, err
	}
	h, err := s.hydrator(ctx)
	if err != nil {
		return nil, err
	}
	return h.many(rows), nil
}

/* ===============================
   Reads
=================================*/

func (s *Service) FetchAllByPage(ctx context.Context, langID uint, p repository.ListParams) ([]dto.PostDTO, int64, error) {
	rows, total, err := s.repo.FetchAllByPage(ctx, langID, p)
	out, err := s.hydrateRows(ctx, rows, err)
	return out, total, err
}

// FetchAllPublishedByCategoryID returns front page posts of one category.
func (s *Service) FetchAllPublishedByCategoryID(ctx context.Context, langID, categoryID uint, limit int) ([]dto.PostDTO, error) {
	out, _, err := s.FetchAllByPage(ctx, langID, repository.ListParams{
		CategoryID: categoryID,
		Published:  true,
		Front:      true,
		PerPage:    limit,
	})
	return out, err
}

func (s *Service) FetchMostlyViewed(ctx context.Context, langID uint, limit int, categoryID uint, random, front bool, views int64) ([]dto.PostDTO, error) {
	rows, err := s.repo.FetchMostlyViewed(ctx, langID, limit, categoryID, random, front, views)
	return s.hydrateRows(ctx, rows, err)
}

func (s *Service) FetchRandomPublished(ctx context.Context, langID uint, limit int, categoryID uint) ([]dto.PostDTO, error) {
	rows, err := s.repo.FetchRandomPublished(ctx, langID, limit, categoryID)
	return s.hydrateRows(ctx, rows, err)
}

func (s *Service) FetchRecent(ctx context.Context, langID uint, limit int, categoryID uint) ([]dto.PostDTO, error) {
	rows, err := s.repo.FetchRecent(ctx, langID, limit, categoryID)
	return s.hydrateRows(ctx, rows, err)
}

func (s *Service) Filter(ctx context.Context, langID uint, in repository.FilterInput, page, perPage int, sortColumn string, desc bool) ([]dto.PostDTO, int64, error) {
	rows, total, err := s.repo.Filter(ctx, langID, in, page, perPage, sortColumn, desc)
	out, err := s.hydrateRows(ctx, rows, err)
	return out, total, err
}

func (s *Service) Search(ctx context.Context, langID uint, keyword string, page, perPage int) ([]dto.PostDTO, int64, error) {
	rows, total, err := s.repo.Search(ctx, langID, keyword, page, perPage)
	out, err := s.hydrateRows(ctx, rows, err)
	return out, total, err
}

// FetchByID returns one post in langID, with its attached posts when
// withAttached is set. Unpublished posts are included.
func (s *Service) FetchByID(ctx context.Context, langID, id uint, withAttached bool) (dto.PostDTO, error) {
	row, err := s.repo.FetchByID(ctx, langID, id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	h, err := s.hydrator(ctx)
	if err != nil {
		return dto.PostDTO{}, err
	}
	post := h.one(row)

	attached, err := s.repo.FetchAttachedIDs(ctx, id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	post.AttachedIDs = attached
	if withAttached && len(attached) > 0 {
		rows, err := s.repo.FetchByIDs(ctx, langID, attached)
		if err != nil {
			return dto.PostDTO{}, err
		}
		post.AttachedPosts = h.many(rows)
	}
	return post, nil
}

// FetchPublishedByID is FetchByID for visitors: hidden and scheduled posts
// are reported as not found and only visible attached posts are kept.
func (s *Service) FetchPublishedByID(ctx context.Context, langID, id uint, withAttached bool) (dto.PostDTO, error) {
	post, err := s.FetchByID(ctx, langID, id, withAttached)
	if err != nil {
		return post, err
	}
	now := s.repo.Now().Unix()
	if !post.Published || post.Timestamp > now {
		return dto.PostDTO{}, ErrNotFound
	}
	visible := post.AttachedPosts[:0]
	for _, a := range post.AttachedPosts {
		if a.Published && a.Timestamp <= now {
			visible = append(visible, a)
		}
	}
	post.AttachedPosts = visible
	return post, nil
}

// FetchTranslations returns the raw per-language rows of a post.
func (s *Service) FetchTranslations(ctx context.Context, id uint) ([]dto.TranslationDTO, error) {
	if _, err := s.repo.FetchPost(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.FetchTranslations(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToTranslationDTOs(rows), nil
}

func (s *Service) FindSequential(ctx context.Context, langID, id uint, publishedOnly bool) (dto.SequentialDTO, error) {
	next, prev, err := s.repo.FindSequential(ctx, langID, id, publishedOnly)
	if err != nil {
		return dto.SequentialDTO{}, err
	}
	rows, err := s.repo.FetchByIDs(ctx, langID, nonZero(next, prev))
	if err != nil {
		return dto.SequentialDTO{}, err
	}
	h, err := s.hydrator(ctx)
	if err != nil {
		return dto.SequentialDTO{}, err
	}
	var out dto.SequentialDTO
	for _, r := range rows {
		p := h.one(r)
		switch r.PostID {
		case next:
			out.Next = &p
		case prev:
			out.Previous = &p
		}
	}
	return out, nil
}

// FetchDummy returns the defaults of the add form.
func (s *Service) FetchDummy(ctx context.Context) (dto.PostDTO, error) {
	h, err := s.hydrator(ctx)
	if err != nil {
		return dto.PostDTO{}, err
	}
	ts := s.repo.Now().Unix()
	return dto.PostDTO{
		Timestamp: ts,
		Time:      h.timeBag(ts),
		Published: true,
		Seo:       true,
		Front:     true,
		Images:    images.Bag{},
	}, nil
}

// GetBreadcrumbs: category (linked) then the post itself.
func (s *Service) GetBreadcrumbs(ctx context.Context, post dto.PostDTO) ([]dto.Breadcrumb, error) {
	cat, err := s.categories.FetchByID(ctx, post.LangID, post.CategoryID)
	if err != nil && !errors.Is(err, categoryRepo.ErrNotFound) {
		return nil, err
	}
	crumbs := make([]dto.Breadcrumb, 0, 2)
	if err == nil {
		crumbs = append(crumbs, dto.Breadcrumb{Name: cat.Name, Link: s.webPages.Surround(cat.Slug, post.LangID)})
	}
	return append(crumbs, dto.Breadcrumb{Name: post.Name}), nil
}

func (s *Service) GetSwitchURLs(ctx context.Context, id uint) ([]webPageService.SwitchURL, error) {
	return s.webPages.SwitchURLs(ctx, PostController, id)
}

func (s *Service) FetchOptions(ctx context.Context, langID, excludeID uint) ([]repository.OptionRow, error) {
	return s.repo.FetchOptions(ctx, langID, excludeID)
}

// IncrementViewCount adds one view. Every call counts.
func (s *Service) IncrementViewCount(ctx context.Context, id uint) error {
	return s.repo.IncrementViews(ctx, id)
}

/* ===============================
   Writes
=================================*/

func (s *Service) checkInput(ctx context.Context, in *dto.SavePostRequest, selfID uint) error {
	ok, err := s.categories.ExistsByID(ctx, in.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryRequired
	}

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

	attached := uniqueIDs(in.Attached, selfID)
	if len(attached) > 0 {
		existing, err := s.repo.ExistingIDs(ctx, attached)
		if err != nil {
			return err
		}
		known := make(map[uint]bool, len(existing))
		for _, id := range existing {
			known[id] = true
		}
		for _, id := range attached {
			if !known[id] {
				fields["attached"] = append(fields["attached"], fmt.Sprintf("unknown post %d", id))
			}
		}
	}
	in.Attached = attached

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func translationModel(postID, webPageID uint, t dto.TranslationInput) model.PostTranslationModel {
	return model.PostTranslationModel{
		PostTranslationPostID:          postID,
		PostTranslationLangID:          t.LangID,
		PostTranslationWebPageID:       webPageID,
		PostTranslationName:            t.Name,
		PostTranslationTitle:           t.Title,
		PostTranslationIntro:           t.Intro,
		PostTranslationFull:            t.Full,
		PostTranslationKeywords:        t.Keywords,
		PostTranslationMetaDescription: t.MetaDescription,
	}
}

// Add creates a post with its translations, slugs, cover and attached links
// in one transaction. A failed cover upload rolls everything back.
func (s *Service) Add(ctx context.Context, in dto.SavePostRequest, cover *images.File) (uint, error) {
	in.Prepare()
	if err := s.checkInput(ctx, &in, 0); err != nil {
		return 0, err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	m := s.Manager(st)

	post := model.PostModel{
		PostCategoryID: in.CategoryID,
		PostPublished:  in.Published,
		PostSeo:        in.Seo,
		PostFront:      in.Front,
		PostTimestamp:  in.Timestamp(s.repo.Now()),
		PostViews:      0,
	}
	if cover != nil {
		post.PostCover = images.SafeName(cover.Name)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pages := s.webPages.WithTx(tx)
		if err := repo.Create(ctx, &post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		for _, t := range in.Translations {
			page, err := pages.Add(ctx, t.LangID, t.Slug, Module, PostController, post.PostID)
			if err != nil {
				return err
			}
			tr := translationModel(post.PostID, page.WebPageID, t)
			if err := repo.CreateTranslation(ctx, &tr); err != nil {
				return fmt.Errorf("create post translation: %w", err)
			}
		}
		if cover != nil {
			if err := m.Upload(ctx, post.PostID, post.PostCover, cover.Data); err != nil {
				return err
			}
		}
		return repo.InsertAttached(ctx, post.PostID, in.Attached)
	})
	if err != nil {
		if post.PostID != 0 && cover != nil {
			s.cleanupCover(ctx, m, post.PostID)
		}
		return 0, err
	}

	s.history.Write(ctx, Module, "Post %q has been added", in.Translations[0].Name)
	s.cache.Bump(ctx)
	return post.PostID, nil
}

// Update saves the form over an existing post. remove_cover wins over a new
// upload; the attached set is replaced by exactly the submitted ids.
func (s *Service) Update(ctx context.Context, in dto.SavePostRequest, cover *images.File) error {
	current, err := s.repo.FetchPost(ctx, in.ID)
	if err != nil {
		return err
	}
	in.Prepare()
	if err := s.checkInput(ctx, &in, in.ID); err != nil {
		return err
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	m := s.Manager(st)

	cols := map[string]any{
		"post_category_id": in.CategoryID,
		"post_published":   in.Published,
		"post_seo":         in.Seo,
		"post_front":       in.Front,
		"post_timestamp":   in.Timestamp(s.repo.Now()),
	}
	newCover := ""
	switch {
	case in.RemoveCover && current.PostCover != "":
		cols["post_cover"] = ""
	case cover != nil:
		newCover = images.SafeName(cover.Name)
		cols["post_cover"] = newCover
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		pages := s.webPages.WithTx(tx)

		if err := repo.UpdateColumns(ctx, in.ID, cols); err != nil {
			return err
		}
		for _, t := range in.Translations {
			existing, err := repo.FetchTranslation(ctx, in.ID, t.LangID)
			switch {
			case err == nil:
				page, err := pages.Update(ctx, existing.PostTranslationWebPageID, t.Slug)
				if errors.Is(err, webPageService.ErrNotFound) {
					page, err = pages.Add(ctx, t.LangID, t.Slug, Module, PostController, in.ID)
				}
				if err != nil {
					return err
				}
				if err := repo.UpdateTranslation(ctx, translationModel(in.ID, page.WebPageID, t)); err != nil {
					return err
				}
			case errors.Is(err, repository.ErrNotFound):
				page, err := pages.Add(ctx, t.LangID, t.Slug, Module, PostController, in.ID)
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

		if newCover != "" {
			if err := m.Upload(ctx, in.ID, newCover, cover.Data); err != nil {
				return err
			}
		}
		return repo.ReplaceAttached(ctx, in.ID, in.Attached)
	})
	if err != nil {
		if newCover != "" {
			if derr := m.Delete(ctx, in.ID, newCover); derr != nil {
				log.Printf("[NEWS] cleanup cover of post #%d: %v", in.ID, derr)
			}
		}
		return err
	}

	// the old cover goes only once the row no longer points at it
	if current.PostCover != "" && (newCover != "" || in.RemoveCover) {
		if derr := m.Delete(ctx, in.ID, current.PostCover); derr != nil {
			log.Printf("[NEWS] remove old cover of post #%d: %v", in.ID, derr)
		}
	}

	s.history.Write(ctx, Module, "Post %q has been updated", in.Translations[0].Name)
	s.cache.Bump(ctx)
	return nil
}

// SettingsUpdate toggles some of seo, published and front on one post.
type SettingsUpdate struct {
	ID      uint
	Columns map[string]bool
}

var toggleColumns = map[string]string{
	"seo":       "post_seo",
	"published": "post_published",
	"front":     "post_front",
}

// UpdateSettings applies every update or none. Keys other than seo,
// published and front are rejected before anything is written.
func (s *Service) UpdateSettings(ctx context.Context, updates []SettingsUpdate) error {
	for _, u := range updates {
		for k := range u.Columns {
			if _, ok := toggleColumns[k]; !ok {
				return fmt.Errorf("%w: %q", ErrForbiddenColumn, k)
			}
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, u := range updates {
			cols := make(map[string]any, len(u.Columns))
			for k, v := range u.Columns {
				cols[toggleColumns[k]] = v
			}
			if err := repo.UpdateColumns(ctx, u.ID, cols); err != nil {
				return fmt.Errorf("post #%d: %w", u.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.history.Write(ctx, Module, "Settings of %d posts have been updated", len(updates))
	s.cache.Bump(ctx)
	return nil
}

func (s *Service) DeleteByID(ctx context.Context, id uint) error {
	return s.DeleteByIDs(ctx, []uint{id})
}

// DeleteByIDs removes every post or none: an unknown id fails the whole
// batch and is named in the error.
func (s *Service) DeleteByIDs(ctx context.Context, ids []uint) error {
	ids = uniqueIDs(ids, 0)
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
			return fmt.Errorf("post #%d: %w", id, ErrNotFound)
		}
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.RemoveWithin(ctx, tx, st, ids)
	}); err != nil {
		return err
	}
	s.history.Write(ctx, Module, "%d posts have been removed", len(ids))
	s.cache.Bump(ctx)
	return nil
}

// RemoveWithin deletes posts inside tx: junction rows, slugs, image files,
// gallery, translations and finally the rows.
func (s *Service) RemoveWithin(ctx context.Context, tx *gorm.DB, st settingsService.Settings, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	repo := s.repo.WithTx(tx)
	if err := repo.DeleteAttached(ctx, ids); err != nil {
		return err
	}
	pageIDs, err := repo.FetchWebPageIDs(ctx, ids)
	if err != nil {
		return err
	}
	if err := s.webPages.WithTx(tx).DeleteByIDs(ctx, pageIDs); err != nil {
		return err
	}
	m := s.Manager(st)
	for _, id := range ids {
		if err := m.Delete(ctx, id, ""); err != nil {
			return err
		}
	}
	if err := s.galleries.RemoveForPosts(ctx, tx, st, ids); err != nil {
		return err
	}
	if err := repo.DeleteTranslations(ctx, ids); err != nil {
		return err
	}
	return repo.DeleteByIDs(ctx, ids)
}

func (s *Service) cleanupCover(ctx context.Context, m *images.Manager, id uint) {
	if err := m.Delete(ctx, id, ""); err != nil {
		log.Printf("[NEWS] cleanup cover of post #%d: %v", id, err)
	}
}

func uniqueIDs(ids []uint, except uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || id == except || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func nonZero(ids ...uint) []uint {
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}
