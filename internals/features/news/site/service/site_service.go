package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	langService "newsroom_backend/internals/features/cms/languages/service"
	webPageService "newsroom_backend/internals/features/cms/webpages/service"
	categoryDto "newsroom_backend/internals/features/news/categories/dto"
	categoryService "newsroom_backend/internals/features/news/categories/service"
	galleryService "newsroom_backend/internals/features/news/galleries/service"
	postDto "newsroom_backend/internals/features/news/posts/dto"
	"newsroom_backend/internals/features/news/posts/repository"
	postService "newsroom_backend/internals/features/news/posts/service"
	settingsService "newsroom_backend/internals/features/news/settings/service"
	helper "newsroom_backend/internals/helpers"
	"newsroom_backend/internals/helpers/cache"
)

var ErrNotFound = errors.New("page not found")

type Deps struct {
	Languages  *langService.Service
	WebPages   *webPageService.Service
	Settings   *settingsService.Service
	Posts      *postService.Service
	Categories *categoryService.Service
	Galleries  *galleryService.Service
	Cache      *cache.FeedCache
}

// Service assembles the public pages and widgets of the news module.
type Service struct {
	languages  *langService.Service
	webPages   *webPageService.Service
	settings   *settingsService.Service
	posts      *postService.Service
	categories *categoryService.Service
	galleries  *galleryService.Service
	cache      *cache.FeedCache
}

func NewService(d Deps) *Service {
	return &Service{
		languages:  d.Languages,
		webPages:   d.WebPages,
		settings:   d.Settings,
		posts:      d.Posts,
		categories: d.Categories,
		galleries:  d.Galleries,
		cache:      d.Cache,
	}
}

type Feed struct {
	Posts      []postDto.PostDTO `json:"posts"`
	Pagination helper.Pagination `json:"pagination"`
}

type CategoryPage struct {
	Category   categoryDto.CategoryDTO    `json:"category"`
	Posts      []postDto.PostDTO          `json:"posts"`
	Pagination helper.Pagination          `json:"pagination"`
	SwitchURLs []webPageService.SwitchURL `json:"switch_urls"`
}

// PostPage carries the gallery inside Post.
type PostPage struct {
	Post        postDto.PostDTO            `json:"post"`
	Breadcrumbs []postDto.Breadcrumb       `json:"breadcrumbs"`
	SwitchURLs  []webPageService.SwitchURL `json:"switch_urls"`
	Sequential  postDto.SequentialDTO      `json:"sequential"`
}

// Page is what a resolved slug renders: exactly one of the two is set.
type Page struct {
	Type     string        `json:"type"`
	Post     *PostPage     `json:"post,omitempty"`
	Category *CategoryPage `json:"category,omitempty"`
}

func (s *Service) perPage(ctx context.Context) (int, error) {
	st, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	return st.PerPageCount, nil
}

// Home is the paginated list of published posts, newest first.
// Home lists published posts. sort may be repository.SortAll or
// repository.SortLatest to override the publication order.
func (s *Service) Home(ctx context.Context, langID uint, page int, sort string) (Feed, error) {
	perPage, err := s.perPage(ctx)
	if err != nil {
		return Feed{}, err
	}
	if page < 1 {
		page = 1
	}
	sort = repository.ParseSort(sort)
	key := fmt.Sprintf("home:%d:%d:%d:%s", langID, page, perPage, sort)
	var feed Feed
	if s.cache.Get(ctx, key, &feed) {
		return feed, nil
	}

	posts, total, err := s.posts.FetchAllByPage(ctx, langID, repository.ListParams{
		Published: true,
		Page:      page,
		PerPage:   perPage,
		Sort:      sort,
	})
	if err != nil {
		return Feed{}, err
	}
	feed = Feed{Posts: posts, Pagination: helper.BuildPaginationFromPage(total, page, perPage)}
	feed.Pagination.Count = len(posts)
	s.cache.Set(ctx, key, feed)
	return feed, nil
}

// Category lists the published posts of one category.
func (s *Service) Category(ctx context.Context, langID, categoryID uint, page int) (CategoryPage, error) {
	perPage, err := s.perPage(ctx)
	if err != nil {
		return CategoryPage{}, err
	}
	if page < 1 {
		page = 1
	}
	key := fmt.Sprintf("category:%d:%d:%d:%d", langID, categoryID, page, perPage)
	var out CategoryPage
	if s.cache.Get(ctx, key, &out) {
		return out, nil
	}

	cat, err := s.categories.FetchByID(ctx, langID, categoryID)
	if err != nil {
		return CategoryPage{}, err
	}
	posts, total, err := s.posts.FetchAllByPage(ctx, langID, repository.ListParams{
		CategoryID: categoryID,
		Published:  true,
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		return CategoryPage{}, err
	}
	urls, err := s.categories.GetSwitchURLs(ctx, categoryID)
	if err != nil {
		return CategoryPage{}, err
	}
	out = CategoryPage{
		Category:   cat,
		Posts:      posts,
		Pagination: helper.BuildPaginationFromPage(total, page, perPage),
		SwitchURLs: urls,
	}
	out.Pagination.Count = len(posts)
	s.cache.Set(ctx, key, out)
	return out, nil
}

// Post renders a visible post and counts the view.
func (s *Service) Post(ctx context.Context, langID, id uint) (PostPage, error) {
	post, err := s.posts.FetchPublishedByID(ctx, langID, id, true)
	if err != nil {
		return PostPage{}, err
	}
	gallery, err := s.galleries.FetchAllByPostID(ctx, id)
	if err != nil {
		return PostPage{}, err
	}
	crumbs, err := s.posts.GetBreadcrumbs(ctx, post)
	if err != nil {
		return PostPage{}, err
	}
	urls, err := s.posts.GetSwitchURLs(ctx, id)
	if err != nil {
		return PostPage{}, err
	}
	seq, err := s.posts.FindSequential(ctx, langID, id, true)
	if err != nil {
		return PostPage{}, err
	}
	if err := s.posts.IncrementViewCount(ctx, id); err != nil {
		log.Printf("[NEWS] count view of post #%d: %v", id, err)
	}
	post.Gallery = gallery
	return PostPage{
		Post:        post,
		Breadcrumbs: crumbs,
		SwitchURLs:  urls,
		Sequential:  seq,
	}, nil
}

func (s *Service) Search(ctx context.Context, langID uint, query string, page int) (Feed, error) {
	perPage, err := s.perPage(ctx)
	if err != nil {
		return Feed{}, err
	}
	if page < 1 {
		page = 1
	}
	posts, total, err := s.posts.Search(ctx, langID, query, page, perPage)
	if err != nil {
		return Feed{}, err
	}
	feed := Feed{Posts: posts, Pagination: helper.BuildPaginationFromPage(total, page, perPage)}
	feed.Pagination.Count = len(posts)
	return feed, nil
}

// Resolve maps a public slug to the page it names. An empty langCode means
// the default language.
func (s *Service) Resolve(ctx context.Context, langCode, slug string, page int) (Page, error) {
	lang := s.languages.Default()
	if langCode != "" {
		l, ok := s.languages.FetchByCode(langCode)
		if !ok {
			return Page{}, ErrNotFound
		}
		lang = l
	}
	wp, err := s.webPages.FetchBySlug(ctx, lang.LanguageID, slug)
	if errors.Is(err, webPageService.ErrNotFound) {
		return Page{}, ErrNotFound
	}
	if err != nil {
		return Page{}, err
	}

	switch wp.WebPageController {
	case postService.PostController:
		p, err := s.Post(ctx, lang.LanguageID, wp.WebPageTargetID)
		if err != nil {
			return Page{}, err
		}
		return Page{Type: "post", Post: &p}, nil
	case categoryService.CategoryController:
		c, err := s.Category(ctx, lang.LanguageID, wp.WebPageTargetID, page)
		if err != nil {
			return Page{}, err
		}
		return Page{Type: "category", Category: &c}, nil
	default:
		return Page{}, ErrNotFound
	}
}

/* ===============================
   Widgets
=================================*/

func (s *Service) Categories(ctx context.Context, langID uint) ([]categoryDto.CategoryDTO, error) {
	key := fmt.Sprintf("categories:%d", langID)
	var out []categoryDto.CategoryDTO
	if s.cache.Get(ctx, key, &out) {
		return out, nil
	}
	out, err := s.categories.FetchAll(ctx, langID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, out)
	return out, nil
}

func (s *Service) blockLimit(ctx context.Context, limit int) (int, error) {
	if limit > 0 {
		return limit, nil
	}
	st, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	return st.BlockPerPageCount, nil
}

func (s *Service) Recent(ctx context.Context, langID uint, limit int, categoryID uint) ([]postDto.PostDTO, error) {
	limit, err := s.blockLimit(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.posts.FetchRecent(ctx, langID, limit, categoryID)
}

func (s *Service) Popular(ctx context.Context, langID uint, limit int, categoryID uint, random bool, views int64) ([]postDto.PostDTO, error) {
	limit, err := s.blockLimit(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.posts.FetchMostlyViewed(ctx, langID, limit, categoryID, random, false, views)
}

func (s *Service) Random(ctx context.Context, langID uint, limit int, categoryID uint) ([]postDto.PostDTO, error) {
	limit, err := s.blockLimit(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.posts.FetchRandomPublished(ctx, langID, limit, categoryID)
}

// Front lists the front page posts of one category.
func (s *Service) Front(ctx context.Context, langID, categoryID uint, limit int) ([]postDto.PostDTO, error) {
	limit, err := s.blockLimit(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.posts.FetchAllPublishedByCategoryID(ctx, langID, categoryID, limit)
}

func (s *Service) Sequential(ctx context.Context, langID, id uint) (postDto.SequentialDTO, error) {
	return s.posts.FindSequential(ctx, langID, id, true)
}
