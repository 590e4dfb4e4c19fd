// Package news wires the services of the news module.
package news

import (
	"gorm.io/gorm"

	historyService "newsroom_backend/internals/features/cms/histories/service"
	langService "newsroom_backend/internals/features/cms/languages/service"
	webPageService "newsroom_backend/internals/features/cms/webpages/service"
	categoryService "newsroom_backend/internals/features/news/categories/service"
	galleryService "newsroom_backend/internals/features/news/galleries/service"
	postScheduler "newsroom_backend/internals/features/news/posts/scheduler"
	postService "newsroom_backend/internals/features/news/posts/service"
	settingsService "newsroom_backend/internals/features/news/settings/service"
	siteService "newsroom_backend/internals/features/news/site/service"
	"newsroom_backend/internals/helpers/cache"
	"newsroom_backend/internals/helpers/images"
)

type Deps struct {
	DB        *gorm.DB
	Languages *langService.Service
	Store     images.Store
	RootURL   string
	Cache     *cache.FeedCache
}

type Module struct {
	DB         *gorm.DB
	Store      images.Store
	Cache      *cache.FeedCache
	Languages  *langService.Service
	WebPages   *webPageService.Service
	Settings   *settingsService.Service
	History    *historyService.Service
	Galleries  *galleryService.Service
	Posts      *postService.Service
	Categories *categoryService.Service
	Site       *siteService.Service
	Reaper     *postScheduler.OrphanReaper
}

func NewModule(d Deps) *Module {
	m := &Module{
		DB:        d.DB,
		Store:     d.Store,
		Cache:     d.Cache,
		Languages: d.Languages,
		WebPages:  webPageService.NewService(d.DB, d.Languages),
		Settings:  settingsService.NewService(d.DB),
		History:   historyService.NewService(d.DB),
	}
	m.Galleries = galleryService.NewService(galleryService.Deps{
		DB:       d.DB,
		Settings: m.Settings,
		Store:    d.Store,
		RootURL:  d.RootURL,
		History:  m.History,
		Cache:    d.Cache,
	})
	m.Posts = postService.NewService(postService.Deps{
		DB:        d.DB,
		Languages: d.Languages,
		WebPages:  m.WebPages,
		Settings:  m.Settings,
		Galleries: m.Galleries,
		Store:     d.Store,
		RootURL:   d.RootURL,
		History:   m.History,
		Cache:     d.Cache,
	})
	m.Categories = categoryService.NewService(categoryService.Deps{
		DB:        d.DB,
		Languages: d.Languages,
		WebPages:  m.WebPages,
		Settings:  m.Settings,
		Posts:     m.Posts,
		History:   m.History,
		Cache:     d.Cache,
	})
	m.Site = siteService.NewService(siteService.Deps{
		Languages:  d.Languages,
		WebPages:   m.WebPages,
		Settings:   m.Settings,
		Posts:      m.Posts,
		Categories: m.Categories,
		Galleries:  m.Galleries,
		Cache:      d.Cache,
	})
	m.Reaper = postScheduler.NewOrphanReaper(m.Settings, m.Posts, m.Galleries)
	return m
}
