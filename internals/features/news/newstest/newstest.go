// Package newstest wires the news module over an in-memory database and a
// temporary upload dir for tests.
package newstest

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"newsroom_backend/internals/databases/dbtest"
	"newsroom_backend/internals/features/news"
	categoryDto "newsroom_backend/internals/features/news/categories/dto"
	postDto "newsroom_backend/internals/features/news/posts/dto"
	"newsroom_backend/internals/helpers/cache"
	"newsroom_backend/internals/helpers/images"
)

// Env is a wired module plus the ids of the two seeded languages.
type Env struct {
	*news.Module
	UploadDir string
	EnID      uint
	IdID      uint
}

func New(t *testing.T) *Env {
	return NewWithCache(t, nil)
}

func NewWithCache(t *testing.T, feeds *cache.FeedCache) *Env {
	t.Helper()
	db := dbtest.Open(t)
	langs := dbtest.Languages(t, db)
	en, _ := langs.FetchByCode("en")
	id, _ := langs.FetchByCode("id")

	dir := t.TempDir()
	m := news.NewModule(news.Deps{
		DB:        db,
		Languages: langs,
		Store:     images.NewLocalStore(dir),
		RootURL:   "/static",
		Cache:     feeds,
	})
	return &Env{Module: m, UploadDir: dir, EnID: en.LanguageID, IdID: id.LanguageID}
}

// Category adds a category named name in both languages.
func (e *Env) Category(t *testing.T, name string) uint {
	t.Helper()
	id, err := e.Categories.Add(context.Background(), categoryDto.SaveCategoryRequest{
		Seo: true,
		Translations: []categoryDto.TranslationInput{
			{LangID: e.EnID, Name: name},
			{LangID: e.IdID, Name: name},
		},
	})
	require.NoError(t, err)
	return id
}

// PostInput is a published post of categoryID named name in both languages.
func (e *Env) PostInput(categoryID uint, name string) postDto.SavePostRequest {
	return postDto.SavePostRequest{
		CategoryID: categoryID,
		Published:  true,
		Seo:        true,
		Front:      true,
		Translations: []postDto.TranslationInput{
			{LangID: e.EnID, Name: name, Intro: "intro of " + name, Full: "<p>" + name + "</p>"},
			{LangID: e.IdID, Name: name},
		},
	}
}

func (e *Env) Post(t *testing.T, categoryID uint, name string) uint {
	t.Helper()
	id, err := e.Posts.Add(context.Background(), e.PostInput(categoryID, name), nil)
	require.NoError(t, err)
	return id
}

// PNG returns a small encoded image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 3), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
