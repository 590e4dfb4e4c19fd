package dto

import (
	"strings"

	"newsroom_backend/internals/features/news/categories/repository"
	postRepo "newsroom_backend/internals/features/news/posts/repository"
	helper "newsroom_backend/internals/helpers"
)

type CategoryDTO struct {
	ID              uint   `json:"id"`
	Seo             bool   `json:"seo"`
	LangID          uint   `json:"lang_id"`
	WebPageID       uint   `json:"web_page_id"`
	Slug            string `json:"slug"`
	URL             string `json:"url"`
	Name            string `json:"name"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Keywords        string `json:"keywords"`
	MetaDescription string `json:"meta_description"`
	PostCount       int64  `json:"post_count"`
}

func ToCategoryDTO(row repository.CategoryRow, url string) CategoryDTO {
	return CategoryDTO{
		ID:              row.CategoryID,
		Seo:             row.Seo,
		LangID:          row.LangID,
		WebPageID:       row.WebPageID,
		Slug:            row.Slug,
		URL:             url,
		Name:            helper.PlainText(row.Name),
		Title:           helper.PlainText(row.Title),
		Description:     helper.PlainText(row.Description),
		Keywords:        helper.PlainText(row.Keywords),
		MetaDescription: helper.PlainText(row.MetaDescription),
		PostCount:       row.PostCount,
	}
}

type TranslationDTO struct {
	LangID          uint   `json:"lang_id"`
	WebPageID       uint   `json:"web_page_id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Keywords        string `json:"keywords"`
	MetaDescription string `json:"meta_description"`
}

func ToTranslationDTOs(rows []repository.TranslationRow) []TranslationDTO {
	out := make([]TranslationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, TranslationDTO{
			LangID:          r.CategoryTranslationLangID,
			WebPageID:       r.CategoryTranslationWebPageID,
			Slug:            r.Slug,
			Name:            r.CategoryTranslationName,
			Title:           r.CategoryTranslationTitle,
			Description:     r.CategoryTranslationDescription,
			Keywords:        r.CategoryTranslationKeywords,
			MetaDescription: r.CategoryTranslationMetaDescription,
		})
	}
	return out
}

// OptionDTO is one entry of the category dropdown.
type OptionDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PostGroupDTO lists the posts of one category for the attached selector.
type PostGroupDTO struct {
	Category string               `json:"category"`
	Posts    []postRepo.OptionRow `json:"posts"`
}

/* ===============================
   Requests
=================================*/

type TranslationInput struct {
	LangID          uint   `json:"lang_id" form:"lang_id" validate:"required"`
	Name            string `json:"name" form:"name" validate:"required,max=255"`
	Title           string `json:"title" form:"title" validate:"max=255"`
	Slug            string `json:"slug" form:"slug" validate:"max=255"`
	Description     string `json:"description" form:"description"`
	Keywords        string `json:"keywords" form:"keywords"`
	MetaDescription string `json:"meta_description" form:"meta_description"`
}

type SaveCategoryRequest struct {
	ID           uint               `json:"id" form:"id"`
	Seo          bool               `json:"seo" form:"seo"`
	Translations []TranslationInput `json:"translations" validate:"required,min=1,dive"`
}

// Prepare trims the input; an empty slug or title falls back to the name.
func (r *SaveCategoryRequest) Prepare() {
	for i := range r.Translations {
		t := &r.Translations[i]
		t.Name = strings.TrimSpace(t.Name)
		t.Title = strings.TrimSpace(t.Title)
		t.Slug = strings.TrimSpace(t.Slug)
		if t.Slug == "" {
			t.Slug = t.Name
		}
		if t.Title == "" {
			t.Title = t.Name
		}
	}
}

type DeleteSelectedRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1"`
}
