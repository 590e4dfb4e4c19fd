package dto

import (
	"strconv"

	galleryDto "newsroom_backend/internals/features/news/galleries/dto"
	"newsroom_backend/internals/features/news/posts/repository"
	helper "newsroom_backend/internals/helpers"
	"newsroom_backend/internals/helpers/images"
)

// TimeBag carries a post timestamp in the formats the site shows.
type TimeBag struct {
	Timestamp int64  `json:"timestamp"`
	ListDate  string `json:"list_date"`
	PostDate  string `json:"post_date"`
}

type PostDTO struct {
	ID              uint                    `json:"id"`
	CategoryID      uint                    `json:"category_id"`
	CategoryName    string                  `json:"category_name"`
	LangID          uint                    `json:"lang_id"`
	WebPageID       uint                    `json:"web_page_id"`
	Slug            string                  `json:"slug"`
	URL             string                  `json:"url"`
	PermanentURL    string                  `json:"permanent_url"`
	Name            string                  `json:"name"`
	Title           string                  `json:"title"`
	Intro           string                  `json:"intro"`
	Full            string                  `json:"full"`
	Keywords        string                  `json:"keywords"`
	MetaDescription string                  `json:"meta_description"`
	Timestamp       int64                   `json:"timestamp"`
	Time            TimeBag                 `json:"time"`
	Published       bool                    `json:"published"`
	Seo             bool                    `json:"seo"`
	Front           bool                    `json:"front"`
	Cover           string                  `json:"cover"`
	Images          images.Bag              `json:"images"`
	Views           int64                   `json:"views"`
	AttachedIDs     []uint                  `json:"attached_ids,omitempty"`
	AttachedPosts   []PostDTO               `json:"attached_posts,omitempty"`
	Gallery         []galleryDto.GalleryDTO `json:"gallery,omitempty"`
}

// ToPostDTO copies a joined row and sanitizes the text fields. Intro and full
// keep safe markup, everything else is plain text.
func ToPostDTO(row repository.PostRow, url string, t TimeBag, bag images.Bag) PostDTO {
	return PostDTO{
		ID:              row.PostID,
		CategoryID:      row.CategoryID,
		CategoryName:    helper.PlainText(row.CategoryName),
		LangID:          row.LangID,
		WebPageID:       row.WebPageID,
		Slug:            row.Slug,
		URL:             url,
		PermanentURL:    PermanentURL(row.PostID),
		Name:            helper.PlainText(row.Name),
		Title:           helper.PlainText(row.Title),
		Intro:           helper.RichText(row.Intro),
		Full:            helper.RichText(row.Full),
		Keywords:        helper.PlainText(row.Keywords),
		MetaDescription: helper.PlainText(row.MetaDescription),
		Timestamp:       row.Timestamp,
		Time:            t,
		Published:       row.Published,
		Seo:             row.Seo,
		Front:           row.Front,
		Cover:           row.Cover,
		Images:          bag,
		Views:           row.Views,
	}
}

func PermanentURL(id uint) string {
	return "/module/news/post/" + strconv.FormatUint(uint64(id), 10)
}

type TranslationDTO struct {
	LangID          uint   `json:"lang_id"`
	WebPageID       uint   `json:"web_page_id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Title           string `json:"title"`
	Intro           string `json:"intro"`
	Full            string `json:"full"`
	Keywords        string `json:"keywords"`
	MetaDescription string `json:"meta_description"`
}

// ToTranslationDTOs returns raw rows for the edit form; nothing is sanitized.
func ToTranslationDTOs(rows []repository.TranslationRow) []TranslationDTO {
	out := make([]TranslationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, TranslationDTO{
			LangID:          r.PostTranslationLangID,
			WebPageID:       r.PostTranslationWebPageID,
			Slug:            r.Slug,
			Name:            r.PostTranslationName,
			Title:           r.PostTranslationTitle,
			Intro:           r.PostTranslationIntro,
			Full:            r.PostTranslationFull,
			Keywords:        r.PostTranslationKeywords,
			MetaDescription: r.PostTranslationMetaDescription,
		})
	}
	return out
}

type Breadcrumb struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

type SequentialDTO struct {
	Next     *PostDTO `json:"next"`
	Previous *PostDTO `json:"previous"`
}
