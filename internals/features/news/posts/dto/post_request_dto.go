package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	helper "newsroom_backend/internals/helpers"
)

type TranslationInput struct {
	LangID          uint   `json:"lang_id" validate:"required"`
	Name            string `json:"name" validate:"required,max=255"`
	Title           string `json:"title" validate:"max=255"`
	Slug            string `json:"slug" validate:"max=255"`
	Intro           string `json:"intro"`
	Full            string `json:"full"`
	Keywords        string `json:"keywords"`
	MetaDescription string `json:"meta_description"`
}

// SavePostRequest is the admin add/edit form. ID 0 means add.
type SavePostRequest struct {
	ID           uint               `json:"id"`
	CategoryID   uint               `json:"category_id" validate:"required"`
	Date         string             `json:"date" validate:"news_date"`
	Published    bool               `json:"published"`
	Seo          bool               `json:"seo"`
	Front        bool               `json:"front"`
	RemoveCover  bool               `json:"remove_cover"`
	Attached     []uint             `json:"attached"`
	Translations []TranslationInput `json:"translations" validate:"required,min=1,dive"`
}

// Prepare fills the fields the form may leave empty: the slug and the title
// default to the name.
func (r *SavePostRequest) Prepare() {
	for i := range r.Translations {
		t := &r.Translations[i]
		t.Name = strings.TrimSpace(t.Name)
		if strings.TrimSpace(t.Slug) == "" {
			t.Slug = t.Name
		}
		if strings.TrimSpace(t.Title) == "" {
			t.Title = t.Name
		}
	}
}

// Timestamp converts Date to unix seconds; an empty date means now.
func (r *SavePostRequest) Timestamp(now time.Time) int64 {
	d := strings.TrimSpace(r.Date)
	if d == "" {
		return now.Unix()
	}
	t, err := time.ParseInLocation(helper.DateLayout, d, time.UTC)
	if err != nil {
		return now.Unix()
	}
	return t.Unix()
}

// Toggle is a flag sent either as a JSON bool or as 0/1 (number or string).
type Toggle bool

func (t *Toggle) UnmarshalJSON(b []byte) error {
	switch strings.Trim(strings.TrimSpace(string(b)), `"`) {
	case "true", "1":
		*t = true
	case "false", "0":
		*t = false
	default:
		return fmt.Errorf("invalid toggle %s", b)
	}
	return nil
}

// TweakRequest toggles seo/published/front of many posts:
// {"settings": {"12": {"published": true}, "13": {"seo": 1, "front": 0}}}
type TweakRequest struct {
	Settings map[string]map[string]Toggle `json:"settings" validate:"required,min=1"`
}

// Columns flattens the toggles of one post.
func Columns(m map[string]Toggle) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = bool(v)
	}
	return out
}

type DeleteSelectedRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
}

func ParseUintKey(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
