package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"newsroom_backend/internals/features/news/settings/model"
	"newsroom_backend/internals/helpers/images"
)

const (
	KeyCoverWidth        = "cover_width"
	KeyCoverHeight       = "cover_height"
	KeyThumbWidth        = "thumb_width"
	KeyThumbHeight       = "thumb_height"
	KeyCoverQuality      = "cover_quality"
	KeyTimeFormatInList  = "time_format_in_list"
	KeyTimeFormatInPost  = "time_format_in_post"
	KeyBlockPerPageCount = "block_per_page_count"
	KeyPerPageCount      = "per_page_count"
)

// Settings are the editable options of the news module.
type Settings struct {
	CoverWidth        int    `json:"cover_width" validate:"min=1,max=4000"`
	CoverHeight       int    `json:"cover_height" validate:"min=1,max=4000"`
	ThumbWidth        int    `json:"thumb_width" validate:"min=1,max=4000"`
	ThumbHeight       int    `json:"thumb_height" validate:"min=1,max=4000"`
	CoverQuality      int    `json:"cover_quality" validate:"min=1,max=100"`
	TimeFormatInList  string `json:"time_format_in_list" validate:"required,max=64"`
	TimeFormatInPost  string `json:"time_format_in_post" validate:"required,max=64"`
	BlockPerPageCount int    `json:"block_per_page_count" validate:"min=1,max=100"`
	PerPageCount      int    `json:"per_page_count" validate:"min=1,max=100"`
}

func Defaults() Settings {
	return Settings{
		CoverWidth:        300,
		CoverHeight:       300,
		ThumbWidth:        30,
		ThumbHeight:       30,
		CoverQuality:      75,
		TimeFormatInList:  "01/02/2006",
		TimeFormatInPost:  "01/02/2006",
		BlockPerPageCount: 3,
		PerPageCount:      5,
	}
}

var (
	adminPostSize    = images.Dimension{Width: 200, Height: 200}
	adminGallerySize = images.Dimension{Width: 400, Height: 400}
)

func (s Settings) CoverSize() images.Dimension {
	return images.Dimension{Width: s.CoverWidth, Height: s.CoverHeight}
}

func (s Settings) ThumbSize() images.Dimension {
	return images.Dimension{Width: s.ThumbWidth, Height: s.ThumbHeight}
}

// PostImageSizes: admin preview, site cover, site thumbnail.
func (s Settings) PostImageSizes() []images.Dimension {
	return []images.Dimension{adminPostSize, s.CoverSize(), s.ThumbSize()}
}

func (s Settings) GalleryImageSizes() []images.Dimension {
	return []images.Dimension{adminGallerySize, s.CoverSize(), s.ThumbSize()}
}

func (s Settings) FormatListDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(s.TimeFormatInList)
}

func (s Settings) FormatPostDate(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(s.TimeFormatInPost)
}

func (s Settings) toMap() map[string]string {
	return map[string]string{
		KeyCoverWidth:        strconv.Itoa(s.CoverWidth),
		KeyCoverHeight:       strconv.Itoa(s.CoverHeight),
		KeyThumbWidth:        strconv.Itoa(s.ThumbWidth),
		KeyThumbHeight:       strconv.Itoa(s.ThumbHeight),
		KeyCoverQuality:      strconv.Itoa(s.CoverQuality),
		KeyTimeFormatInList:  s.TimeFormatInList,
		KeyTimeFormatInPost:  s.TimeFormatInPost,
		KeyBlockPerPageCount: strconv.Itoa(s.BlockPerPageCount),
		KeyPerPageCount:      strconv.Itoa(s.PerPageCount),
	}
}

func (s *Settings) apply(key, value string) {
	intField := map[string]*int{
		KeyCoverWidth:        &s.CoverWidth,
		KeyCoverHeight:       &s.CoverHeight,
		KeyThumbWidth:        &s.ThumbWidth,
		KeyThumbHeight:       &s.ThumbHeight,
		KeyCoverQuality:      &s.CoverQuality,
		KeyBlockPerPageCount: &s.BlockPerPageCount,
		KeyPerPageCount:      &s.PerPageCount,
	}
	if p, ok := intField[key]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			log.Printf("[NEWS] config %s=%q ignored", key, value)
			return
		}
		*p = n
		return
	}
	switch key {
	case KeyTimeFormatInList:
		if value != "" {
			s.TimeFormatInList = value
		}
	case KeyTimeFormatInPost:
		if value != "" {
			s.TimeFormatInPost = value
		}
	}
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the stored settings; missing keys keep their defaults.
func (s *Service) Get(ctx context.Context) (Settings, error) {
	out := Defaults()
	var rows []model.NewsConfigModel
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return out, fmt.Errorf("load news config: %w", err)
	}
	for _, r := range rows {
		out.apply(r.ConfigKey, r.ConfigValue)
	}
	return out, nil
}

func (s *Service) Save(ctx context.Context, in Settings) error {
	m := in.toMap()
	rows := make([]model.NewsConfigModel, 0, len(m))
	for k, v := range m {
		rows = append(rows, model.NewsConfigModel{ConfigKey: k, ConfigValue: v})
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value"}),
	}).Create(&rows).Error
}
