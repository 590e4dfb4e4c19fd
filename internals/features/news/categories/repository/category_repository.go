package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"newsroom_backend/internals/features/news/categories/model"
)

var ErrNotFound = errors.New("category not found")

type CategoryRow struct {
	CategoryID      uint   `gorm:"column:category_id"`
	Seo             bool   `gorm:"column:seo"`
	LangID          uint   `gorm:"column:lang_id"`
	WebPageID       uint   `gorm:"column:web_page_id"`
	Slug            string `gorm:"column:slug"`
	Name            string `gorm:"column:name"`
	Title           string `gorm:"column:title"`
	Description     string `gorm:"column:description"`
	Keywords        string `gorm:"column:keywords"`
	MetaDescription string `gorm:"column:meta_description"`
	PostCount       int64  `gorm:"column:post_count"`
}

type TranslationRow struct {
	model.CategoryTranslationModel
	Slug string `gorm:"column:slug" json:"slug"`
}

const rowColumns = `c.category_id AS category_id, c.category_seo AS seo,
	ct.category_translation_lang_id AS lang_id, ct.category_translation_web_page_id AS web_page_id,
	COALESCE(w.web_page_slug, '') AS slug,
	ct.category_translation_name AS name, ct.category_translation_title AS title,
	ct.category_translation_description AS description, ct.category_translation_keywords AS keywords,
	ct.category_translation_meta_description AS meta_description`

const groupColumns = `c.category_id, c.category_seo, ct.category_translation_lang_id,
	ct.category_translation_web_page_id, w.web_page_slug, ct.category_translation_name,
	ct.category_translation_title, ct.category_translation_description,
	ct.category_translation_keywords, ct.category_translation_meta_description`

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) WithTx(tx *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) DB() *gorm.DB { return r.db }

func (r *CategoryRepository) base(ctx context.Context, langID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("news_categories AS c").
		Joins("JOIN news_category_translations AS ct ON ct.category_translation_category_id = c.category_id AND ct.category_translation_lang_id = ?", langID).
		Joins("LEFT JOIN web_pages AS w ON w.web_page_id = ct.category_translation_web_page_id")
}

// FetchAll lists categories with their post count. The LEFT JOIN keeps
// categories without posts, counted as 0.
func (r *CategoryRepository) FetchAll(ctx context.Context, langID uint) ([]CategoryRow, error) {
	var rows []CategoryRow
	err := r.base(ctx, langID).
		Select(rowColumns + ", COUNT(p.post_id) AS post_count").
		Joins("LEFT JOIN news_posts AS p ON p.post_category_id = c.category_id").
		Group(groupColumns).
		Order("c.category_id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *CategoryRepository) FetchByID(ctx context.Context, langID, id uint) (CategoryRow, error) {
	var rows []CategoryRow
	err := r.base(ctx, langID).
		Select(rowColumns+", (SELECT COUNT(*) FROM news_posts AS p WHERE p.post_category_id = c.category_id) AS post_count").
		Where("c.category_id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return CategoryRow{}, err
	}
	if len(rows) == 0 {
		return CategoryRow{}, ErrNotFound
	}
	return rows[0], nil
}

// FetchList returns id and name only, ordered by name.
func (r *CategoryRepository) FetchList(ctx context.Context, langID uint) ([]CategoryRow, error) {
	var rows []CategoryRow
	err := r.base(ctx, langID).
		Select("c.category_id AS category_id, ct.category_translation_name AS name").
		Order("ct.category_translation_name ASC, c.category_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CategoryRepository) FetchTranslations(ctx context.Context, id uint) ([]TranslationRow, error) {
	var rows []TranslationRow
	err := r.db.WithContext(ctx).
		Table("news_category_translations AS ct").
		Select("ct.*, COALESCE(w.web_page_slug, '') AS slug").
		Joins("LEFT JOIN web_pages AS w ON w.web_page_id = ct.category_translation_web_page_id").
		Joins("LEFT JOIN languages AS l ON l.language_id = ct.category_translation_lang_id").
		Where("ct.category_translation_category_id = ?", id).
		Order("l.language_order ASC, ct.category_translation_lang_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CategoryRepository) FetchCategory(ctx context.Context, id uint) (model.CategoryModel, error) {
	var m model.CategoryModel
	err := r.db.WithContext(ctx).First(&m, "category_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	}
	return m, err
}

func (r *CategoryRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CategoryModel{}).Where("category_id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *CategoryRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := r.db.WithContext(ctx).Model(&model.CategoryModel{}).
		Where("category_id IN ?", ids).
		Pluck("category_id", &out).Error
	return out, err
}

func (r *CategoryRepository) FetchTranslation(ctx context.Context, categoryID, langID uint) (model.CategoryTranslationModel, error) {
	var m model.CategoryTranslationModel
	err := r.db.WithContext(ctx).
		First(&m, "category_translation_category_id = ? AND category_translation_lang_id = ?", categoryID, langID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	}
	return m, err
}

func (r *CategoryRepository) Create(ctx context.Context, m *model.CategoryModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CategoryRepository) CreateTranslation(ctx context.Context, m *model.CategoryTranslationModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CategoryRepository) UpdateTranslation(ctx context.Context, m model.CategoryTranslationModel) error {
	return r.db.WithContext(ctx).Model(&model.CategoryTranslationModel{}).
		Where("category_translation_category_id = ? AND category_translation_lang_id = ?", m.CategoryTranslationCategoryID, m.CategoryTranslationLangID).
		Updates(map[string]any{
			"category_translation_web_page_id":      m.CategoryTranslationWebPageID,
			"category_translation_name":             m.CategoryTranslationName,
			"category_translation_title":            m.CategoryTranslationTitle,
			"category_translation_description":      m.CategoryTranslationDescription,
			"category_translation_keywords":         m.CategoryTranslationKeywords,
			"category_translation_meta_description": m.CategoryTranslationMetaDescription,
		}).Error
}

func (r *CategoryRepository) UpdateColumns(ctx context.Context, id uint, cols map[string]any) error {
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.CategoryModel{}).Where("category_id = ?", id).Updates(cols).Error
}

func (r *CategoryRepository) FetchWebPageIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := r.db.WithContext(ctx).Model(&model.CategoryTranslationModel{}).
		Where("category_translation_category_id IN ?", ids).
		Pluck("category_translation_web_page_id", &out).Error
	return out, err
}

func (r *CategoryRepository) DeleteTranslations(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("category_translation_category_id IN ?", ids).
		Delete(&model.CategoryTranslationModel{}).Error
}

func (r *CategoryRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("category_id IN ?", ids).Delete(&model.CategoryModel{}).Error
}
