package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"newsroom_backend/internals/features/news/posts/model"
)

var ErrNotFound = errors.New("post not found")

// PostRow is a post joined with its translation, slug and category name in
// one language.
type PostRow struct {
	PostID          uint   `gorm:"column:post_id"`
	CategoryID      uint   `gorm:"column:category_id"`
	Published       bool   `gorm:"column:published"`
	Seo             bool   `gorm:"column:seo"`
	Front           bool   `gorm:"column:front"`
	Timestamp       int64  `gorm:"column:timestamp"`
	Cover           string `gorm:"column:cover"`
	Views           int64  `gorm:"column:views"`
	LangID          uint   `gorm:"column:lang_id"`
	WebPageID       uint   `gorm:"column:web_page_id"`
	Slug            string `gorm:"column:slug"`
	Name            string `gorm:"column:name"`
	Title           string `gorm:"column:title"`
	Intro           string `gorm:"column:intro"`
	Full            string `gorm:"column:full_text"`
	Keywords        string `gorm:"column:keywords"`
	MetaDescription string `gorm:"column:meta_description"`
	CategoryName    string `gorm:"column:category_name"`
}

// TranslationRow is one language variant of a post with its slug.
type TranslationRow struct {
	model.PostTranslationModel
	Slug string `gorm:"column:slug" json:"slug"`
}

// OptionRow feeds the "attached posts" selector.
type OptionRow struct {
	PostID       uint   `gorm:"column:post_id" json:"id"`
	Name         string `gorm:"column:name" json:"name"`
	CategoryName string `gorm:"column:category_name" json:"category_name"`
}

const rowColumns = `p.post_id AS post_id, p.post_category_id AS category_id,
	p.post_published AS published, p.post_seo AS seo, p.post_front AS front,
	p.post_timestamp AS timestamp, p.post_cover AS cover, p.post_views AS views,
	t.post_translation_lang_id AS lang_id, t.post_translation_web_page_id AS web_page_id,
	COALESCE(w.web_page_slug, '') AS slug,
	t.post_translation_name AS name, t.post_translation_title AS title,
	t.post_translation_intro AS intro, t.post_translation_full AS full_text,
	t.post_translation_keywords AS keywords, t.post_translation_meta_description AS meta_description,
	COALESCE(ct.category_translation_name, '') AS category_name`

// ListParams drives FetchAllByPage. CategoryID 0 means every category.
// Pagination applies only when both Page and PerPage are set; PerPage alone
// is a plain LIMIT.
type ListParams struct {
	CategoryID uint
	Published  bool
	Front      bool
	Page       int
	PerPage    int
	Sort       string
}

const (
	SortAll    = "all"
	SortLatest = "latest"
)

// ParseSort maps a ?sort= value to a sort override; anything unknown keeps
// the default ordering.
func ParseSort(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case SortAll:
		return SortAll
	case SortLatest:
		return SortLatest
	}
	return ""
}

// FilterInput is the admin grid filter. Nil fields are ignored.
type FilterInput struct {
	CategoryID *uint
	Published  *bool
	Seo        *bool
	Front      *bool
	Name       string
}

var filterColumns = map[string][2]string{
	"id":        {"p", "post_id"},
	"category":  {"ct", "category_translation_name"},
	"name":      {"t", "post_translation_name"},
	"published": {"p", "post_published"},
	"seo":       {"p", "post_seo"},
	"front":     {"p", "post_front"},
	"timestamp": {"p", "post_timestamp"},
	"views":     {"p", "post_views"},
}

type PostRepository struct {
	db  *gorm.DB
	Now func() time.Time
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db, Now: time.Now}
}

func (r *PostRepository) WithTx(tx *gorm.DB) *PostRepository {
	return &PostRepository{db: tx, Now: r.Now}
}

func (r *PostRepository) DB() *gorm.DB { return r.db }

func (r *PostRepository) base(ctx context.Context, langID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("news_posts AS p").
		Joins("JOIN news_post_translations AS t ON t.post_translation_post_id = p.post_id AND t.post_translation_lang_id = ?", langID).
		Joins("LEFT JOIN web_pages AS w ON w.web_page_id = t.post_translation_web_page_id").
		Joins("LEFT JOIN news_category_translations AS ct ON ct.category_translation_category_id = p.post_category_id AND ct.category_translation_lang_id = ?", langID)
}

func (r *PostRepository) publishedOnly(q *gorm.DB) *gorm.DB {
	return q.Where("p.post_published = ? AND p.post_timestamp <= ?", true, r.Now().Unix())
}

func byCategory(categoryID uint) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if categoryID == 0 {
			return q
		}
		return q.Where("p.post_category_id = ?", categoryID)
	}
}

func frontOnly(front bool) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if !front {
			return q
		}
		return q.Where("p.post_front = ?", true)
	}
}

func (r *PostRepository) FetchAllByPage(ctx context.Context, langID uint, p ListParams) ([]PostRow, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		q = q.Scopes(byCategory(p.CategoryID), frontOnly(p.Front))
		if p.Published {
			q = r.publishedOnly(q)
		}
		return q
	}

	order := "p.post_id DESC"
	if p.Published {
		order = "p.post_timestamp DESC, p.post_id DESC"
	}
	switch p.Sort {
	case SortAll:
		order = "p.post_id ASC"
	case SortLatest:
		order = "p.post_id DESC"
	}

	q := r.base(ctx, langID).Scopes(scope).Select(rowColumns).Order(order)

	var total int64
	switch {
	case p.Page > 0 && p.PerPage > 0:
		if err := r.base(ctx, langID).Scopes(scope).Count(&total).Error; err != nil {
			return nil, 0, err
		}
		q = q.Offset((p.Page - 1) * p.PerPage).Limit(p.PerPage)
	case p.PerPage > 0:
		q = q.Limit(p.PerPage)
	}

	var rows []PostRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		total = int64(len(rows))
	}
	return rows, total, nil
}

// FetchMostlyViewed returns published posts viewed more than views times.
func (r *PostRepository) FetchMostlyViewed(ctx context.Context, langID uint, limit int, categoryID uint, random, front bool, views int64) ([]PostRow, error) {
	q := r.publishedOnly(r.base(ctx, langID)).
		Scopes(byCategory(categoryID), frontOnly(front)).
		Where("p.post_views > ?", views).
		Select(rowColumns)
	if random {
		q = q.Order("RANDOM()")
	} else {
		q = q.Order("p.post_views DESC, p.post_id DESC")
	}
	var rows []PostRow
	err := q.Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *PostRepository) FetchRandomPublished(ctx context.Context, langID uint, limit int, categoryID uint) ([]PostRow, error) {
	var rows []PostRow
	err := r.publishedOnly(r.base(ctx, langID)).
		Scopes(byCategory(categoryID)).
		Select(rowColumns).
		Order("RANDOM()").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *PostRepository) FetchRecent(ctx context.Context, langID uint, limit int, categoryID uint) ([]PostRow, error) {
	rows, _, err := r.FetchAllByPage(ctx, langID, ListParams{
		CategoryID: categoryID,
		Published:  true,
		PerPage:    limit,
	})
	return rows, err
}

// FindSequential returns the ids right after and right before id in the
// language, 0 when there is none. publishedOnly narrows both sides to
// visible posts.
func (r *PostRepository) FindSequential(ctx context.Context, langID, id uint, publishedOnly bool) (next, previous uint, err error) {
	now := r.Now().Unix()
	side := func(agg, op string) (string, []any) {
		sql := fmt.Sprintf(`SELECT %s(p.post_id) FROM news_posts AS p
			JOIN news_post_translations AS t ON t.post_translation_post_id = p.post_id AND t.post_translation_lang_id = ?
			WHERE p.post_id %s ?`, agg, op)
		args := []any{langID, id}
		if publishedOnly {
			sql += " AND p.post_published = ? AND p.post_timestamp <= ?"
			args = append(args, true, now)
		}
		return sql, args
	}
	nextSQL, nextArgs := side("MIN", ">")
	prevSQL, prevArgs := side("MAX", "<")

	var out struct {
		NextID     uint `gorm:"column:next_id"`
		PreviousID uint `gorm:"column:previous_id"`
	}
	err = r.db.WithContext(ctx).Raw(
		"SELECT COALESCE(("+nextSQL+"), 0) AS next_id, COALESCE(("+prevSQL+"), 0) AS previous_id",
		append(nextArgs, prevArgs...)...,
	).Scan(&out).Error
	return out.NextID, out.PreviousID, err
}

// Filter backs the admin grid. Unknown sort columns fall back to id.
func (r *PostRepository) Filter(ctx context.Context, langID uint, in FilterInput, page, perPage int, sortColumn string, desc bool) ([]PostRow, int64, error) {
	scope := func(q *gorm.DB) *gorm.DB {
		if in.CategoryID != nil {
			q = q.Where("p.post_category_id = ?", *in.CategoryID)
		}
		if in.Published != nil {
			q = q.Where("p.post_published = ?", *in.Published)
		}
		if in.Seo != nil {
			q = q.Where("p.post_seo = ?", *in.Seo)
		}
		if in.Front != nil {
			q = q.Where("p.post_front = ?", *in.Front)
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			q = q.Where(`LOWER(t.post_translation_name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(name))+"%")
		}
		return q
	}

	col, ok := filterColumns[sortColumn]
	if !ok {
		col = filterColumns["id"]
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	order := pq.QuoteIdentifier(col[0]) + "." + pq.QuoteIdentifier(col[1]) + " " + dir
	if col[1] != "post_id" {
		order += ", p.post_id DESC"
	}

	var total int64
	if err := r.base(ctx, langID).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	q := r.base(ctx, langID).Scopes(scope).Select(rowColumns).Order(order)
	if page > 0 && perPage > 0 {
		q = q.Offset((page - 1) * perPage).Limit(perPage)
	}
	var rows []PostRow
	err := q.Scan(&rows).Error
	return rows, total, err
}

// Search matches published posts by name or full text.
func (r *PostRepository) Search(ctx context.Context, langID uint, keyword string, page, perPage int) ([]PostRow, int64, error) {
	like := "%" + escapeLike(strings.ToLower(strings.TrimSpace(keyword))) + "%"
	scope := func(q *gorm.DB) *gorm.DB {
		return r.publishedOnly(q).Where(
			`(LOWER(t.post_translation_name) LIKE ? ESCAPE '\' OR LOWER(t.post_translation_full) LIKE ? ESCAPE '\')`, like, like)
	}
	var total int64
	if err := r.base(ctx, langID).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []PostRow
	err := r.base(ctx, langID).Scopes(scope).
		Select(rowColumns).
		Order("p.post_timestamp DESC, p.post_id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Scan(&rows).Error
	return rows, total, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *PostRepository) FetchByID(ctx context.Context, langID, id uint) (PostRow, error) {
	var rows []PostRow
	if err := r.base(ctx, langID).Select(rowColumns).Where("p.post_id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return PostRow{}, err
	}
	if len(rows) == 0 {
		return PostRow{}, ErrNotFound
	}
	return rows[0], nil
}

// FetchByIDs keeps the order of ids.
func (r *PostRepository) FetchByIDs(ctx context.Context, langID uint, ids []uint) ([]PostRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []PostRow
	if err := r.base(ctx, langID).Select(rowColumns).Where("p.post_id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]PostRow, len(rows))
	for _, row := range rows {
		byID[row.PostID] = row
	}
	out := make([]PostRow, 0, len(rows))
	for _, id := range ids {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *PostRepository) FetchPost(ctx context.Context, id uint) (model.PostModel, error) {
	var m model.PostModel
	err := r.db.WithContext(ctx).First(&m, "post_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	}
	return m, err
}

func (r *PostRepository) FetchTranslations(ctx context.Context, id uint) ([]TranslationRow, error) {
	var rows []TranslationRow
	err := r.db.WithContext(ctx).
		Table("news_post_translations AS t").
		Select("t.*, COALESCE(w.web_page_slug, '') AS slug").
		Joins("LEFT JOIN web_pages AS w ON w.web_page_id = t.post_translation_web_page_id").
		Joins("LEFT JOIN languages AS l ON l.language_id = t.post_translation_lang_id").
		Where("t.post_translation_post_id = ?", id).
		Order("l.language_order ASC, t.post_translation_lang_id ASC").
		Scan(&rows).Error
	return rows, err
}

// FetchOptions lists every post except excludeID, grouped by category name.
func (r *PostRepository) FetchOptions(ctx context.Context, langID, excludeID uint) ([]OptionRow, error) {
	q := r.base(ctx, langID).
		Select("p.post_id AS post_id, t.post_translation_name AS name, COALESCE(ct.category_translation_name, '') AS category_name")
	if excludeID != 0 {
		q = q.Where("p.post_id <> ?", excludeID)
	}
	var rows []OptionRow
	err := q.Order("category_name ASC, p.post_id DESC").Scan(&rows).Error
	return rows, err
}

func (r *PostRepository) FetchAttachedIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.PostAttachedModel{}).
		Where("post_attached_master_id = ?", id).
		Order("post_attached_slave_id ASC").
		Pluck("post_attached_slave_id", &ids).Error
	return ids, err
}

// ExistingIDs returns the subset of ids that are real posts.
func (r *PostRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := r.db.WithContext(ctx).Model(&model.PostModel{}).
		Where("post_id IN ?", ids).
		Pluck("post_id", &out).Error
	return out, err
}

func (r *PostRepository) FetchIDsByCategoryIDs(ctx context.Context, categoryIDs []uint) ([]uint, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.PostModel{}).
		Where("post_category_id IN ?", categoryIDs).
		Pluck("post_id", &ids).Error
	return ids, err
}

func (r *PostRepository) FetchWebPageIDs(ctx context.Context, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.PostTranslationModel{}).
		Where("post_translation_post_id IN ?", postIDs).
		Pluck("post_translation_web_page_id", &ids).Error
	return ids, err
}

func (r *PostRepository) FetchTranslation(ctx context.Context, postID, langID uint) (model.PostTranslationModel, error) {
	var m model.PostTranslationModel
	err := r.db.WithContext(ctx).
		First(&m, "post_translation_post_id = ? AND post_translation_lang_id = ?", postID, langID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	}
	return m, err
}

func (r *PostRepository) Create(ctx context.Context, m *model.PostModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostRepository) CreateTranslation(ctx context.Context, m *model.PostTranslationModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PostRepository) UpdateTranslation(ctx context.Context, m model.PostTranslationModel) error {
	return r.db.WithContext(ctx).Model(&model.PostTranslationModel{}).
		Where("post_translation_post_id = ? AND post_translation_lang_id = ?", m.PostTranslationPostID, m.PostTranslationLangID).
		Updates(map[string]any{
			"post_translation_web_page_id":      m.PostTranslationWebPageID,
			"post_translation_name":             m.PostTranslationName,
			"post_translation_title":            m.PostTranslationTitle,
			"post_translation_intro":            m.PostTranslationIntro,
			"post_translation_full":             m.PostTranslationFull,
			"post_translation_keywords":         m.PostTranslationKeywords,
			"post_translation_meta_description": m.PostTranslationMetaDescription,
		}).Error
}

// UpdateColumns writes the given base columns of one post.
func (r *PostRepository) UpdateColumns(ctx context.Context, id uint, cols map[string]any) error {
	if len(cols) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.PostModel{}).Where("post_id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.PostModel{}).
		Where("post_id = ?", id).
		UpdateColumn("post_views", gorm.Expr("post_views + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) InsertAttached(ctx context.Context, masterID uint, slaveIDs []uint) error {
	if len(slaveIDs) == 0 {
		return nil
	}
	rows := make([]model.PostAttachedModel, 0, len(slaveIDs))
	for _, id := range slaveIDs {
		rows = append(rows, model.PostAttachedModel{PostAttachedMasterID: masterID, PostAttachedSlaveID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ReplaceAttached makes the attached set of masterID exactly slaveIDs.
func (r *PostRepository) ReplaceAttached(ctx context.Context, masterID uint, slaveIDs []uint) error {
	if err := r.db.WithContext(ctx).
		Where("post_attached_master_id = ?", masterID).
		Delete(&model.PostAttachedModel{}).Error; err != nil {
		return err
	}
	return r.InsertAttached(ctx, masterID, slaveIDs)
}

// DeleteAttached removes junction rows on both sides of ids.
func (r *PostRepository) DeleteAttached(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("post_attached_master_id IN ? OR post_attached_slave_id IN ?", ids, ids).
		Delete(&model.PostAttachedModel{}).Error
}

func (r *PostRepository) DeleteTranslations(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("post_translation_post_id IN ?", ids).
		Delete(&model.PostTranslationModel{}).Error
}

func (r *PostRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("post_id IN ?", ids).Delete(&model.PostModel{}).Error
}
