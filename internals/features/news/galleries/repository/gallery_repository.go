package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"newsroom_backend/internals/features/news/galleries/model"
)

var ErrNotFound = errors.New("gallery image not found")

type GalleryRepository struct {
	db *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) WithTx(tx *gorm.DB) *GalleryRepository {
	return &GalleryRepository{db: tx}
}

func (r *GalleryRepository) DB() *gorm.DB { return r.db }

// FetchAllByPostID returns the images of a post in carousel order.
func (r *GalleryRepository) FetchAllByPostID(ctx context.Context, postID uint) ([]model.GalleryModel, error) {
	var rows []model.GalleryModel
	err := r.db.WithContext(ctx).
		Where("gallery_post_id = ?", postID).
		Order("gallery_order ASC, gallery_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GalleryRepository) FetchAllByPostIDs(ctx context.Context, postIDs []uint) ([]model.GalleryModel, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var rows []model.GalleryModel
	err := r.db.WithContext(ctx).
		Where("gallery_post_id IN ?", postIDs).
		Order("gallery_post_id ASC, gallery_order ASC, gallery_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GalleryRepository) FetchByID(ctx context.Context, id uint) (model.GalleryModel, error) {
	var m model.GalleryModel
	err := r.db.WithContext(ctx).First(&m, "gallery_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	}
	return m, err
}

func (r *GalleryRepository) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := r.db.WithContext(ctx).Model(&model.GalleryModel{}).
		Where("gallery_id IN ?", ids).
		Pluck("gallery_id", &out).Error
	return out, err
}

// NextOrder is one past the highest order used by the post.
func (r *GalleryRepository) NextOrder(ctx context.Context, postID uint) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&model.GalleryModel{}).
		Where("gallery_post_id = ?", postID).
		Select("MAX(gallery_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 1, err
	}
	return *max + 1, nil
}

func (r *GalleryRepository) Create(ctx context.Context, m *model.GalleryModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *GalleryRepository) UpdateColumns(ctx context.Context, id uint, cols map[string]any) error {
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.GalleryModel{}).Where("gallery_id = ?", id).Updates(cols).Error
}

func (r *GalleryRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("gallery_id = ?", id).Delete(&model.GalleryModel{}).Error
}

func (r *GalleryRepository) DeleteByPostIDs(ctx context.Context, postIDs []uint) error {
	if len(postIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("gallery_post_id IN ?", postIDs).Delete(&model.GalleryModel{}).Error
}
