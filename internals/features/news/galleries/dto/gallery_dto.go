package dto

import (
	"newsroom_backend/internals/features/news/galleries/model"
	"newsroom_backend/internals/helpers/images"
)

type GalleryDTO struct {
	GalleryID     uint       `json:"gallery_id"`
	GalleryPostID uint       `json:"gallery_post_id"`
	GalleryOrder  int        `json:"gallery_order"`
	GalleryImage  string     `json:"gallery_image"`
	Images        images.Bag `json:"images"`
}

// SaveGalleryRequest comes as multipart form fields next to the "file" part.
type SaveGalleryRequest struct {
	GalleryID     uint `form:"gallery_id" json:"gallery_id"`
	GalleryPostID uint `form:"gallery_post_id" json:"gallery_post_id"`
	GalleryOrder  *int `form:"gallery_order" json:"gallery_order" validate:"omitempty,min=0"`
}

func ToGalleryDTO(m model.GalleryModel, bag images.Bag) GalleryDTO {
	return GalleryDTO{
		GalleryID:     m.GalleryID,
		GalleryPostID: m.GalleryPostID,
		GalleryOrder:  m.GalleryOrder,
		GalleryImage:  m.GalleryImage,
		Images:        bag,
	}
}
