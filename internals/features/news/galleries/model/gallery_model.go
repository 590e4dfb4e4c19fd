package model

type GalleryModel struct {
	GalleryID     uint   `gorm:"column:gallery_id;primaryKey;autoIncrement" json:"gallery_id"`
	GalleryPostID uint   `gorm:"column:gallery_post_id;not null;index" json:"gallery_post_id"`
	GalleryOrder  int    `gorm:"column:gallery_order;not null" json:"gallery_order"`
	GalleryImage  string `gorm:"column:gallery_image;type:varchar(255);not null" json:"gallery_image"`
}

func (GalleryModel) TableName() string { return "news_post_gallery" }
