package model

type LanguageModel struct {
	LanguageID        uint   `gorm:"column:language_id;primaryKey;autoIncrement" json:"language_id"`
	LanguageCode      string `gorm:"column:language_code;type:varchar(8);not null;uniqueIndex" json:"language_code"`
	LanguageName      string `gorm:"column:language_name;type:varchar(64);not null" json:"language_name"`
	LanguageIsDefault bool   `gorm:"column:language_is_default;not null;default:false" json:"language_is_default"`
	LanguageOrder     int    `gorm:"column:language_order;not null;default:0" json:"language_order"`
}

func (LanguageModel) TableName() string { return "languages" }
