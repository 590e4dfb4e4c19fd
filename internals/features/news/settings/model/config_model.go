package model

type NewsConfigModel struct {
	ConfigKey   string `gorm:"column:config_key;type:varchar(64);primaryKey" json:"config_key"`
	ConfigValue string `gorm:"column:config_value;type:varchar(255);not null" json:"config_value"`
}

func (NewsConfigModel) TableName() string { return "news_configs" }
