package model

import (
	"time"

	"gorm.io/datatypes"
)

type HistoryModel struct {
	HistoryID        uint           `gorm:"column:history_id;primaryKey;autoIncrement" json:"history_id"`
	HistoryModule    string         `gorm:"column:history_module;type:varchar(64);not null;index" json:"history_module"`
	HistoryMessage   string         `gorm:"column:history_message;type:text;not null" json:"history_message"`
	HistoryArgs      datatypes.JSON `gorm:"column:history_args" json:"history_args"`
	HistoryCreatedAt time.Time      `gorm:"column:history_created_at;autoCreateTime" json:"history_created_at"`
}

func (HistoryModel) TableName() string { return "histories" }
