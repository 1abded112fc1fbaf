package models

import "time"

type ConversionLog struct {
	ID       string    `gorm:"type:text;primaryKey" json:"id"`
	Datetime time.Time `gorm:"column:datetime;not null" json:"datetime"`
	Action   string    `gorm:"type:text;not null" json:"action"`
	Outcome  string    `gorm:"type:text;not null" json:"outcome"`
	Message  *string   `gorm:"type:text" json:"message,omitempty"`
}
