package models

import "time"

type ProcessedFile struct {
	ID          string    `gorm:"type:text;primaryKey" json:"id"`
	Filename    string    `gorm:"type:text;not null;uniqueIndex" json:"filename"`
	Outcome     string    `gorm:"type:text;not null" json:"outcome"`
	ProcessedAt time.Time `gorm:"not null" json:"processed_at"`
}
