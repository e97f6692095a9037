package models

import "time"

// CycleEntry is one logged period. Symptoms holds the raw JSON object as
// written by the client.
type CycleEntry struct {
	ID              uint      `gorm:"primaryKey"`
	PublicID        string    `gorm:"uniqueIndex;not null"`
	UserID          uint      `gorm:"not null;index"`
	PeriodStartDate string    `gorm:"not null"`
	PeriodEndDate   string    `gorm:"not null;default:''"`
	Symptoms        string    `gorm:"not null;default:'{}'"`
	Notes           string    `gorm:"not null;default:''"`
	LoggedAt        time.Time `gorm:"not null;autoCreateTime"`
}

func (CycleEntry) TableName() string {
	return "ritu_data"
}
