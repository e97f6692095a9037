package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

type User struct {
	ID               uint      `gorm:"primaryKey"`
	Username         string    `gorm:"uniqueIndex;not null"`
	Email            *string   `gorm:"uniqueIndex"`
	PasswordHash     string    `gorm:"not null"`
	RegistrationDate time.Time `gorm:"not null;autoCreateTime"`
}

// Profile keeps dates as YYYY-MM-DD text; empty means unset.
type Profile struct {
	UserID            uint   `gorm:"primaryKey;autoIncrement:false" json:"-"`
	FullName          string `json:"full_name"`
	BirthDate         string `json:"birth_date"`
	AvgCycleLength    int    `gorm:"column:avg_ritu_length;not null;default:28" json:"avg_ritu_length"`
	AvgPeriodLength   int    `gorm:"not null;default:5" json:"avg_period_length"`
	LastPeriodStart   string `json:"last_period_start"`
	MedicalConditions string `json:"medical_conditions"`
	Medications       string `json:"medications"`
	Preferences       string `json:"preferences"`
	LifeStage         string `json:"life_stage"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
