package db

import (
	"errors"

	"github.com/terraincognita07/myritu/internal/models"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	database *gorm.DB
}

func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{database: database}
}

// FindByUserID returns a default profile when the row is missing.
func (repo *ProfileRepository) FindByUserID(userID uint) (models.Profile, error) {
	var profile models.Profile
	err := repo.database.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{
			UserID:          userID,
			AvgCycleLength:  models.DefaultCycleLength,
			AvgPeriodLength: models.DefaultPeriodLength,
		}, nil
	}
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// UpdateFields writes column updates, creating the row first when needed.
func (repo *ProfileRepository) UpdateFields(userID uint, updates map[string]any) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		profile := models.Profile{
			UserID:          userID,
			AvgCycleLength:  models.DefaultCycleLength,
			AvgPeriodLength: models.DefaultPeriodLength,
		}
		if err := tx.Where(models.Profile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(updates).Error
	})
}
