package db

import (
	"github.com/terraincognita07/myritu/internal/models"
	"gorm.io/gorm"
)

type CycleEntryRepository struct {
	database *gorm.DB
}

func NewCycleEntryRepository(database *gorm.DB) *CycleEntryRepository {
	return &CycleEntryRepository{database: database}
}

// ListByUser returns entries newest first.
func (repo *CycleEntryRepository) ListByUser(userID uint) ([]models.CycleEntry, error) {
	entries := make([]models.CycleEntry, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("period_start_date DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateAndAdvanceLastPeriod stores the entry and moves the profile's
// last_period_start forward when the entry starts later than it.
func (repo *CycleEntryRepository) CreateAndAdvanceLastPeriod(entry *models.CycleEntry) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		profile := models.Profile{
			UserID:          entry.UserID,
			AvgCycleLength:  models.DefaultCycleLength,
			AvgPeriodLength: models.DefaultPeriodLength,
		}
		if err := tx.Where(models.Profile{UserID: entry.UserID}).FirstOrCreate(&profile).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).
			Where("user_id = ? AND (last_period_start = '' OR last_period_start < ?)", entry.UserID, entry.PeriodStartDate).
			Update("last_period_start", entry.PeriodStartDate).Error
	})
}
