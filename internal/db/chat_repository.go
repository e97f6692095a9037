package db

import (
	"slices"

	"github.com/terraincognita07/myritu/internal/models"
	"gorm.io/gorm"
)

type ChatRepository struct {
	database *gorm.DB
}

func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{database: database}
}

func (repo *ChatRepository) Create(message *models.ChatMessage) error {
	return repo.database.Create(message).Error
}

// ListRecent returns up to limit of the newest messages in chronological order.
func (repo *ChatRepository) ListRecent(userID uint, limit int) ([]models.ChatMessage, error) {
	messages := make([]models.ChatMessage, 0, max(limit, 0))
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	slices.Reverse(messages)
	return messages, nil
}
