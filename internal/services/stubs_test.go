package services

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/terraincognita07/myritu/internal/llm"
	"github.com/terraincognita07/myritu/internal/models"
	"gorm.io/gorm"
)

type stubProfileRepo struct {
	profile     models.Profile
	lastUpdates map[string]any
	err         error
}

func (repo *stubProfileRepo) FindByUserID(userID uint) (models.Profile, error) {
	if repo.err != nil {
		return models.Profile{}, repo.err
	}
	profile := repo.profile
	profile.UserID = userID
	return profile, nil
}

func (repo *stubProfileRepo) UpdateFields(_ uint, updates map[string]any) error {
	repo.lastUpdates = maps.Clone(updates)
	for key, value := range updates {
		switch key {
		case "full_name":
			repo.profile.FullName = value.(string)
		case "birth_date":
			repo.profile.BirthDate = value.(string)
		case "avg_ritu_length":
			repo.profile.AvgCycleLength = value.(int)
		case "avg_period_length":
			repo.profile.AvgPeriodLength = value.(int)
		case "last_period_start":
			repo.profile.LastPeriodStart = value.(string)
		case "life_stage":
			repo.profile.LifeStage = value.(string)
		}
	}
	return nil
}

type stubCycleEntryRepo struct {
	entries []models.CycleEntry
	profile *stubProfileRepo
}

func (repo *stubCycleEntryRepo) ListByUser(userID uint) ([]models.CycleEntry, error) {
	result := make([]models.CycleEntry, 0, len(repo.entries))
	for _, entry := range repo.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PeriodStartDate > result[j].PeriodStartDate
	})
	return result, nil
}

func (repo *stubCycleEntryRepo) CreateAndAdvanceLastPeriod(entry *models.CycleEntry) error {
	entry.ID = uint(len(repo.entries) + 1)
	entry.LoggedAt = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	repo.entries = append(repo.entries, *entry)
	if repo.profile != nil && entry.PeriodStartDate > repo.profile.profile.LastPeriodStart {
		repo.profile.profile.LastPeriodStart = entry.PeriodStartDate
	}
	return nil
}

type stubChatRepo struct {
	mu       sync.Mutex
	messages []models.ChatMessage
}

func (repo *stubChatRepo) Create(message *models.ChatMessage) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	message.ID = uint(len(repo.messages) + 1)
	message.Timestamp = time.Date(2024, 1, 1, 12, 0, len(repo.messages), 0, time.UTC)
	repo.messages = append(repo.messages, *message)
	return nil
}

func (repo *stubChatRepo) ListRecent(userID uint, limit int) ([]models.ChatMessage, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := make([]models.ChatMessage, 0, len(repo.messages))
	for _, message := range repo.messages {
		if message.UserID == userID {
			result = append(result, message)
		}
	}
	if len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

type stubGenerator struct {
	reply   string
	err     error
	prompts []llm.Prompt
}

func (generator *stubGenerator) Generate(_ context.Context, prompt llm.Prompt) (string, error) {
	generator.prompts = append(generator.prompts, prompt)
	return generator.reply, generator.err
}

type stubUserRepo struct {
	users     []models.User
	createErr error
	deleted   []uint
}

func (repo *stubUserRepo) ExistsByNormalizedUsername(username string) (bool, error) {
	_, err := repo.FindByNormalizedUsername(username)
	return err == nil, nil
}

func (repo *stubUserRepo) ExistsByNormalizedEmail(email string) (bool, error) {
	for _, user := range repo.users {
		if user.Email != nil && strings.EqualFold(*user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (repo *stubUserRepo) FindByNormalizedUsername(username string) (models.User, error) {
	for _, user := range repo.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *stubUserRepo) FindByID(userID uint) (models.User, error) {
	for _, user := range repo.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (repo *stubUserRepo) CreateWithProfile(user *models.User) error {
	if repo.createErr != nil {
		return repo.createErr
	}
	user.ID = uint(len(repo.users) + 1)
	repo.users = append(repo.users, *user)
	return nil
}

func (repo *stubUserRepo) UpdatePassword(userID uint, passwordHash string) error {
	for index := range repo.users {
		if repo.users[index].ID == userID {
			repo.users[index].PasswordHash = passwordHash
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (repo *stubUserRepo) DeleteAccountAndRelatedData(userID uint) error {
	repo.deleted = append(repo.deleted, userID)
	return nil
}
