package db

import (
	"strings"

	"gorm.io/gorm"
)

type Repositories struct {
	Users    *UserRepository
	Profiles *ProfileRepository
	Cycles   *CycleEntryRepository
	Chat     *ChatRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(database),
		Profiles: NewProfileRepository(database),
		Cycles:   NewCycleEntryRepository(database),
		Chat:     NewChatRepository(database),
	}
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint or index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
