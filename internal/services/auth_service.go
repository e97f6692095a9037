package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/myritu/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrUsernameTaken      = errors.New("username or email already registered")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthUserRepository interface {
	ExistsByNormalizedUsername(username string) (bool, error)
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedUsername(username string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	CreateWithProfile(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
	DeleteAccountAndRelatedData(userID uint) error
}

type AuthService struct {
	users          AuthUserRepository
	isUniqueErr    func(error) bool
	bcryptHashCost int
}

// NewAuthService takes isUniqueErr to recognize storage-level duplicate key
// errors; nil disables that mapping.
func NewAuthService(users AuthUserRepository, isUniqueErr func(error) bool) *AuthService {
	if isUniqueErr == nil {
		isUniqueErr = func(error) bool { return false }
	}
	return &AuthService{users: users, isUniqueErr: isUniqueErr, bcryptHashCost: bcrypt.DefaultCost}
}

func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (service *AuthService) Signup(usernameRaw string, password string, emailRaw string) (models.User, error) {
	username := strings.TrimSpace(usernameRaw)
	if length := utf8.RuneCountInString(username); length < MinUsernameLength || length > MaxUsernameLength {
		return models.User{}, ErrInvalidUsername
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}
	email, err := NormalizeEmail(emailRaw)
	if err != nil {
		return models.User{}, err
	}

	taken, err := service.users.ExistsByNormalizedUsername(NormalizeUsername(username))
	if err != nil {
		return models.User{}, fmt.Errorf("check username: %w", err)
	}
	if !taken && email != "" {
		taken, err = service.users.ExistsByNormalizedEmail(email)
		if err != nil {
			return models.User{}, fmt.Errorf("check email: %w", err)
		}
	}
	if taken {
		return models.User{}, ErrUsernameTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.bcryptHashCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{Username: username, PasswordHash: string(passwordHash)}
	if email != "" {
		user.Email = &email
	}
	if err := service.users.CreateWithProfile(&user); err != nil {
		if service.isUniqueErr(err) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login answers ErrInvalidCredentials for both unknown users and wrong passwords.
func (service *AuthService) Login(usernameRaw string, password string) (models.User, error) {
	username := NormalizeUsername(usernameRaw)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := service.users.FindByNormalizedUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ResetPassword replaces the stored hash for an existing username. The new
// password must satisfy the same policy as signup.
func (service *AuthService) ResetPassword(usernameRaw string, password string) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}

	user, err := service.users.FindByNormalizedUsername(NormalizeUsername(usernameRaw))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), service.bcryptHashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(user.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

func (service *AuthService) DeleteAccount(userID uint) error {
	if err := service.users.DeleteAccountAndRelatedData(userID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}
