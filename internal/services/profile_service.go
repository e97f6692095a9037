package services

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/myritu/internal/models"
)

var (
	ErrNoValidProfileFields = errors.New("no valid profile fields")
	ErrInvalidProfileField  = errors.New("invalid profile field")
)

const maxProfileTextLength = 1000

// profileFieldRules is the update allow-list; keys are column names.
var profileFieldRules = map[string]string{
	"full_name":          "max=200",
	"birth_date":         "calendar_date",
	"avg_ritu_length":    fmt.Sprintf("min=%d,max=%d", MinCycleLength, MaxCycleLength),
	"avg_period_length":  fmt.Sprintf("min=%d,max=%d", MinPeriodLength, MaxPeriodLength),
	"last_period_start":  "calendar_date",
	"medical_conditions": fmt.Sprintf("max=%d", maxProfileTextLength),
	"medications":        fmt.Sprintf("max=%d", maxProfileTextLength),
	"preferences":        fmt.Sprintf("max=%d", maxProfileTextLength),
	"life_stage":         "life_stage",
}

var integerProfileFields = map[string]bool{
	"avg_ritu_length":   true,
	"avg_period_length": true,
}

func ProfileFieldAllowList() []string {
	return slices.Sorted(maps.Keys(profileFieldRules))
}

// NewFieldValidator registers the calendar_date and life_stage tags. Both
// accept the empty string as "unset".
func NewFieldValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("calendar_date", func(field validator.FieldLevel) bool {
		value := field.Field().String()
		if value == "" {
			return true
		}
		_, err := ParseDate(value)
		return err == nil
	})
	_ = validate.RegisterValidation("life_stage", func(field validator.FieldLevel) bool {
		value := field.Field().String()
		return value == "" || IsValidLifeStage(value)
	})
	return validate
}

// InvalidFieldNames lists the fields a validator error complains about.
func InvalidFieldNames(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	names := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		names = append(names, fieldError.Field())
	}
	return strings.Join(names, ", ")
}

type ProfileRepository interface {
	FindByUserID(userID uint) (models.Profile, error)
	UpdateFields(userID uint, updates map[string]any) error
}

type ProfileService struct {
	profiles ProfileRepository
	validate *validator.Validate
}

func NewProfileService(profiles ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles, validate: NewFieldValidator()}
}

func (service *ProfileService) Load(userID uint) (models.Profile, error) {
	profile, err := service.profiles.FindByUserID(userID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	return profile, nil
}

// Update drops keys outside the allow-list, then validates and coerces what
// remains. Nothing is written when any surviving field is invalid.
func (service *ProfileService) Update(userID uint, fields map[string]any) (models.Profile, error) {
	updates, err := service.sanitizeProfileFields(fields)
	if err != nil {
		return models.Profile{}, err
	}
	if err := service.profiles.UpdateFields(userID, updates); err != nil {
		return models.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return service.Load(userID)
}

func (service *ProfileService) sanitizeProfileFields(fields map[string]any) (map[string]any, error) {
	updates := make(map[string]any, len(fields))
	for key, raw := range fields {
		rule, allowed := profileFieldRules[key]
		if !allowed {
			continue
		}

		var value any
		if integerProfileFields[key] {
			number, ok := wholeNumber(raw)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be a whole number", ErrInvalidProfileField, key)
			}
			value = number
		} else {
			text, ok := profileText(raw)
			if !ok {
				return nil, fmt.Errorf("%w: %s must be text", ErrInvalidProfileField, key)
			}
			value = text
		}

		if err := service.validate.Var(value, rule); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProfileField, key)
		}
		updates[key] = value
	}

	if len(updates) == 0 {
		return nil, ErrNoValidProfileFields
	}
	return updates, nil
}

func CycleProfileOf(profile models.Profile) CycleProfile {
	return CycleProfile{
		LastPeriodStart: profile.LastPeriodStart,
		AvgCycleLength:  profile.AvgCycleLength,
		AvgPeriodLength: profile.AvgPeriodLength,
	}
}

func ChatFactsOf(profile models.Profile) ChatFacts {
	return ChatFacts{
		FullName:          profile.FullName,
		BirthDate:         profile.BirthDate,
		LifeStage:         profile.LifeStage,
		AvgCycleLength:    profile.AvgCycleLength,
		AvgPeriodLength:   profile.AvgPeriodLength,
		LastPeriodStart:   profile.LastPeriodStart,
		MedicalConditions: profile.MedicalConditions,
		Medications:       profile.Medications,
		Preferences:       profile.Preferences,
	}
}

// NeedsSetup is true until the profile has a cycle length and a birth date.
func NeedsSetup(profile models.Profile) bool {
	return profile.AvgCycleLength <= 0 || strings.TrimSpace(profile.BirthDate) == ""
}

func wholeNumber(raw any) (int, bool) {
	switch typed := raw.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		if typed != math.Trunc(typed) || math.IsInf(typed, 0) || math.IsNaN(typed) {
			return 0, false
		}
		return int(typed), true
	default:
		return 0, false
	}
}

func profileText(raw any) (string, bool) {
	switch typed := raw.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(typed), true
	default:
		return "", false
	}
}
