package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/terraincognita07/myritu/internal/models"
)

var ErrInvalidCycleEntry = errors.New("invalid cycle entry")

type CycleEntryRepository interface {
	ListByUser(userID uint) ([]models.CycleEntry, error)
	CreateAndAdvanceLastPeriod(entry *models.CycleEntry) error
}

// CycleEntryInput is a new history entry as submitted by a client.
type CycleEntryInput struct {
	PeriodStartDate string         `json:"period_start_date" validate:"required,calendar_date"`
	PeriodEndDate   string         `json:"period_end_date" validate:"calendar_date"`
	Symptoms        map[string]any `json:"symptoms"`
	Notes           string         `json:"notes" validate:"max=2000"`
}

// CycleEntryView is a stored entry with its symptoms decoded.
type CycleEntryView struct {
	ID string `json:"id"`
	LoggedCycle
	LoggedAt string `json:"logged_at"`
}

type CycleLogService struct {
	entries CycleEntryRepository
	fields  *validator.Validate
}

func NewCycleLogService(entries CycleEntryRepository) *CycleLogService {
	return &CycleLogService{entries: entries, fields: NewFieldValidator()}
}

func (service *CycleLogService) Log(userID uint, input CycleEntryInput) (CycleEntryView, error) {
	input.PeriodStartDate = strings.TrimSpace(input.PeriodStartDate)
	input.PeriodEndDate = strings.TrimSpace(input.PeriodEndDate)
	input.Notes = strings.TrimSpace(input.Notes)
	if err := service.fields.Struct(input); err != nil {
		return CycleEntryView{}, fmt.Errorf("%w: %s", ErrInvalidCycleEntry, InvalidFieldNames(err))
	}

	start, _ := ParseDate(input.PeriodStartDate)
	if input.PeriodEndDate != "" {
		end, _ := ParseDate(input.PeriodEndDate)
		if end.Before(start) {
			return CycleEntryView{}, fmt.Errorf("%w: period end is before period start", ErrInvalidCycleEntry)
		}
	}

	symptoms := input.Symptoms
	if symptoms == nil {
		symptoms = map[string]any{}
	}
	encoded, err := json.Marshal(symptoms)
	if err != nil {
		return CycleEntryView{}, fmt.Errorf("%w: symptoms: %s", ErrInvalidCycleEntry, err.Error())
	}

	entry := models.CycleEntry{
		PublicID:        uuid.NewString(),
		UserID:          userID,
		PeriodStartDate: FormatDate(start),
		PeriodEndDate:   input.PeriodEndDate,
		Symptoms:        string(encoded),
		Notes:           input.Notes,
	}
	if err := service.entries.CreateAndAdvanceLastPeriod(&entry); err != nil {
		return CycleEntryView{}, fmt.Errorf("store cycle entry: %w", err)
	}
	return cycleEntryView(entry), nil
}

// History returns entries newest first.
func (service *CycleLogService) History(userID uint) ([]CycleEntryView, error) {
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load cycle history: %w", err)
	}

	views := make([]CycleEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, cycleEntryView(entry))
	}
	return views, nil
}

// LoggedCycles is History reduced to the engine's input shape.
func (service *CycleLogService) LoggedCycles(userID uint) ([]LoggedCycle, error) {
	views, err := service.History(userID)
	if err != nil {
		return nil, err
	}
	cycles := make([]LoggedCycle, 0, len(views))
	for _, view := range views {
		cycles = append(cycles, view.LoggedCycle)
	}
	return cycles, nil
}

func cycleEntryView(entry models.CycleEntry) CycleEntryView {
	loggedAt := ""
	if !entry.LoggedAt.IsZero() {
		loggedAt = entry.LoggedAt.UTC().Format(time.RFC3339)
	}
	return CycleEntryView{
		ID: entry.PublicID,
		LoggedCycle: LoggedCycle{
			PeriodStartDate: entry.PeriodStartDate,
			PeriodEndDate:   entry.PeriodEndDate,
			Symptoms:        DecodeSymptoms(entry.Symptoms),
			Notes:           entry.Notes,
		},
		LoggedAt: loggedAt,
	}
}

// DecodeSymptoms never fails: unreadable or non-object blobs become an empty map.
func DecodeSymptoms(raw string) map[string]any {
	symptoms := map[string]any{}
	if strings.TrimSpace(raw) == "" {
		return symptoms
	}
	if err := json.Unmarshal([]byte(raw), &symptoms); err != nil || symptoms == nil {
		slog.Debug("discarding unreadable symptoms blob", "error", err)
		return map[string]any{}
	}
	return symptoms
}
