package services

import "fmt"

const (
	CalendarPredictedCycles = 3

	ResourcePeriod          = "period"
	ResourcePredictedPeriod = "predicted_period"
	ResourceOvulation       = "ovulation"
	ResourceFertileWindow   = "fertile_window"
	ResourceSymptoms        = "symptoms"
)

// CalendarEvent ends are exclusive, matching all-day calendar widgets. An
// empty End marks a single-day marker.
type CalendarEvent struct {
	Title      string `json:"title"`
	Start      string `json:"start"`
	End        string `json:"end,omitempty"`
	ResourceID string `json:"resource_id"`
	Color      string `json:"color"`
}

type CalendarService struct {
	profiles ProfileRepository
	entries  CycleEntryRepository
}

func NewCalendarService(profiles ProfileRepository, entries CycleEntryRepository) *CalendarService {
	return &CalendarService{profiles: profiles, entries: entries}
}

func (service *CalendarService) Events(userID uint) ([]CalendarEvent, error) {
	profile, err := service.profiles.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load cycle history: %w", err)
	}

	history := make([]LoggedCycle, 0, len(entries))
	for _, entry := range entries {
		history = append(history, cycleEntryView(entry).LoggedCycle)
	}
	return CalendarEvents(CycleProfileOf(profile), history), nil
}

// HormoneHub returns the qualitative table for the four cycle phases in order.
func (service *CalendarService) HormoneHub() []PhaseHormones {
	return HormoneHub()
}

type PhaseHormones struct {
	Phase    Phase           `json:"phase"`
	Label    string          `json:"label"`
	Hormones HormoneSnapshot `json:"hormones"`
}

func HormoneHub() []PhaseHormones {
	phases := ClassifiablePhases()
	hub := make([]PhaseHormones, 0, len(phases))
	for _, phase := range phases {
		hub = append(hub, PhaseHormones{Phase: phase, Label: phase.Label(), Hormones: QualitativeInfo(phase)})
	}
	return hub
}

// CalendarEvents lays out logged periods and the next predicted cycles.
// Entries whose start date does not parse are skipped.
func CalendarEvents(profile CycleProfile, history []LoggedCycle) []CalendarEvent {
	periodLength := profile.AvgPeriodLength
	if periodLength <= 0 {
		periodLength = DefaultPeriodLength
	}

	events := make([]CalendarEvent, 0, len(history)*2+CalendarPredictedCycles*3)
	for _, entry := range history {
		start, err := ParseDate(entry.PeriodStartDate)
		if err != nil {
			continue
		}
		end, err := ParseDate(entry.PeriodEndDate)
		if err != nil {
			end = AddDays(start, periodLength-1)
		}

		events = append(events, CalendarEvent{
			Title:      "Period",
			Start:      FormatDate(start),
			End:        FormatDate(AddDays(end, 1)),
			ResourceID: ResourcePeriod,
			Color:      "#D32F2F",
		})
		if len(entry.Symptoms) > 0 {
			events = append(events, CalendarEvent{
				Title:      "Symptoms Logged",
				Start:      FormatDate(start),
				ResourceID: ResourceSymptoms,
				Color:      "#C2185B",
			})
		}
	}

	for _, prediction := range PredictCycles(profile.LastPeriodStart, profile.AvgCycleLength, CalendarPredictedCycles) {
		events = append(events,
			CalendarEvent{
				Title:      "Predicted Period",
				Start:      FormatDate(prediction.NextPeriodStart),
				End:        FormatDate(AddDays(prediction.NextPeriodStart, periodLength)),
				ResourceID: ResourcePredictedPeriod,
				Color:      "#F06292",
			},
			CalendarEvent{
				Title:      "Predicted Ovulation",
				Start:      FormatDate(prediction.OvulationEstimate),
				End:        FormatDate(AddDays(prediction.OvulationEstimate, 1)),
				ResourceID: ResourceOvulation,
				Color:      "#00796B",
			},
			CalendarEvent{
				Title:      "Predicted Fertile Window",
				Start:      FormatDate(prediction.FertileWindowStart),
				End:        FormatDate(AddDays(prediction.FertileWindowEnd, 1)),
				ResourceID: ResourceFertileWindow,
				Color:      "#388E3C",
			},
		)
	}
	return events
}
