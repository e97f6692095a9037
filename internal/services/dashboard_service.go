package services

import (
	"fmt"
	"time"
)

type DashboardPrediction struct {
	NextPeriodStart    string `json:"next_period_start"`
	OvulationEstimate  string `json:"ovulation_estimate"`
	FertileWindowStart string `json:"fertile_window_start"`
	FertileWindowEnd   string `json:"fertile_window_end"`
	DaysUntilNext      int    `json:"days_until_next"`
	Late               bool   `json:"late"`
	Message            string `json:"message"`
}

type DashboardSummary struct {
	ProfileIncomplete bool                 `json:"profile_incomplete"`
	Today             string               `json:"today"`
	LastPeriodStart   string               `json:"last_period_start"`
	Prediction        *DashboardPrediction `json:"prediction,omitempty"`
	Phase             Phase                `json:"phase"`
	PhaseLabel        string               `json:"phase_label"`
	Hormones          HormoneSnapshot      `json:"hormones"`
	CycleDay          int                  `json:"cycle_day,omitempty"`
	HormoneLevels     *HormoneLevels       `json:"hormone_levels,omitempty"`
}

type DashboardService struct {
	profiles ProfileRepository
}

func NewDashboardService(profiles ProfileRepository) *DashboardService {
	return &DashboardService{profiles: profiles}
}

func (service *DashboardService) Build(userID uint, today time.Time) (DashboardSummary, error) {
	profile, err := service.profiles.FindByUserID(userID)
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("load profile: %w", err)
	}
	return BuildDashboard(CycleProfileOf(profile), today), nil
}

// BuildDashboard assembles the dashboard from a profile alone. A missing
// last period start or cycle length leaves only ProfileIncomplete set.
func BuildDashboard(profile CycleProfile, today time.Time) DashboardSummary {
	today = CalendarDay(today)
	if profile.LastPeriodStart == "" || profile.AvgCycleLength <= 0 {
		return DashboardSummary{ProfileIncomplete: true, Today: FormatDate(today)}
	}

	phase := ClassifyPhase(today, profile.LastPeriodStart, profile.AvgPeriodLength, profile.AvgCycleLength)
	summary := DashboardSummary{
		Today:           FormatDate(today),
		LastPeriodStart: FormatLongDate(profile.LastPeriodStart),
		Phase:           phase,
		PhaseLabel:      phase.Label(),
		Hormones:        QualitativeInfo(phase),
	}

	if prediction := PredictNext(profile.LastPeriodStart, profile.AvgCycleLength); prediction.Available {
		summary.Prediction = dashboardPrediction(prediction, today)
	}
	if day, ok := CycleDay(today, profile.LastPeriodStart, profile.AvgCycleLength); ok {
		levels := ContinuousLevels(day, profile.AvgCycleLength)
		summary.CycleDay = day
		summary.HormoneLevels = &levels
	}
	return summary
}

func dashboardPrediction(prediction Prediction, today time.Time) *DashboardPrediction {
	daysUntil := DaysBetween(today, prediction.NextPeriodStart)
	next := FormatLongDay(prediction.NextPeriodStart)

	view := &DashboardPrediction{
		NextPeriodStart:    next,
		OvulationEstimate:  FormatLongDay(prediction.OvulationEstimate),
		FertileWindowStart: FormatLongDay(prediction.FertileWindowStart),
		FertileWindowEnd:   FormatLongDay(prediction.FertileWindowEnd),
		DaysUntilNext:      daysUntil,
	}
	switch {
	case daysUntil < 0:
		view.Late = true
		view.Message = fmt.Sprintf("Your period was predicted for %s (%d days ago).", next, -daysUntil)
	case daysUntil == 0:
		view.Message = fmt.Sprintf("Your period is expected today, %s.", next)
	default:
		view.Message = fmt.Sprintf("Your next period is expected in %d days, on %s.", daysUntil, next)
	}
	return view
}
