package services

import "fmt"

const MinInsightEntries = 2

type Insights struct {
	InsufficientData bool                `json:"insufficient_data"`
	CycleLengths     []CycleLengthSample `json:"cycle_lengths"`
	Summary          *CycleLengthSummary `json:"summary,omitempty"`
	MoodCounts       []MoodCount         `json:"mood_counts"`
	PainSeries       []PainPoint         `json:"pain_series"`
	CurveCycleLength int                 `json:"curve_cycle_length"`
	HormoneCurve     []HormoneSample     `json:"hormone_curve"`
}

type InsightsService struct {
	profiles ProfileRepository
	entries  CycleEntryRepository
}

func NewInsightsService(profiles ProfileRepository, entries CycleEntryRepository) *InsightsService {
	return &InsightsService{profiles: profiles, entries: entries}
}

func (service *InsightsService) Build(userID uint) (Insights, error) {
	profile, err := service.profiles.FindByUserID(userID)
	if err != nil {
		return Insights{}, fmt.Errorf("load profile: %w", err)
	}
	entries, err := service.entries.ListByUser(userID)
	if err != nil {
		return Insights{}, fmt.Errorf("load cycle history: %w", err)
	}

	history := make([]LoggedCycle, 0, len(entries))
	for _, entry := range entries {
		history = append(history, cycleEntryView(entry).LoggedCycle)
	}
	return BuildInsights(history, profile.AvgCycleLength), nil
}

// BuildInsights needs at least MinInsightEntries logged periods; with fewer
// only InsufficientData is set.
func BuildInsights(history []LoggedCycle, avgCycleLength int) Insights {
	if len(history) < MinInsightEntries {
		return Insights{
			InsufficientData: true,
			CycleLengths:     []CycleLengthSample{},
			MoodCounts:       []MoodCount{},
			PainSeries:       []PainPoint{},
			HormoneCurve:     []HormoneSample{},
		}
	}

	curveLength := avgCycleLength
	if curveLength <= 0 {
		curveLength = DefaultCycleLength
	}

	samples := CycleLengths(history)
	symptoms := SymptomAggregates(history)
	insights := Insights{
		CycleLengths:     samples,
		MoodCounts:       symptoms.MoodCounts,
		PainSeries:       symptoms.PainSeries,
		CurveCycleLength: curveLength,
		HormoneCurve:     GenerateCurve(curveLength),
	}
	if summary, ok := SummarizeCycleLengths(samples); ok {
		insights.Summary = &summary
	}
	return insights
}
