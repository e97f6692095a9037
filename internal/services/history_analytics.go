package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	SymptomMood      = "mood"
	SymptomPainLevel = "pain_cramps"

	RecentLengthsWindow = 3
	TopMoodsLimit       = 2
)

// LoggedCycle is one history entry as the engine sees it. PeriodEndDate and
// Notes are empty when absent.
type LoggedCycle struct {
	PeriodStartDate string         `json:"period_start_date"`
	PeriodEndDate   string         `json:"period_end_date,omitempty"`
	Symptoms        map[string]any `json:"symptoms"`
	Notes           string         `json:"notes,omitempty"`
}

type CycleLengthSample struct {
	CycleStartDate string `json:"cycle_start_date"`
	LengthDays     int    `json:"length_days"`
}

type CycleLengthSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	Recent []int   `json:"recent"`
}

type MoodCount struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

type PainPoint struct {
	Date  string  `json:"date"`
	Level float64 `json:"level"`
}

// SymptomSummary holds the symptom aggregates. MoodCounts is ordered by count
// descending. AvgPainLevel and MaxPainLevel are nil when no entry carries a
// numeric pain level.
type SymptomSummary struct {
	TopMoods     []MoodCount `json:"top_moods"`
	MoodCounts   []MoodCount `json:"mood_counts"`
	AvgPainLevel *float64    `json:"avg_pain_level"`
	MaxPainLevel *int        `json:"max_pain_level"`
	PainSeries   []PainPoint `json:"pain_series"`
}

type datedCycle struct {
	start time.Time
	entry LoggedCycle
}

// SortedByStart returns the entries with a parseable start date in ascending
// start order. The input slice is left untouched.
func SortedByStart(history []LoggedCycle) []LoggedCycle {
	dated := make([]datedCycle, 0, len(history))
	for _, entry := range history {
		start, err := ParseDate(entry.PeriodStartDate)
		if err != nil {
			continue
		}
		dated = append(dated, datedCycle{start: start, entry: entry})
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].start.Before(dated[j].start)
	})

	sorted := make([]LoggedCycle, 0, len(dated))
	for _, item := range dated {
		sorted = append(sorted, item.entry)
	}
	return sorted
}

// CycleLengths measures each cycle by the gap to its successor, so the most
// recent entry never yields a sample.
func CycleLengths(history []LoggedCycle) []CycleLengthSample {
	sorted := SortedByStart(history)
	if len(sorted) < 2 {
		return []CycleLengthSample{}
	}

	samples := make([]CycleLengthSample, 0, len(sorted)-1)
	for index := 0; index+1 < len(sorted); index++ {
		current, _ := ParseDate(sorted[index].PeriodStartDate)
		next, _ := ParseDate(sorted[index+1].PeriodStartDate)
		samples = append(samples, CycleLengthSample{
			CycleStartDate: FormatDate(current),
			LengthDays:     DaysBetween(current, next),
		})
	}
	return samples
}

// SummarizeCycleLengths reports ok=false for an empty sample set.
func SummarizeCycleLengths(samples []CycleLengthSample) (CycleLengthSummary, bool) {
	if len(samples) == 0 {
		return CycleLengthSummary{}, false
	}

	summary := CycleLengthSummary{
		Count:  len(samples),
		Min:    samples[0].LengthDays,
		Max:    samples[0].LengthDays,
		Recent: RecentLengths(samples, RecentLengthsWindow),
	}
	total := 0
	for _, sample := range samples {
		total += sample.LengthDays
		summary.Min = min(summary.Min, sample.LengthDays)
		summary.Max = max(summary.Max, sample.LengthDays)
	}
	summary.Mean = float64(total) / float64(len(samples))
	return summary, true
}

func RecentLengths(samples []CycleLengthSample, n int) []int {
	if n <= 0 {
		return []int{}
	}
	start := max(len(samples)-n, 0)
	lengths := make([]int, 0, len(samples)-start)
	for _, sample := range samples[start:] {
		lengths = append(lengths, sample.LengthDays)
	}
	return lengths
}

// SymptomAggregates scans history in the given order. Mood ties keep the
// order in which each mood was first seen.
func SymptomAggregates(history []LoggedCycle) SymptomSummary {
	summary := SymptomSummary{
		TopMoods:   []MoodCount{},
		MoodCounts: []MoodCount{},
		PainSeries: []PainPoint{},
	}

	moodIndex := make(map[string]int)
	painTotal := 0.0
	painMax := math.Inf(-1)
	painCount := 0

	for _, entry := range history {
		if len(entry.Symptoms) == 0 {
			continue
		}

		if mood := moodLabel(entry.Symptoms[SymptomMood]); mood != "" {
			if index, ok := moodIndex[mood]; ok {
				summary.MoodCounts[index].Count++
			} else {
				moodIndex[mood] = len(summary.MoodCounts)
				summary.MoodCounts = append(summary.MoodCounts, MoodCount{Mood: mood, Count: 1})
			}
		}

		level, ok := NumericSymptom(entry.Symptoms[SymptomPainLevel])
		if !ok {
			continue
		}
		painTotal += level
		painMax = math.Max(painMax, level)
		painCount++
		summary.PainSeries = append(summary.PainSeries, PainPoint{Date: entry.PeriodStartDate, Level: level})
	}

	sort.SliceStable(summary.MoodCounts, func(i, j int) bool {
		return summary.MoodCounts[i].Count > summary.MoodCounts[j].Count
	})
	summary.TopMoods = append(summary.TopMoods, summary.MoodCounts[:min(len(summary.MoodCounts), TopMoodsLimit)]...)

	if painCount > 0 {
		average := painTotal / float64(painCount)
		maximum := int(math.RoundToEven(painMax))
		summary.AvgPainLevel = &average
		summary.MaxPainLevel = &maximum
	}

	sort.SliceStable(summary.PainSeries, func(i, j int) bool {
		return summary.PainSeries[i].Date < summary.PainSeries[j].Date
	})
	return summary
}

// NumericSymptom coerces a decoded symptom value to a number. Booleans and
// text that does not parse are rejected.
func NumericSymptom(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, !math.IsNaN(typed)
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func moodLabel(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case nil:
		return ""
	default:
		return strings.TrimSpace(formatSymptomValue(typed))
	}
}
