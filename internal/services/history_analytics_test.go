package services

import (
	"reflect"
	"testing"
)

func TestCycleLengthsFromUnsortedHistory(t *testing.T) {
	history := []LoggedCycle{
		{PeriodStartDate: "2024-02-27"},
		{PeriodStartDate: "not-a-date"},
		{PeriodStartDate: "2024-01-01"},
		{PeriodStartDate: "2024-01-29"},
	}

	samples := CycleLengths(history)
	want := []CycleLengthSample{
		{CycleStartDate: "2024-01-01", LengthDays: 28},
		{CycleStartDate: "2024-01-29", LengthDays: 29},
	}
	if !reflect.DeepEqual(samples, want) {
		t.Fatalf("CycleLengths = %+v, want %+v", samples, want)
	}

	summary, ok := SummarizeCycleLengths(samples)
	if !ok {
		t.Fatal("expected summary")
	}
	if summary.Count != 2 || summary.Mean != 28.5 || summary.Min != 28 || summary.Max != 29 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if !reflect.DeepEqual(summary.Recent, []int{28, 29}) {
		t.Fatalf("unexpected recent lengths %v", summary.Recent)
	}
}

func TestCycleLengthsOverLongGaps(t *testing.T) {
	samples := CycleLengths([]LoggedCycle{{PeriodStartDate: "2024-01-01"}, {PeriodStartDate: "1600-01-01"}})
	want := []CycleLengthSample{{CycleStartDate: "1600-01-01", LengthDays: 154863}}
	if !reflect.DeepEqual(samples, want) {
		t.Fatalf("CycleLengths = %+v, want %+v", samples, want)
	}
}

func TestCycleLengthsNeedTwoEntries(t *testing.T) {
	if got := CycleLengths([]LoggedCycle{{PeriodStartDate: "2024-01-01"}}); len(got) != 0 {
		t.Fatalf("expected no samples, got %+v", got)
	}
	if _, ok := SummarizeCycleLengths(nil); ok {
		t.Fatal("expected no summary for empty samples")
	}
}

func TestRecentLengthsKeepsLastWindow(t *testing.T) {
	samples := []CycleLengthSample{{LengthDays: 27}, {LengthDays: 28}, {LengthDays: 30}, {LengthDays: 26}}
	if got := RecentLengths(samples, 3); !reflect.DeepEqual(got, []int{28, 30, 26}) {
		t.Fatalf("RecentLengths = %v", got)
	}
	if got := RecentLengths(samples, 0); len(got) != 0 {
		t.Fatalf("RecentLengths(0) = %v", got)
	}
}

func TestSymptomAggregates(t *testing.T) {
	history := []LoggedCycle{
		{PeriodStartDate: "2024-03-01", Symptoms: map[string]any{"mood": "happy", "pain_cramps": float64(3)}},
		{PeriodStartDate: "2024-01-01", Symptoms: map[string]any{"mood": "sad", "pain_cramps": "4"}},
		{PeriodStartDate: "2024-02-01", Symptoms: map[string]any{"mood": "happy", "pain_cramps": true}},
		{PeriodStartDate: "2024-04-01"},
	}

	summary := SymptomAggregates(history)

	wantMoods := []MoodCount{{Mood: "happy", Count: 2}, {Mood: "sad", Count: 1}}
	if !reflect.DeepEqual(summary.TopMoods, wantMoods) {
		t.Fatalf("TopMoods = %+v", summary.TopMoods)
	}
	if summary.AvgPainLevel == nil || *summary.AvgPainLevel != 3.5 {
		t.Fatalf("AvgPainLevel = %v, want 3.5", summary.AvgPainLevel)
	}
	if summary.MaxPainLevel == nil || *summary.MaxPainLevel != 4 {
		t.Fatalf("MaxPainLevel = %v, want 4", summary.MaxPainLevel)
	}

	wantSeries := []PainPoint{{Date: "2024-01-01", Level: 4}, {Date: "2024-03-01", Level: 3}}
	if !reflect.DeepEqual(summary.PainSeries, wantSeries) {
		t.Fatalf("PainSeries = %+v", summary.PainSeries)
	}
}

func TestSymptomAggregatesMaxPainRoundsHalfToEven(t *testing.T) {
	tests := []struct {
		levels []float64
		want   int
	}{
		{levels: []float64{1, 2.5}, want: 2},
		{levels: []float64{3.5}, want: 4},
		{levels: []float64{0.5}, want: 0},
	}

	for _, testCase := range tests {
		history := make([]LoggedCycle, 0, len(testCase.levels))
		for index, level := range testCase.levels {
			history = append(history, LoggedCycle{
				PeriodStartDate: FormatDate(AddDays(mustParseDate(t, "2024-01-01"), index*28)),
				Symptoms:        map[string]any{SymptomPainLevel: level},
			})
		}
		summary := SymptomAggregates(history)
		if summary.MaxPainLevel == nil || *summary.MaxPainLevel != testCase.want {
			t.Fatalf("MaxPainLevel(%v) = %v, want %d", testCase.levels, summary.MaxPainLevel, testCase.want)
		}
	}
}

func TestSymptomAggregatesMoodTiesKeepFirstSeen(t *testing.T) {
	history := []LoggedCycle{
		{PeriodStartDate: "2024-01-01", Symptoms: map[string]any{"mood": "calm"}},
		{PeriodStartDate: "2024-02-01", Symptoms: map[string]any{"mood": "irritable"}},
		{PeriodStartDate: "2024-03-01", Symptoms: map[string]any{"mood": "tired"}},
	}

	summary := SymptomAggregates(history)
	if len(summary.TopMoods) != TopMoodsLimit {
		t.Fatalf("expected %d top moods, got %d", TopMoodsLimit, len(summary.TopMoods))
	}
	if summary.TopMoods[0].Mood != "calm" || summary.TopMoods[1].Mood != "irritable" {
		t.Fatalf("unexpected tie order %+v", summary.TopMoods)
	}
	if summary.AvgPainLevel != nil || summary.MaxPainLevel != nil {
		t.Fatal("expected no pain statistics")
	}
}

func TestNumericSymptom(t *testing.T) {
	tests := []struct {
		value  any
		want   float64
		wantOK bool
	}{
		{value: float64(2.5), want: 2.5, wantOK: true},
		{value: 3, want: 3, wantOK: true},
		{value: " 4 ", want: 4, wantOK: true},
		{value: "severe", wantOK: false},
		{value: true, wantOK: false},
		{value: nil, wantOK: false},
	}

	for _, testCase := range tests {
		got, ok := NumericSymptom(testCase.value)
		if ok != testCase.wantOK || got != testCase.want {
			t.Fatalf("NumericSymptom(%#v) = %v, %v", testCase.value, got, ok)
		}
	}
}
