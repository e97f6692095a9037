package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	LifeStagePuberty       = "Puberty/Adolescence"
	LifeStageReproductive  = "Reproductive Years"
	LifeStagePerimenopause = "Perimenopause"
	LifeStageMenopause     = "Menopause"
	LifeStagePostMenopause = "Post-menopause"

	chatContextRecentEntries = 3
	menopauseNoteAge         = 52
)

// LifeStages lists the self-identified stages a profile may carry.
func LifeStages() []string {
	return []string{
		LifeStagePuberty,
		LifeStageReproductive,
		LifeStagePerimenopause,
		LifeStageMenopause,
		LifeStagePostMenopause,
	}
}

func IsValidLifeStage(value string) bool {
	for _, stage := range LifeStages() {
		if stage == value {
			return true
		}
	}
	return false
}

// ChatFacts carries the profile fields the assistant is told about. Zero
// values mean the field was never filled in.
type ChatFacts struct {
	FullName          string
	BirthDate         string
	LifeStage         string
	AvgCycleLength    int
	AvgPeriodLength   int
	LastPeriodStart   string
	MedicalConditions string
	Medications       string
	Preferences       string
}

// AgeOn returns whole years between birthDate and today, false when the
// birth date is missing or malformed.
func AgeOn(birthDate string, today time.Time) (int, bool) {
	born, err := ParseDate(birthDate)
	if err != nil || today.IsZero() {
		return 0, false
	}
	age := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		age--
	}
	return age, true
}

func EstimatedLifeStage(age int) string {
	switch {
	case age <= 17:
		return LifeStagePuberty
	case age <= 40:
		return LifeStageReproductive
	case age <= 50:
		return "Likely Perimenopause or Reproductive Years"
	default:
		return "Likely Menopause or Post-menopause"
	}
}

// BuildChatContext renders the plain-text profile and history summary handed
// to the assistant. history is expected newest first, as the store returns it.
func BuildChatContext(facts ChatFacts, history []LoggedCycle, today time.Time) string {
	var builder strings.Builder
	builder.WriteString("User Profile for MyRitu App:\n")

	if facts.FullName != "" {
		fmt.Fprintf(&builder, "- Name: %s\n", facts.FullName)
	}
	age, hasAge := AgeOn(facts.BirthDate, today)
	if hasAge {
		fmt.Fprintf(&builder, "- Age: %d years old.\n", age)
	}
	switch {
	case facts.LifeStage != "":
		fmt.Fprintf(&builder, "- Self-identified Life Stage: %s.\n", facts.LifeStage)
	case hasAge:
		fmt.Fprintf(&builder, "- Estimated Life Stage: %s.\n", EstimatedLifeStage(age))
	}

	fmt.Fprintf(&builder, "- Average Ritu Length from profile: %s days\n", intOrNotAvailable(facts.AvgCycleLength))
	fmt.Fprintf(&builder, "- Average Period Length: %s days\n", intOrNotAvailable(facts.AvgPeriodLength))
	switch {
	case facts.LastPeriodStart != "":
		fmt.Fprintf(&builder, "- Last Period Started: %s\n", facts.LastPeriodStart)
	case facts.LifeStage == LifeStageMenopause || facts.LifeStage == LifeStagePostMenopause || (hasAge && age > menopauseNoteAge):
		builder.WriteString("- Note: User may be menopausal/post-menopausal as no recent period is logged.\n")
	}
	if facts.MedicalConditions != "" {
		fmt.Fprintf(&builder, "- Medical Conditions: %s\n", facts.MedicalConditions)
	}
	if facts.Medications != "" {
		fmt.Fprintf(&builder, "- Medications: %s\n", facts.Medications)
	}
	if facts.Preferences != "" {
		fmt.Fprintf(&builder, "- User Preferences/Concerns: %s\n", facts.Preferences)
	}

	builder.WriteString("\nRecent Ritu History (up to last 3 entries for prompt brevity):\n")
	if len(history) == 0 {
		builder.WriteString("- No Ritu history logged yet.\n")
		return builder.String()
	}
	for _, entry := range history[:min(len(history), chatContextRecentEntries)] {
		end := entry.PeriodEndDate
		if end == "" {
			end = NotAvailable
		}
		fmt.Fprintf(&builder, "- Period started: %s, Ended: %s\n", entry.PeriodStartDate, end)
		if len(entry.Symptoms) > 0 {
			fmt.Fprintf(&builder, "  Symptoms: %s\n", FormatSymptoms(entry.Symptoms))
		}
	}

	if len(history) >= 2 {
		writeCycleLengthInsights(&builder, CycleLengths(history))
	}
	writeSymptomSummary(&builder, history)
	return builder.String()
}

func writeCycleLengthInsights(builder *strings.Builder, samples []CycleLengthSample) {
	summary, ok := SummarizeCycleLengths(samples)
	if !ok {
		return
	}
	fmt.Fprintf(builder, "\nCalculated Ritu Length Insights (based on %d logged Ritus):\n", summary.Count)
	fmt.Fprintf(builder, "- Average calculated Ritu length: %.1f days.\n", summary.Mean)
	fmt.Fprintf(builder, "- Shortest Ritu length: %d days, Longest: %d days.\n", summary.Min, summary.Max)
	if summary.Count > 1 {
		recent := make([]string, 0, len(summary.Recent))
		for _, length := range summary.Recent {
			recent = append(recent, strconv.Itoa(length))
		}
		fmt.Fprintf(builder, "- Most recent Ritu lengths: %s days.\n", strings.Join(recent, ", "))
	}
}

func writeSymptomSummary(builder *strings.Builder, history []LoggedCycle) {
	withSymptoms := false
	for _, entry := range history {
		if len(entry.Symptoms) > 0 {
			withSymptoms = true
			break
		}
	}
	if !withSymptoms {
		return
	}

	aggregates := SymptomAggregates(history)
	builder.WriteString("\nSymptom Summary (from all logged history):\n")
	if len(aggregates.TopMoods) > 0 {
		moods := make([]string, 0, len(aggregates.TopMoods))
		for _, mood := range aggregates.TopMoods {
			moods = append(moods, fmt.Sprintf("%s (%d times)", mood.Mood, mood.Count))
		}
		fmt.Fprintf(builder, "- Most common moods logged: %s.\n", strings.Join(moods, ", "))
	}
	if aggregates.AvgPainLevel != nil {
		fmt.Fprintf(builder, "- Average pain/cramp level logged: %.1f (0-5).\n", *aggregates.AvgPainLevel)
	}
	if aggregates.MaxPainLevel != nil {
		fmt.Fprintf(builder, "- Maximum pain/cramp level logged: %d.\n", *aggregates.MaxPainLevel)
	}
}

// FormatSymptoms renders a symptom map as "key: value" pairs in key order.
func FormatSymptoms(symptoms map[string]any) string {
	keys := make([]string, 0, len(symptoms))
	for key := range symptoms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+formatSymptomValue(symptoms[key]))
	}
	return strings.Join(parts, ", ")
}

func formatSymptomValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		if typed == math.Trunc(typed) && !math.IsInf(typed, 0) {
			return strconv.FormatFloat(typed, 'f', 0, 64)
		}
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func intOrNotAvailable(value int) string {
	if value <= 0 {
		return NotAvailable
	}
	return strconv.Itoa(value)
}
