package services

import "testing"

func TestPredictNextFromProfile(t *testing.T) {
	prediction := PredictNext("2024-01-01", 28)
	if !prediction.Available {
		t.Fatal("expected prediction to be available")
	}

	checks := map[string]string{
		"next period":   FormatDate(prediction.NextPeriodStart),
		"ovulation":     FormatDate(prediction.OvulationEstimate),
		"fertile start": FormatDate(prediction.FertileWindowStart),
		"fertile end":   FormatDate(prediction.FertileWindowEnd),
	}
	want := map[string]string{
		"next period":   "2024-01-29",
		"ovulation":     "2024-01-15",
		"fertile start": "2024-01-10",
		"fertile end":   "2024-01-16",
	}
	for name, got := range checks {
		if got != want[name] {
			t.Fatalf("%s = %s, want %s", name, got, want[name])
		}
	}
}

func TestPredictNextOffsetsHoldForAnyLength(t *testing.T) {
	for _, cycleLength := range []int{15, 21, 28, 35, 90} {
		prediction := PredictNext("2023-11-20", cycleLength)
		if !prediction.Available {
			t.Fatalf("cycle length %d: expected prediction", cycleLength)
		}
		if got := DaysBetween(prediction.OvulationEstimate, prediction.NextPeriodStart); got != LutealPhaseDays {
			t.Fatalf("cycle length %d: ovulation is %d days before next period", cycleLength, got)
		}
		if got := DaysBetween(prediction.FertileWindowStart, prediction.FertileWindowEnd); got != 6 {
			t.Fatalf("cycle length %d: fertile window spans %d days", cycleLength, got)
		}
	}
}

func TestPredictNextUnavailable(t *testing.T) {
	tests := []struct {
		name        string
		lastStart   string
		cycleLength int
	}{
		{name: "missing start", lastStart: "", cycleLength: 28},
		{name: "malformed start", lastStart: "01/05/2024", cycleLength: 28},
		{name: "zero length", lastStart: "2024-01-01", cycleLength: 0},
		{name: "negative length", lastStart: "2024-01-01", cycleLength: -3},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			prediction := PredictNext(testCase.lastStart, testCase.cycleLength)
			if prediction.Available {
				t.Fatal("expected no prediction")
			}
			if !prediction.NextPeriodStart.IsZero() || !prediction.FertileWindowEnd.IsZero() {
				t.Fatalf("expected zero dates, got %+v", prediction)
			}
		})
	}
}

func TestPredictCyclesChainsAcrossLeapDay(t *testing.T) {
	predictions := PredictCycles("2024-01-01", 28, 3)
	if len(predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(predictions))
	}

	want := []string{"2024-01-29", "2024-02-26", "2024-03-25"}
	for index, prediction := range predictions {
		if got := FormatDate(prediction.NextPeriodStart); got != want[index] {
			t.Fatalf("cycle %d next period = %s, want %s", index+1, got, want[index])
		}
	}

	if got := PredictCycles("", 28, 3); len(got) != 0 {
		t.Fatalf("expected no predictions without a start date, got %d", len(got))
	}
}

func TestCycleAndPeriodLengthRanges(t *testing.T) {
	if IsValidCycleLength(14) || !IsValidCycleLength(15) || !IsValidCycleLength(90) || IsValidCycleLength(91) {
		t.Fatal("cycle length range must be 15..90")
	}
	if IsValidPeriodLength(0) || !IsValidPeriodLength(1) || !IsValidPeriodLength(15) || IsValidPeriodLength(16) {
		t.Fatal("period length range must be 1..15")
	}
}

func TestDateFormatting(t *testing.T) {
	if got := FormatLongDate("2024-01-05"); got != "January 05, 2024" {
		t.Fatalf("FormatLongDate = %q", got)
	}
	if got := FormatLongDate("garbage"); got != NotAvailable {
		t.Fatalf("FormatLongDate(garbage) = %q, want N/A", got)
	}
	if got := FormatLongDate(""); got != NotAvailable {
		t.Fatalf("FormatLongDate(empty) = %q, want N/A", got)
	}
	if _, err := ParseDate("2024-02-30"); err == nil {
		t.Fatal("expected 2024-02-30 to be rejected")
	}
	if got := DaysBetween(mustParseDate(t, "2024-03-30"), mustParseDate(t, "2024-04-02")); got != 3 {
		t.Fatalf("DaysBetween = %d, want 3", got)
	}
}
