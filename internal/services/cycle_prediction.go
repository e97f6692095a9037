package services

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
	MinCycleLength      = 15
	MaxCycleLength      = 90
	MinPeriodLength     = 1
	MaxPeriodLength     = 15

	LutealPhaseDays       = 14
	FertileWindowLeadDays = 5
	FertileWindowTailDays = 1
)

// CycleProfile is the subset of a user profile the engine works from.
// An empty LastPeriodStart or a zero AvgCycleLength means the value is absent.
type CycleProfile struct {
	LastPeriodStart string `json:"last_period_start"`
	AvgCycleLength  int    `json:"avg_cycle_length"`
	AvgPeriodLength int    `json:"avg_period_length"`
}

// Prediction is all-or-nothing: when Available is false every date is zero.
type Prediction struct {
	Available          bool      `json:"available"`
	NextPeriodStart    time.Time `json:"next_period_start"`
	OvulationEstimate  time.Time `json:"ovulation_estimate"`
	FertileWindowStart time.Time `json:"fertile_window_start"`
	FertileWindowEnd   time.Time `json:"fertile_window_end"`
}

func PredictNext(lastPeriodStart string, avgCycleLength int) Prediction {
	if avgCycleLength <= 0 {
		return Prediction{}
	}
	start, err := ParseDate(lastPeriodStart)
	if err != nil {
		return Prediction{}
	}
	return PredictNextFrom(start, avgCycleLength)
}

func PredictNextFrom(lastPeriodStart time.Time, avgCycleLength int) Prediction {
	if lastPeriodStart.IsZero() || avgCycleLength <= 0 {
		return Prediction{}
	}

	nextPeriodStart := AddDays(lastPeriodStart, avgCycleLength)
	ovulation := AddDays(nextPeriodStart, -LutealPhaseDays)
	return Prediction{
		Available:          true,
		NextPeriodStart:    nextPeriodStart,
		OvulationEstimate:  ovulation,
		FertileWindowStart: AddDays(ovulation, -FertileWindowLeadDays),
		FertileWindowEnd:   AddDays(ovulation, FertileWindowTailDays),
	}
}

// PredictCycles chains PredictNext, feeding each next period start back in,
// and stops at the first unavailable prediction.
func PredictCycles(lastPeriodStart string, avgCycleLength int, cycles int) []Prediction {
	predictions := make([]Prediction, 0, max(cycles, 0))
	current := lastPeriodStart
	for index := 0; index < cycles; index++ {
		prediction := PredictNext(current, avgCycleLength)
		if !prediction.Available {
			break
		}
		predictions = append(predictions, prediction)
		current = FormatDate(prediction.NextPeriodStart)
	}
	return predictions
}

func IsValidCycleLength(value int) bool {
	return value >= MinCycleLength && value <= MaxCycleLength
}

func IsValidPeriodLength(value int) bool {
	return value >= MinPeriodLength && value <= MaxPeriodLength
}
