package services

import "time"

type Phase string

const (
	PhaseMenstruation           Phase = "menstruation"
	PhaseFollicular             Phase = "follicular"
	PhaseOvulationFertileWindow Phase = "ovulation"
	PhaseLuteal                 Phase = "luteal"
	PhaseCycleTransitionUnknown Phase = "transition"
	PhaseUnknown                Phase = "unknown"
)

// OvulationBandHalfWidth is how many days either side of the estimated
// ovulation day count as the ovulation / fertile window phase.
const OvulationBandHalfWidth = 2

var phaseLabels = map[Phase]string{
	PhaseMenstruation:           "Menstruation",
	PhaseFollicular:             "Follicular Phase",
	PhaseOvulationFertileWindow: "Ovulation / Fertile Window",
	PhaseLuteal:                 "Luteal Phase",
	PhaseCycleTransitionUnknown: "Cycle Transition / Unknown",
	PhaseUnknown:                "Unknown",
}

func (phase Phase) Label() string {
	if label, ok := phaseLabels[phase]; ok {
		return label
	}
	return phaseLabels[PhaseUnknown]
}

// ClassifiablePhases lists the four physiological phases in cycle order.
func ClassifiablePhases() []Phase {
	return []Phase{PhaseMenstruation, PhaseFollicular, PhaseOvulationFertileWindow, PhaseLuteal}
}

// CycleDay returns the 1-indexed day of the projected cycle containing today.
// The enclosing cycle start S satisfies S <= today < S+avgCycleLength and may
// lie before lastPeriodStart when today does.
func CycleDay(today time.Time, lastPeriodStart string, avgCycleLength int) (int, bool) {
	if avgCycleLength < MinCycleLength || today.IsZero() {
		return 0, false
	}
	start, err := ParseDate(lastPeriodStart)
	if err != nil {
		return 0, false
	}

	offset := DaysBetween(start, today)
	cyclesElapsed := floorDiv(offset, avgCycleLength)
	cycleStart := AddDays(start, cyclesElapsed*avgCycleLength)
	return DaysBetween(cycleStart, today) + 1, true
}

func ClassifyPhase(today time.Time, lastPeriodStart string, avgPeriodLength int, avgCycleLength int) Phase {
	if avgPeriodLength <= 0 {
		return PhaseUnknown
	}
	dayInCycle, ok := CycleDay(today, lastPeriodStart, avgCycleLength)
	if !ok {
		return PhaseUnknown
	}
	return PhaseForCycleDay(dayInCycle, avgPeriodLength, avgCycleLength)
}

// PhaseForCycleDay applies the phase bands in order; the first match wins.
func PhaseForCycleDay(dayInCycle int, avgPeriodLength int, avgCycleLength int) Phase {
	ovulationDay := avgCycleLength - LutealPhaseDays

	switch {
	case dayInCycle >= 1 && dayInCycle <= avgPeriodLength:
		return PhaseMenstruation
	case dayInCycle > avgPeriodLength && dayInCycle < ovulationDay-OvulationBandHalfWidth:
		return PhaseFollicular
	case dayInCycle >= ovulationDay-OvulationBandHalfWidth && dayInCycle <= ovulationDay+OvulationBandHalfWidth:
		return PhaseOvulationFertileWindow
	case dayInCycle > ovulationDay+OvulationBandHalfWidth && dayInCycle <= avgCycleLength:
		return PhaseLuteal
	default:
		return PhaseCycleTransitionUnknown
	}
}

func floorDiv(value int, divisor int) int {
	quotient := value / divisor
	if value%divisor != 0 && (value < 0) != (divisor < 0) {
		quotient--
	}
	return quotient
}
