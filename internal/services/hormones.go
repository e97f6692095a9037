package services

import "math"

const (
	HormoneEstrogen     = "Estrogen"
	HormoneProgesterone = "Progesterone"
	HormoneLH           = "LH"
	HormoneFSH          = "FSH"
)

type HormoneSnapshot struct {
	Estrogen     string `json:"estrogen"`
	Progesterone string `json:"progesterone"`
	FSH          string `json:"fsh"`
	LH           string `json:"lh"`
	Description  string `json:"description"`
}

type HormoneLevels struct {
	Estrogen     float64 `json:"estrogen"`
	Progesterone float64 `json:"progesterone"`
	LH           float64 `json:"lh"`
	FSH          float64 `json:"fsh"`
}

type HormoneSample struct {
	Day     int     `json:"day"`
	Hormone string  `json:"hormone"`
	Level   float64 `json:"level"`
}

var hormoneTable = map[Phase]HormoneSnapshot{
	PhaseMenstruation: {
		Estrogen: "Low", Progesterone: "Low", FSH: "Slightly rising", LH: "Low",
		Description: "The uterine lining is shed. Estrogen and progesterone are at their lowest. Follicle Stimulating Hormone (FSH) begins to rise towards the end of this phase to prepare follicles for the next Ritu.",
	},
	PhaseFollicular: {
		Estrogen: "Rising", Progesterone: "Low", FSH: "Moderately high, then falls", LH: "Slowly rising",
		Description: "From the end of your period to ovulation. Estrogen rises as follicles develop in the ovaries. FSH stimulates follicle growth. One dominant follicle emerges.",
	},
	PhaseOvulationFertileWindow: {
		Estrogen: "Peak", Progesterone: "Starts to rise", FSH: "Surges then falls", LH: "Surges (triggers ovulation)",
		Description: "A surge in Luteinizing Hormone (LH), triggered by peak estrogen, causes the dominant follicle to release an egg. This is the most fertile time.",
	},
	PhaseLuteal: {
		Estrogen: "High, then falls", Progesterone: "High (peaks), then falls", FSH: "Low", LH: "Low",
		Description: "After ovulation until the next period. The ruptured follicle (corpus luteum) produces progesterone (and some estrogen), which thickens the uterine lining. If pregnancy doesn't occur, hormone levels fall, triggering menstruation.",
	},
	PhaseUnknown: {
		Estrogen: NotAvailable, Progesterone: NotAvailable, FSH: NotAvailable, LH: NotAvailable,
		Description: "Ritu phase information is currently unavailable. Please ensure your Ritu data is up to date.",
	},
}

// QualitativeInfo looks up the descriptive hormone table. Phases without a
// row, including the transition phase, get the Unknown row.
func QualitativeInfo(phase Phase) HormoneSnapshot {
	if snapshot, ok := hormoneTable[phase]; ok {
		return snapshot
	}
	return hormoneTable[PhaseUnknown]
}

// ContinuousLevels evaluates the illustrative hormone curves at
// x = dayInCycle / cycleLength. The constants are part of the chart contract.
func ContinuousLevels(dayInCycle int, cycleLength int) HormoneLevels {
	if cycleLength <= 0 {
		return HormoneLevels{}
	}
	x := float64(dayInCycle) / float64(cycleLength)

	estrogen := (math.Sin(x*2*math.Pi-math.Pi/2)*0.4 + 0.5) + gaussian(x, 0.45, 0.01)*0.5
	estrogen = clip(estrogen*(1-gaussian(x, 0.1, 0.05)*0.3), 0.1, 1)
	if x > 0.6 && x < 0.85 {
		estrogen += math.Sin((x-0.6)/(0.85-0.6)*math.Pi) * 0.2
	}

	const ovulationPoint = 0.5
	progesterone := 0.0
	if x > ovulationPoint {
		progesterone = math.Sin((x-ovulationPoint)/(1-ovulationPoint)*math.Pi)*0.9 + 0.1
	}
	progesterone = clip(progesterone, 0.05, 1)
	if x < ovulationPoint+0.05 {
		progesterone = 0.05
	}

	lh := clip(gaussian(x, 0.5, 0.015)*0.9+0.1, 0.1, 1)

	fsh := (math.Sin(x*1.5*math.Pi-math.Pi/1.8)*0.3 + 0.35) + gaussian(x, 0.5, 0.02)*0.2
	fsh = clip(fsh, 0.1, 1)

	return HormoneLevels{
		Estrogen:     clip(estrogen, 0.05, 1),
		Progesterone: clip(progesterone, 0.05, 1),
		LH:           clip(lh, 0.05, 1),
		FSH:          clip(fsh, 0.05, 1),
	}
}

// GenerateCurve samples every day 1..cycleLength, four hormones per day.
func GenerateCurve(cycleLength int) []HormoneSample {
	if cycleLength <= 0 {
		return []HormoneSample{}
	}

	samples := make([]HormoneSample, 0, cycleLength*4)
	for day := 1; day <= cycleLength; day++ {
		levels := ContinuousLevels(day, cycleLength)
		samples = append(samples,
			HormoneSample{Day: day, Hormone: HormoneEstrogen, Level: levels.Estrogen},
			HormoneSample{Day: day, Hormone: HormoneProgesterone, Level: levels.Progesterone},
			HormoneSample{Day: day, Hormone: HormoneLH, Level: levels.LH},
			HormoneSample{Day: day, Hormone: HormoneFSH, Level: levels.FSH},
		)
	}
	return samples
}

func gaussian(x float64, center float64, sigma float64) float64 {
	delta := x - center
	return math.Exp(-(delta * delta / (2 * (sigma * sigma))))
}

func clip(value float64, low float64, high float64) float64 {
	return math.Min(math.Max(value, low), high)
}
