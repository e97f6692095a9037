package services

import (
	"math"
	"testing"
)

func TestGenerateCurveShape(t *testing.T) {
	samples := GenerateCurve(28)
	if len(samples) != 112 {
		t.Fatalf("expected 112 samples, got %d", len(samples))
	}

	order := []string{HormoneEstrogen, HormoneProgesterone, HormoneLH, HormoneFSH}
	for index, sample := range samples {
		if sample.Day != index/4+1 {
			t.Fatalf("sample %d has day %d", index, sample.Day)
		}
		if sample.Hormone != order[index%4] {
			t.Fatalf("sample %d has hormone %s, want %s", index, sample.Hormone, order[index%4])
		}
		if sample.Level < 0.05 || sample.Level > 1 {
			t.Fatalf("sample %d level %f out of [0.05, 1]", index, sample.Level)
		}
	}

	if got := GenerateCurve(0); len(got) != 0 {
		t.Fatalf("expected empty curve for zero length, got %d samples", len(got))
	}
}

func TestContinuousLevelsBoundsForEveryCycleLength(t *testing.T) {
	for cycleLength := MinCycleLength; cycleLength <= MaxCycleLength; cycleLength++ {
		for day := 1; day <= cycleLength; day++ {
			levels := ContinuousLevels(day, cycleLength)
			for name, level := range map[string]float64{
				"estrogen":     levels.Estrogen,
				"progesterone": levels.Progesterone,
				"lh":           levels.LH,
				"fsh":          levels.FSH,
			} {
				if level < 0.05 || level > 1 || math.IsNaN(level) {
					t.Fatalf("%s on day %d of %d = %f", name, day, cycleLength, level)
				}
			}
		}
	}
}

func TestContinuousLevelsLandmarks(t *testing.T) {
	ovulation := ContinuousLevels(14, 28)
	if math.Abs(ovulation.LH-1) > 1e-9 {
		t.Fatalf("expected LH surge at mid-cycle, got %f", ovulation.LH)
	}
	if ovulation.Progesterone != 0.05 {
		t.Fatalf("expected baseline progesterone before ovulation, got %f", ovulation.Progesterone)
	}

	luteal := ContinuousLevels(21, 28)
	if math.Abs(luteal.Progesterone-1) > 1e-9 {
		t.Fatalf("expected progesterone peak at day 21, got %f", luteal.Progesterone)
	}
	if luteal.LH > 0.11 {
		t.Fatalf("expected LH back at baseline, got %f", luteal.LH)
	}
}

func TestContinuousLevelsGoldenValues(t *testing.T) {
	tests := []struct {
		day      int
		estrogen float64
		fsh      float64
	}{
		{day: 5, estrogen: 0.29795518639999424, fsh: 0.11428919621483791},
		{day: 14, estrogen: 0.9000018633265826, fsh: 0.7220729309053138},
		{day: 20, estrogen: 0.7871983259361127, fsh: 0.6496270763656766},
		{day: 22, estrogen: 0.5555505991829526, fsh: 0.6278740869830925},
	}

	for _, testCase := range tests {
		levels := ContinuousLevels(testCase.day, 28)
		if math.Abs(levels.Estrogen-testCase.estrogen) > 1e-12 {
			t.Fatalf("estrogen on day %d = %.17g, want %.17g", testCase.day, levels.Estrogen, testCase.estrogen)
		}
		if math.Abs(levels.FSH-testCase.fsh) > 1e-12 {
			t.Fatalf("fsh on day %d = %.17g, want %.17g", testCase.day, levels.FSH, testCase.fsh)
		}
	}
}

func TestQualitativeInfo(t *testing.T) {
	if got := QualitativeInfo(PhaseOvulationFertileWindow).LH; got != "Surges (triggers ovulation)" {
		t.Fatalf("unexpected ovulation LH %q", got)
	}
	if got := QualitativeInfo(PhaseMenstruation).FSH; got != "Slightly rising" {
		t.Fatalf("unexpected menstruation FSH %q", got)
	}

	unknown := QualitativeInfo(PhaseUnknown)
	if unknown.Estrogen != NotAvailable {
		t.Fatalf("unknown row should be N/A, got %q", unknown.Estrogen)
	}
	if QualitativeInfo(PhaseCycleTransitionUnknown) != unknown {
		t.Fatal("transition phase should fall back to the unknown row")
	}
}
