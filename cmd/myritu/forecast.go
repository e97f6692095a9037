package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/myritu/internal/services"
	"gopkg.in/yaml.v3"
)

const maxForecastCycles = 12

type forecastOptions struct {
	lastPeriod   string
	cycleLength  int
	periodLength int
	today        string
	cycles       int
	output       string
}

type forecastCycle struct {
	NextPeriodStart    string `json:"next_period_start" yaml:"next_period_start"`
	OvulationEstimate  string `json:"ovulation_estimate" yaml:"ovulation_estimate"`
	FertileWindowStart string `json:"fertile_window_start" yaml:"fertile_window_start"`
	FertileWindowEnd   string `json:"fertile_window_end" yaml:"fertile_window_end"`
}

type forecastReport struct {
	Today           string                   `json:"today" yaml:"today"`
	LastPeriodStart string                   `json:"last_period_start" yaml:"last_period_start"`
	CycleLength     int                      `json:"cycle_length" yaml:"cycle_length"`
	PeriodLength    int                      `json:"period_length" yaml:"period_length"`
	CycleDay        int                      `json:"cycle_day,omitempty" yaml:"cycle_day,omitempty"`
	Phase           services.Phase           `json:"phase" yaml:"phase"`
	PhaseLabel      string                   `json:"phase_label" yaml:"phase_label"`
	Hormones        services.HormoneSnapshot `json:"hormones" yaml:"hormones"`
	Cycles          []forecastCycle          `json:"cycles" yaml:"cycles"`
}

func newForecastCommand() *cobra.Command {
	options := forecastOptions{}

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Predict upcoming cycles and today's phase",
		Example: `  myritu forecast --last-period 2024-01-01 --cycle-length 28 --period-length 5
  myritu forecast --last-period 2024-01-01 --cycle-length 30 --today 2024-02-10 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := buildForecast(options, time.Now())
			if err != nil {
				return err
			}
			return writeForecast(cmd.OutOrStdout(), report, options.output)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&options.lastPeriod, "last-period", "", "first day of the last period (YYYY-MM-DD)")
	flags.IntVar(&options.cycleLength, "cycle-length", services.DefaultCycleLength, "average cycle length in days")
	flags.IntVar(&options.periodLength, "period-length", services.DefaultPeriodLength, "average period length in days")
	flags.StringVar(&options.today, "today", "", "reference day (YYYY-MM-DD, default: current date)")
	flags.IntVar(&options.cycles, "cycles", services.CalendarPredictedCycles, "number of cycles to predict")
	flags.StringVarP(&options.output, "output", "o", "text", "output format (text, json, yaml)")
	_ = cmd.MarkFlagRequired("last-period")
	return cmd
}

func buildForecast(options forecastOptions, now time.Time) (forecastReport, error) {
	lastPeriod, err := services.ParseDate(options.lastPeriod)
	if err != nil {
		return forecastReport{}, fmt.Errorf("invalid --last-period %q: want YYYY-MM-DD", options.lastPeriod)
	}
	if options.cycleLength < services.MinCycleLength || options.cycleLength > services.MaxCycleLength {
		return forecastReport{}, fmt.Errorf("--cycle-length must be between %d and %d", services.MinCycleLength, services.MaxCycleLength)
	}
	if options.periodLength < services.MinPeriodLength || options.periodLength > services.MaxPeriodLength {
		return forecastReport{}, fmt.Errorf("--period-length must be between %d and %d", services.MinPeriodLength, services.MaxPeriodLength)
	}
	if options.cycles < 1 || options.cycles > maxForecastCycles {
		return forecastReport{}, fmt.Errorf("--cycles must be between 1 and %d", maxForecastCycles)
	}

	today := services.CalendarDay(now)
	if options.today != "" {
		today, err = services.ParseDate(options.today)
		if err != nil {
			return forecastReport{}, fmt.Errorf("invalid --today %q: want YYYY-MM-DD", options.today)
		}
	}

	lastPeriodStart := services.FormatDate(lastPeriod)
	phase := services.ClassifyPhase(today, lastPeriodStart, options.periodLength, options.cycleLength)
	report := forecastReport{
		Today:           services.FormatDate(today),
		LastPeriodStart: lastPeriodStart,
		CycleLength:     options.cycleLength,
		PeriodLength:    options.periodLength,
		Phase:           phase,
		PhaseLabel:      phase.Label(),
		Hormones:        services.QualitativeInfo(phase),
	}
	if day, ok := services.CycleDay(today, lastPeriodStart, options.cycleLength); ok {
		report.CycleDay = day
	}

	for _, prediction := range services.PredictCycles(lastPeriodStart, options.cycleLength, options.cycles) {
		report.Cycles = append(report.Cycles, forecastCycle{
			NextPeriodStart:    services.FormatDate(prediction.NextPeriodStart),
			OvulationEstimate:  services.FormatDate(prediction.OvulationEstimate),
			FertileWindowStart: services.FormatDate(prediction.FertileWindowStart),
			FertileWindowEnd:   services.FormatDate(prediction.FertileWindowEnd),
		})
	}
	return report, nil
}

func writeForecast(out io.Writer, report forecastReport, format string) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(2)
		if err := encoder.Encode(report); err != nil {
			return err
		}
		return encoder.Close()
	case "text", "":
		return writeForecastText(out, report)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

func writeForecastText(out io.Writer, report forecastReport) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Today: %s\n", report.Today)
	if report.CycleDay > 0 {
		fmt.Fprintf(&builder, "Cycle day: %d of %d\n", report.CycleDay, report.CycleLength)
	}
	fmt.Fprintf(&builder, "Phase: %s\n", report.PhaseLabel)
	fmt.Fprintf(&builder, "Hormones: estrogen %s, progesterone %s, LH %s, FSH %s\n",
		report.Hormones.Estrogen, report.Hormones.Progesterone, report.Hormones.LH, report.Hormones.FSH)
	builder.WriteString("\nUpcoming cycles:\n")
	for index, cycle := range report.Cycles {
		fmt.Fprintf(&builder, "  %d. period %s  ovulation %s  fertile %s to %s\n",
			index+1, cycle.NextPeriodStart, cycle.OvulationEstimate, cycle.FertileWindowStart, cycle.FertileWindowEnd)
	}
	_, err := io.WriteString(out, builder.String())
	return err
}
