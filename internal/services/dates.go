package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	LongDateLayout = "January 02, 2006"
	NotAvailable   = "N/A"
)

var ErrInvalidDate = errors.New("invalid date")

// ParseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	parsed, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed, nil
}

func FormatDate(day time.Time) string {
	if day.IsZero() {
		return NotAvailable
	}
	return day.Format(DateLayout)
}

func FormatLongDate(raw string) string {
	day, err := ParseDate(raw)
	if err != nil {
		return NotAvailable
	}
	return day.Format(LongDateLayout)
}

func FormatLongDay(day time.Time) string {
	if day.IsZero() {
		return NotAvailable
	}
	return day.Format(LongDateLayout)
}

// CalendarDay drops the clock and zone so that day arithmetic never crosses a DST shift.
func CalendarDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween counts on Unix seconds rather than time.Duration, which
// saturates past roughly 292 years.
func DaysBetween(from time.Time, to time.Time) int {
	return int((CalendarDay(to).Unix() - CalendarDay(from).Unix()) / secondsPerDay)
}

func AddDays(day time.Time, days int) time.Time {
	return CalendarDay(day).AddDate(0, 0, days)
}
