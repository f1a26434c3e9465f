// file: internals/features/scheduling/recurrence/spec.go
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

/* =========================
   Limits
========================= */

const (
	MaxInterval       = 99
	MaxOccurrencesCap = 100

	// Hard horizon: never walk more than SafetyPeriods units (days/weeks/months × interval)
	// past the start date, and never emit more than MaxExpansion dates per request.
	SafetyPeriods = 366
	MaxExpansion  = 366
)

/* =========================
   Errors
========================= */

var ErrInvalidSpec = errors.New("invalid recurrence spec")

type SpecError struct {
	Field   string
	Message string
}

func (e *SpecError) Error() string {
	if e.Field == "" {
		return ErrInvalidSpec.Error() + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidSpec.Error(), e.Field, e.Message)
}

func (e *SpecError) Unwrap() error { return ErrInvalidSpec }

func invalid(field, format string, args ...any) error {
	return &SpecError{Field: field, Message: fmt.Sprintf(format, args...)}
}

/* =========================
   Kind
========================= */

type Kind string

const (
	KindDaily   Kind = "daily"
	KindWeekly  Kind = "weekly"
	KindMonthly Kind = "monthly"
)

// ParseKind accepts the canonical names and the legacy form values (diaria/semanal/mensal).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "diaria", "diária":
		return KindDaily, nil
	case "weekly", "semanal":
		return KindWeekly, nil
	case "monthly", "mensal":
		return KindMonthly, nil
	case "":
		return "", invalid("kind", "recurrence kind is required")
	default:
		return "", invalid("kind", "unknown recurrence kind %q", s)
	}
}

/* =========================
   Spec
========================= */

// Spec is an immutable recurrence rule. Dates are civil dates; only Y/M/D are used.
type Spec struct {
	Kind           Kind
	Interval       int
	Weekdays       []int // ISO 1=Monday..7=Sunday, weekly only
	DayOfMonth     int   // 1..31, monthly only
	StartDate      time.Time
	EndDate        *time.Time
	MaxOccurrences int // 0 = absent
}

// Validate checks the structural rules of the spec.
func Validate(s Spec) error {
	switch s.Kind {
	case KindDaily, KindWeekly, KindMonthly:
	case "":
		return invalid("kind", "recurrence kind is required")
	default:
		return invalid("kind", "unknown recurrence kind %q", string(s.Kind))
	}

	if s.Interval < 1 || s.Interval > MaxInterval {
		return invalid("interval", "must be between 1 and %d", MaxInterval)
	}
	if s.StartDate.IsZero() {
		return invalid("start_date", "start date is required")
	}

	switch s.Kind {
	case KindWeekly:
		if len(s.Weekdays) == 0 {
			return invalid("weekdays", "select at least one weekday for a weekly recurrence")
		}
		for _, wd := range s.Weekdays {
			if wd < 1 || wd > 7 {
				return invalid("weekdays", "weekday %d out of range 1-7", wd)
			}
		}
	case KindMonthly:
		if s.DayOfMonth == 0 {
			return invalid("day_of_month", "day of month is required for a monthly recurrence")
		}
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return invalid("day_of_month", "must be between 1 and 31")
		}
	}

	if s.EndDate != nil && CivilDate(*s.EndDate).Before(CivilDate(s.StartDate)) {
		return invalid("end_date", "end date must not be before start date")
	}
	if s.MaxOccurrences < 0 || s.MaxOccurrences > MaxOccurrencesCap {
		return invalid("max_occurrences", "must be between 1 and %d", MaxOccurrencesCap)
	}
	return nil
}

// ValidateAt runs Validate and rejects a start date strictly before today.
func ValidateAt(s Spec, today time.Time) error {
	if err := Validate(s); err != nil {
		return err
	}
	if CivilDate(s.StartDate).Before(CivilDate(today)) {
		return invalid("start_date", "start date %s is in the past", CivilDate(s.StartDate).Format(DateLayout))
	}
	return nil
}

/* =========================
   Date helpers
========================= */

const DateLayout = "2006-01-02"

// CivilDate drops the clock and zone, keeping the calendar date as midnight UTC.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, lo := range []string{DateLayout, "2006-1-2"} {
		if t, err := time.Parse(lo, s); err == nil {
			return CivilDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}

func IsoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
