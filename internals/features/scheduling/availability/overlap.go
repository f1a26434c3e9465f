// file: internals/features/scheduling/availability/overlap.go
package availability

import (
	"fmt"
	"strings"
	"time"
)

const MinutesPerDay = 24 * 60

/* =========================
   TimeRange (menit sejak 00:00)
========================= */

// TimeRange is a half-open [StartMin, EndMin) interval within one day.
type TimeRange struct {
	StartMin int `json:"start_min"`
	EndMin   int `json:"end_min"`
}

func (r TimeRange) Valid() bool {
	return r.StartMin >= 0 && r.StartMin < r.EndMin && r.EndMin <= MinutesPerDay
}

func (r TimeRange) DurationMin() int { return r.EndMin - r.StartMin }

func (r TimeRange) String() string {
	return FormatClock(r.StartMin) + "-" + FormatClock(r.EndMin)
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Touching endpoints do not overlap.
func Overlaps(a, b TimeRange) bool {
	return a.StartMin < b.EndMin && b.StartMin < a.EndMin
}

func (r TimeRange) Overlaps(o TimeRange) bool { return Overlaps(r, o) }

/* =========================
   Clock helpers
========================= */

// ParseClock accepts "HH:MM" or "HH:MM:SS" and returns minutes after midnight.
// "24:00" is accepted as end-of-day.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" || s == "24:00:00" {
		return MinutesPerDay, nil
	}
	for _, lo := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(lo, s); err == nil {
			return t.Hour()*60 + t.Minute(), nil
		}
	}
	return 0, fmt.Errorf("invalid time-of-day format: %q", s)
}

func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

func NewTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeRange{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeRange{}, err
	}
	r := TimeRange{StartMin: s, EndMin: e}
	if !r.Valid() {
		return TimeRange{}, fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return r, nil
}
