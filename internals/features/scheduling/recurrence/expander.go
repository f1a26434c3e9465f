// file: internals/features/scheduling/recurrence/expander.go
package recurrence

import (
	"iter"
	"slices"
	"time"
)

// Expand returns the dates produced by spec as a lazy, restartable sequence.
// previewLimit caps the number of dates (0 = no preview cap). When neither the
// spec nor the caller bounds the expansion the spec is rejected.
func Expand(spec Spec, previewLimit int) (iter.Seq[time.Time], error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}
	if previewLimit < 0 {
		return nil, invalid("limit", "preview limit must not be negative")
	}
	if spec.EndDate == nil && spec.MaxOccurrences == 0 && previewLimit == 0 {
		return nil, invalid("end_date", "an end date or a maximum number of occurrences is required")
	}

	limit := MaxExpansion
	if spec.MaxOccurrences > 0 && spec.MaxOccurrences < limit {
		limit = spec.MaxOccurrences
	}
	if previewLimit > 0 && previewLimit < limit {
		limit = previewLimit
	}

	start := CivilDate(spec.StartDate)
	bound := horizon(spec, start)
	if spec.EndDate != nil {
		if end := CivilDate(*spec.EndDate); end.Before(bound) {
			bound = end
		}
	}

	return walk(spec, start, bound, limit), nil
}

// walk yields the rule's dates from start up to bound (inclusive), at most limit of them.
func walk(spec Spec, start, bound time.Time, limit int) iter.Seq[time.Time] {
	// salinan lokal supaya sequence tidak terpengaruh perubahan slice pemanggil
	weekdays := [8]bool{}
	for _, wd := range spec.Weekdays {
		weekdays[wd] = true
	}
	kind, interval, dom := spec.Kind, spec.Interval, spec.DayOfMonth

	return func(yield func(time.Time) bool) {
		n := 0
		emit := func(d time.Time) bool {
			if !yield(d) {
				return false
			}
			n++
			return n < limit
		}

		switch kind {
		case KindDaily:
			for d := start; !d.After(bound); d = d.AddDate(0, 0, interval) {
				if !emit(d) {
					return
				}
			}

		case KindWeekly:
			for d := start; !d.After(bound); {
				if weekdays[IsoWeekday(d)] {
					if !emit(d) {
						return
					}
				}
				if IsoWeekday(d) == 7 {
					d = d.AddDate(0, 0, 1+(interval-1)*7)
				} else {
					d = d.AddDate(0, 0, 1)
				}
			}

		case KindMonthly:
			first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
			for k := 0; ; k++ {
				m := first.AddDate(0, k*interval, 0)
				if m.After(bound) {
					return
				}
				day := min(dom, DaysInMonth(m.Year(), m.Month()))
				d := time.Date(m.Year(), m.Month(), day, 0, 0, 0, 0, time.UTC)
				if d.Before(start) {
					continue
				}
				if d.After(bound) {
					return
				}
				if !emit(d) {
					return
				}
			}
		}
	}
}

// Collect materializes Expand into a slice.
func Collect(spec Spec, previewLimit int) ([]time.Time, error) {
	seq, err := Expand(spec, previewLimit)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// Truncated reports whether Expand(spec, 0) stops on the safety caps
// (SafetyPeriods / MaxExpansion) before reaching the rule's own end date.
func Truncated(spec Spec) (bool, error) {
	dates, err := Collect(spec, 0)
	if err != nil {
		return false, err
	}
	if spec.EndDate == nil {
		return false, nil
	}
	if spec.MaxOccurrences > 0 && len(dates) >= spec.MaxOccurrences {
		return false, nil
	}
	// satu tanggal lagi sebelum end date berarti caps yang menghentikan ekspansi
	n := 0
	for range walk(spec, CivilDate(spec.StartDate), CivilDate(*spec.EndDate), len(dates)+1) {
		n++
	}
	return n > len(dates), nil
}

// LastDate returns the final date Expand(spec, 0) produces; ok is false when
// the rule yields nothing.
func LastDate(spec Spec) (last time.Time, ok bool, err error) {
	dates, err := Collect(spec, 0)
	if err != nil || len(dates) == 0 {
		return time.Time{}, false, err
	}
	return dates[len(dates)-1], true, nil
}

func horizon(spec Spec, start time.Time) time.Time {
	switch spec.Kind {
	case KindWeekly:
		return start.AddDate(0, 0, 7*SafetyPeriods*spec.Interval)
	case KindMonthly:
		return start.AddDate(0, SafetyPeriods*spec.Interval, 0)
	default:
		return start.AddDate(0, 0, SafetyPeriods*spec.Interval)
	}
}
