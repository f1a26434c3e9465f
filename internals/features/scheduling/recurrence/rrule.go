// file: internals/features/scheduling/recurrence/rrule.go
package recurrence

import (
	"sort"

	"github.com/teambition/rrule-go"
)

var isoToRRuleWeekday = map[int]rrule.Weekday{
	1: rrule.MO, 2: rrule.TU, 3: rrule.WE, 4: rrule.TH, 5: rrule.FR, 6: rrule.SA, 7: rrule.SU,
}

// ROption maps spec onto RFC 5545 options. Month-end clamping is written as
// BYMONTHDAY=28..d;BYSETPOS=-1 so short months pick their last day.
// COUNT and UNTIL never appear together: a rule with an end date is rendered
// with UNTIL set to the last date actually produced, so whichever bound (end
// date, max occurrences, safety caps) stops the expansion first is the one kept.
func ROption(spec Spec) (rrule.ROption, error) {
	if err := Validate(spec); err != nil {
		return rrule.ROption{}, err
	}
	opt := rrule.ROption{
		Dtstart:  CivilDate(spec.StartDate),
		Interval: spec.Interval,
		Wkst:     rrule.MO,
		Count:    spec.MaxOccurrences,
	}
	if spec.EndDate != nil {
		opt.Count = 0
		opt.Until = CivilDate(*spec.EndDate)
		last, ok, err := LastDate(spec)
		if err != nil {
			return rrule.ROption{}, err
		}
		if ok {
			opt.Until = last
		}
	}

	switch spec.Kind {
	case KindDaily:
		opt.Freq = rrule.DAILY
	case KindWeekly:
		opt.Freq = rrule.WEEKLY
		wds := append([]int(nil), spec.Weekdays...)
		sort.Ints(wds)
		for i, wd := range wds {
			if i > 0 && wds[i-1] == wd {
				continue
			}
			opt.Byweekday = append(opt.Byweekday, isoToRRuleWeekday[wd])
		}
	case KindMonthly:
		opt.Freq = rrule.MONTHLY
		if spec.DayOfMonth <= 28 {
			opt.Bymonthday = []int{spec.DayOfMonth}
		} else {
			for d := 28; d <= spec.DayOfMonth; d++ {
				opt.Bymonthday = append(opt.Bymonthday, d)
			}
			opt.Bysetpos = []int{-1}
		}
	}
	return opt, nil
}

// RRule renders spec as an RRULE value (without the "RRULE:" prefix and DTSTART).
func RRule(spec Spec) (string, error) {
	opt, err := ROption(spec)
	if err != nil {
		return "", err
	}
	return opt.RRuleString(), nil
}
