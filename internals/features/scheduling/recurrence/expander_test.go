package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestExpand_DailyStep(t *testing.T) {
	for _, interval := range []int{1, 2, 3, 7} {
		spec := Spec{Kind: KindDaily, Interval: interval, StartDate: date(2026, 11, 1), MaxOccurrences: 20}
		got, err := Collect(spec, 0)
		require.NoError(t, err)
		require.Len(t, got, 20)
		for k, d := range got {
			assert.Equal(t, spec.StartDate.AddDate(0, 0, k*interval), d, "interval=%d k=%d", interval, k)
		}
	}
}

func TestExpand_WeeklyMonWedFri(t *testing.T) {
	// 2026-11-02 is a Monday
	spec := Spec{Kind: KindWeekly, Interval: 1, Weekdays: []int{1, 3, 5}, StartDate: date(2026, 11, 2), MaxOccurrences: 6}
	got, err := Collect(spec, 0)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2026, 11, 2), date(2026, 11, 4), date(2026, 11, 6),
		date(2026, 11, 9), date(2026, 11, 11), date(2026, 11, 13),
	}, got)
	assert.Equal(t, time.Monday, got[0].Weekday())
	assert.Equal(t, time.Wednesday, got[1].Weekday())
	assert.Equal(t, time.Friday, got[2].Weekday())
}

func TestExpand_WeeklyIntervalSkipsWeeks(t *testing.T) {
	// start on Thursday: the rest of the first week counts as an active week
	spec := Spec{Kind: KindWeekly, Interval: 2, Weekdays: []int{2, 5}, StartDate: date(2026, 11, 5), MaxOccurrences: 5}
	got, err := Collect(spec, 0)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2026, 11, 6),                     // Fri, week 1
		date(2026, 11, 17), date(2026, 11, 20), // week 3
		date(2026, 12, 1), date(2026, 12, 4), // week 5
	}, got)
}

func TestExpand_MonthlyClampsToMonthEnd(t *testing.T) {
	spec := Spec{Kind: KindMonthly, Interval: 1, DayOfMonth: 31, StartDate: date(2027, 1, 31), MaxOccurrences: 4}
	got, err := Collect(spec, 0)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2027, 1, 31), date(2027, 2, 28), date(2027, 3, 31), date(2027, 4, 30),
	}, got)

	leap := Spec{Kind: KindMonthly, Interval: 1, DayOfMonth: 31, StartDate: date(2028, 1, 31), MaxOccurrences: 3}
	got, err = Collect(leap, 0)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2028, 1, 31), date(2028, 2, 29), date(2028, 3, 31)}, got)
}

func TestExpand_MonthlySkipsDayBeforeStart(t *testing.T) {
	spec := Spec{Kind: KindMonthly, Interval: 2, DayOfMonth: 10, StartDate: date(2026, 11, 15), MaxOccurrences: 3}
	got, err := Collect(spec, 0)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2027, 1, 10), date(2027, 3, 10), date(2027, 5, 10)}, got)
}

func TestExpand_Bounds(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		limit    int
		expected int
	}{
		{
			name:     "end date stops expansion",
			spec:     Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2026, 11, 10))},
			expected: 10,
		},
		{
			name:     "max occurrences reached before end date",
			spec:     Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2026, 12, 31)), MaxOccurrences: 4},
			expected: 4,
		},
		{
			name:     "end date reached before max occurrences",
			spec:     Spec{Kind: KindWeekly, Interval: 1, Weekdays: []int{1}, StartDate: date(2026, 11, 2), EndDate: ptrTime(date(2026, 11, 16)), MaxOccurrences: 50},
			expected: 3,
		},
		{
			name:     "preview limit caps below max occurrences",
			spec:     Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), MaxOccurrences: 50},
			limit:    10,
			expected: 10,
		},
		{
			name:     "preview limit alone bounds expansion",
			spec:     Spec{Kind: KindMonthly, Interval: 1, DayOfMonth: 5, StartDate: date(2026, 11, 1)},
			limit:    7,
			expected: 7,
		},
		{
			name:     "far end date is cut by safety horizon",
			spec:     Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2040, 1, 1))},
			expected: MaxExpansion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(tt.spec, tt.limit)
			require.NoError(t, err)
			assert.Len(t, got, tt.expected)
			for i, d := range got {
				assert.False(t, d.Before(CivilDate(tt.spec.StartDate)))
				if tt.spec.EndDate != nil {
					assert.False(t, d.After(*tt.spec.EndDate))
				}
				if i > 0 {
					assert.True(t, d.After(got[i-1]), "dates must be strictly ascending")
				}
			}
		})
	}
}

func TestExpand_Restartable(t *testing.T) {
	spec := Spec{Kind: KindWeekly, Interval: 1, Weekdays: []int{1, 4}, StartDate: date(2026, 11, 2), MaxOccurrences: 5}
	seq, err := Expand(spec, 0)
	require.NoError(t, err)

	var first, second []time.Time
	for d := range seq {
		first = append(first, d)
	}
	for d := range seq {
		second = append(second, d)
		if len(second) == 2 {
			break
		}
	}
	assert.Len(t, first, 5)
	assert.Equal(t, first[:2], second)
}

func TestExpand_InvalidSpec(t *testing.T) {
	tests := []struct {
		name  string
		spec  Spec
		field string
	}{
		{"unknown kind", Spec{Kind: "yearly", Interval: 1, StartDate: date(2026, 11, 1), MaxOccurrences: 3}, "kind"},
		{"weekly without weekdays", Spec{Kind: KindWeekly, Interval: 1, StartDate: date(2026, 11, 1), MaxOccurrences: 3}, "weekdays"},
		{"weekday out of range", Spec{Kind: KindWeekly, Interval: 1, Weekdays: []int{0}, StartDate: date(2026, 11, 1), MaxOccurrences: 3}, "weekdays"},
		{"monthly without day", Spec{Kind: KindMonthly, Interval: 1, StartDate: date(2026, 11, 1), MaxOccurrences: 3}, "day_of_month"},
		{"day of month out of range", Spec{Kind: KindMonthly, Interval: 1, DayOfMonth: 32, StartDate: date(2026, 11, 1), MaxOccurrences: 3}, "day_of_month"},
		{"zero interval", Spec{Kind: KindDaily, StartDate: date(2026, 11, 1), MaxOccurrences: 3}, "interval"},
		{"end before start", Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 10), EndDate: ptrTime(date(2026, 11, 9))}, "end_date"},
		{"too many occurrences", Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), MaxOccurrences: 101}, "max_occurrences"},
		{"unbounded", Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1)}, "end_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Expand(tt.spec, 0)
			assert.Nil(t, seq)
			require.ErrorIs(t, err, ErrInvalidSpec)
			var se *SpecError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.field, se.Field)
		})
	}
}

func TestValidateAt_RejectsPastStart(t *testing.T) {
	today := time.Date(2026, 10, 16, 15, 30, 0, 0, time.FixedZone("BRT", -3*3600))
	spec := Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 10, 15), MaxOccurrences: 2}
	assert.ErrorIs(t, ValidateAt(spec, today), ErrInvalidSpec)

	spec.StartDate = date(2026, 10, 16)
	assert.NoError(t, ValidateAt(spec, today))
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"daily": KindDaily, "diaria": KindDaily,
		"Weekly": KindWeekly, "semanal": KindWeekly,
		"monthly": KindMonthly, " mensal ": KindMonthly,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseKind("anual")
	assert.ErrorIs(t, err, ErrInvalidSpec)
	_, err = ParseKind("")
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestRRule_MatchesExpansion(t *testing.T) {
	specs := []Spec{
		{Kind: KindDaily, Interval: 3, StartDate: date(2026, 11, 1), MaxOccurrences: 12},
		{Kind: KindWeekly, Interval: 2, Weekdays: []int{5, 2}, StartDate: date(2026, 11, 5), MaxOccurrences: 9},
		{Kind: KindWeekly, Interval: 1, Weekdays: []int{1, 7}, StartDate: date(2026, 11, 2), EndDate: ptrTime(date(2026, 12, 20))},
		{Kind: KindMonthly, Interval: 1, DayOfMonth: 31, StartDate: date(2027, 1, 31), MaxOccurrences: 14},
		{Kind: KindMonthly, Interval: 3, DayOfMonth: 30, StartDate: date(2026, 11, 1), MaxOccurrences: 8},
		{Kind: KindMonthly, Interval: 1, DayOfMonth: 15, StartDate: date(2026, 11, 20), EndDate: ptrTime(date(2027, 6, 30))},
		{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2030, 12, 31)), MaxOccurrences: 5},
		{Kind: KindWeekly, Interval: 1, Weekdays: []int{2, 4}, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2026, 11, 12)), MaxOccurrences: 20},
		{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2030, 12, 31))},
	}

	for _, spec := range specs {
		ours, err := Collect(spec, 0)
		require.NoError(t, err)

		opt, err := ROption(spec)
		require.NoError(t, err)
		r, err := rrule.NewRRule(opt)
		require.NoError(t, err)

		assert.Equal(t, r.All(), ours, "rule %s", opt.RRuleString())
	}
}

func TestRRule_String(t *testing.T) {
	s, err := RRule(Spec{Kind: KindMonthly, Interval: 1, DayOfMonth: 30, StartDate: date(2026, 11, 1), MaxOccurrences: 3})
	require.NoError(t, err)
	assert.Equal(t, "FREQ=MONTHLY;INTERVAL=1;COUNT=3;BYSETPOS=-1;BYMONTHDAY=28,29,30", s)

	s, err = RRule(Spec{Kind: KindWeekly, Interval: 1, Weekdays: []int{3, 1}, StartDate: date(2026, 11, 2), MaxOccurrences: 4})
	require.NoError(t, err)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=1;COUNT=4;BYDAY=MO,WE", s)
}

func TestRRule_UntilWithoutCount(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		want string
	}{
		{
			name: "count reached first",
			spec: Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2030, 12, 31)), MaxOccurrences: 5},
			want: "FREQ=DAILY;INTERVAL=1;UNTIL=20261105T000000Z",
		},
		{
			name: "end date reached first",
			spec: Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2026, 11, 3)), MaxOccurrences: 10},
			want: "FREQ=DAILY;INTERVAL=1;UNTIL=20261103T000000Z",
		},
		{
			name: "safety cap reached first",
			spec: Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2030, 12, 31))},
			want: "FREQ=DAILY;INTERVAL=1;UNTIL=20271101T000000Z",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := RRule(tc.spec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
			assert.NotContains(t, s, "COUNT=")
		})
	}
}

func TestTruncated(t *testing.T) {
	far := Spec{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2030, 12, 31))}
	dates, err := Collect(far, 0)
	require.NoError(t, err)
	require.Len(t, dates, MaxExpansion)
	assert.Equal(t, date(2027, 11, 1), dates[len(dates)-1])

	tr, err := Truncated(far)
	require.NoError(t, err)
	assert.True(t, tr)

	last, ok, err := LastDate(far)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, date(2027, 11, 1), last)

	for _, spec := range []Spec{
		{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2026, 11, 10))},
		{Kind: KindDaily, Interval: 1, StartDate: date(2026, 11, 1), EndDate: ptrTime(date(2030, 12, 31)), MaxOccurrences: 5},
		{Kind: KindWeekly, Interval: 1, Weekdays: []int{1}, StartDate: date(2026, 11, 2), MaxOccurrences: 100},
		{Kind: KindMonthly, Interval: 1, DayOfMonth: 31, StartDate: date(2027, 1, 31), EndDate: ptrTime(date(2027, 12, 31))},
	} {
		tr, err := Truncated(spec)
		require.NoError(t, err)
		assert.False(t, tr, "%+v", spec)
	}
}
