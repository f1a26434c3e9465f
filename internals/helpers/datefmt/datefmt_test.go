package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatting(t *testing.T) {
	tests := []struct {
		date      time.Time
		formatted string
		weekday   string
		short     string
	}{
		{time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), "02/11/2026", "Segunda-feira", "Seg"},
		{time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC), "07/11/2026", "Sábado", "Sáb"},
		{time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC), "28/02/2027", "Domingo", "Dom"},
	}
	for _, tt := range tests {
		t.Run(tt.formatted, func(t *testing.T) {
			assert.Equal(t, tt.formatted, FormatDate(tt.date))
			assert.Equal(t, tt.weekday, WeekdayName(tt.date))
			assert.Equal(t, tt.short, ShortWeekday(tt.date))
		})
	}
}
