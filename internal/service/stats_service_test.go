package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodWindow(t *testing.T) {
	today := time.Date(2026, 3, 18, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		period Period
		from   string
	}{
		{PeriodWeek, "2026-03-12"},
		{PeriodMonth, "2026-02-17"},
		{PeriodQuarter, "2025-12-19"},
		{PeriodYear, "2025-03-19"},
		{Period("bogus"), "2026-03-12"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			from, to := tt.period.Window(today)
			assert.Equal(t, tt.from, from.Format("2006-01-02"))
			assert.Equal(t, "2026-03-18", to.Format("2006-01-02"))
			assert.Zero(t, to.Hour(), "window bounds are truncated to midnight")
		})
	}
}
