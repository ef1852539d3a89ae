package services

import (
	"testing"
	"time"

	"caterdesk-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindow(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		start  string
		cutoff string
		now    time.Time
		want   WindowState
	}{
		{"before start", "08:00", "14:00", date.Add(7 * time.Hour), WindowNotYetOpen},
		{"at start", "08:00", "14:00", date.Add(8 * time.Hour), WindowOpen},
		{"mid window", "08:00", "14:00", date.Add(12 * time.Hour), WindowOpen},
		{"at cutoff", "08:00", "14:00", date.Add(14 * time.Hour), WindowClosed},
		{"after cutoff", "08:00", "14:00", date.Add(15 * time.Hour), WindowClosed},
		{"no start opens at midnight", "", "14:00", date.Add(1 * time.Minute), WindowOpen},
		{"no start before midnight", "", "14:00", date.Add(-1 * time.Hour), WindowNotYetOpen},
		{"no cutoff never closes", "08:00", "", date.Add(23 * time.Hour), WindowOpen},
		{"no cutoff next day still open", "08:00", "", date.Add(40 * time.Hour), WindowOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &models.Service{Name: "Lunch", OrderStartTime: tt.start, CutoffTime: tt.cutoff}
			assert.Equal(t, tt.want, ResolveWindow(svc, date, tt.now))
		})
	}
}

func TestResolveWindowClosedIsPermanentForDate(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	svc := &models.Service{Name: "Lunch", OrderStartTime: "08:00", CutoffTime: "14:00"}

	for hour := 14; hour < 24; hour++ {
		assert.Equal(t, WindowClosed, ResolveWindow(svc, date, date.Add(time.Duration(hour)*time.Hour)))
	}
}

func TestCountdown(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	svc := &models.Service{Name: "Lunch", OrderStartTime: "08:00", CutoffTime: "14:00"}

	remaining, ok := Countdown(svc, date, date.Add(12*time.Hour))
	require.True(t, ok)
	assert.Equal(t, 2*time.Hour, remaining)

	remaining, ok = Countdown(svc, date, date.Add(16*time.Hour))
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), remaining)

	_, ok = Countdown(&models.Service{Name: "Open End"}, date, date.Add(12*time.Hour))
	assert.False(t, ok)
}
