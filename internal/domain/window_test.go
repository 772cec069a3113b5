package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carbook/backend/internal/domain"
)

func day(d int) time.Time {
	return time.Date(2025, 7, d, 10, 0, 0, 0, time.UTC)
}

func window(t *testing.T, startDay, endDay int) domain.Window {
	t.Helper()
	w, err := domain.NewWindow(day(startDay), day(endDay))
	require.NoError(t, err)
	return w
}

func TestNewWindow_Valid(t *testing.T) {
	w, err := domain.NewWindow(day(1), day(3))

	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, w.Duration())
}

func TestNewWindow_EndEqualsStart(t *testing.T) {
	_, err := domain.NewWindow(day(1), day(1))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewWindow_EndBeforeStart(t *testing.T) {
	_, err := domain.NewWindow(day(3), day(1))

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWindow_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b domain.Window
		want bool
	}{
		{"partial overlap", window(t, 1, 5), window(t, 3, 8), true},
		{"contained", window(t, 1, 10), window(t, 3, 5), true},
		{"identical", window(t, 1, 5), window(t, 1, 5), true},
		{"disjoint", window(t, 1, 3), window(t, 5, 8), false},
		// Back-to-back bookings share an instant but not an interval.
		{"touching", window(t, 1, 3), window(t, 3, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestWindow_Overlaps_Self(t *testing.T) {
	w := window(t, 1, 5)

	assert.True(t, w.Overlaps(w))
}

func TestWindow_Contains(t *testing.T) {
	w := window(t, 1, 5)

	assert.True(t, w.Contains(w.Start), "start is inside a half-open window")
	assert.True(t, w.Contains(day(3)))
	assert.False(t, w.Contains(w.End), "end is outside a half-open window")
	assert.False(t, w.Contains(day(7)))
}
