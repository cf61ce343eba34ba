package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalDay(t *testing.T) {
	cases := map[string]string{
		"monday": "monday",
		"Mon":    "monday",
		"tue":    "tuesday",
		"THU":    "thursday",
		"thur":   "thursday",
		"sun":    "sunday",
	}
	for in, want := range cases {
		got, err := CanonicalDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := CanonicalDay("moonday")
	assert.ErrorIs(t, err, ErrUnknownDay)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewScheduleAutoLabels(t *testing.T) {
	s, err := NewSchedule(nil, []float64{0, 2, 7.5})
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, "monday", s[0].Name)
	assert.Equal(t, "wednesday", s[2].Name)
	assert.Equal(t, 9.5, s.Total())
}

func TestNewScheduleExplicitNames(t *testing.T) {
	s, err := NewSchedule([]string{"wed", "fri"}, []float64{4, 6})
	require.NoError(t, err)
	assert.Equal(t, "wednesday", s[0].Name)
	assert.Equal(t, "friday", s[1].Name)
}

func TestNewScheduleRejectsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		days  []string
		hours []float64
		err   error
	}{
		{"empty hours", nil, nil, ErrNoHours},
		{"negative hours", nil, []float64{1, -2}, ErrNegativeHours},
		{"count mismatch", []string{"mon"}, []float64{1, 2}, ErrDayCount},
		{"duplicate day", []string{"mon", "monday"}, []float64{1, 2}, ErrDuplicateDay},
		{"unknown day", []string{"mon", "someday"}, []float64{1, 2}, ErrUnknownDay},
		{"too many unlabelled days", nil, []float64{1, 1, 1, 1, 1, 1, 1, 1}, ErrDayCount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSchedule(tc.days, tc.hours)
			assert.ErrorIs(t, err, tc.err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
