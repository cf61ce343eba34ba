package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolutionValidate(t *testing.T) {
	for _, r := range []Resolution{1, 0.5, 0.25, 0.2, 0.1, 0.05, 0.01, 0.001} {
		assert.NoError(t, r.Validate(), "resolution %v", r)
	}
	for _, r := range []Resolution{0, -0.5, 0.3, 0.7, 1.5} {
		err := r.Validate()
		assert.ErrorIs(t, err, ErrResolution, "resolution %v", r)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestSnapHalfHour(t *testing.T) {
	r := Resolution(0.5)
	assert.Equal(t, 1.0, r.Snap(1.2))
	assert.Equal(t, 1.5, r.Snap(1.3))
	assert.Equal(t, 1.5, r.Snap(1.7))
	assert.Equal(t, 2.0, r.Snap(1.8))
	// Half values round up, not to even.
	assert.Equal(t, 1.5, r.Snap(1.25))
	assert.Equal(t, 2.0, r.Snap(1.75))
}

func TestSnapQuarterHour(t *testing.T) {
	r := Resolution(0.25)
	assert.Equal(t, 1.0, r.Snap(1.1))
	assert.Equal(t, 1.25, r.Snap(1.15))
	assert.Equal(t, 1.5, r.Snap(1.4))
}

func TestSnapFineResolution(t *testing.T) {
	r := Resolution(0.01)
	assert.InDelta(t, 1.23, r.Snap(1.234), 1e-9)
	assert.InDelta(t, 1.24, r.Snap(1.236), 1e-9)
	assert.InDelta(t, 0.57, r.Snap(0.567), 1e-9)
}

func TestSnapWholeHour(t *testing.T) {
	r := Resolution(1.0)
	assert.Equal(t, 0.0, r.Snap(0.4))
	assert.Equal(t, 1.0, r.Snap(0.5))
	assert.Equal(t, 1.0, r.Snap(0.6))
	assert.Equal(t, 1.0, r.Snap(1.4))
	assert.Equal(t, 2.0, r.Snap(1.6))
}

func TestDecimalPlaces(t *testing.T) {
	cases := map[Resolution]int{
		1:     0,
		0.5:   1,
		0.2:   1,
		0.25:  2,
		0.01:  2,
		0.001: 3,
	}
	for r, want := range cases {
		assert.Equal(t, want, r.DecimalPlaces(), "resolution %v", r)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "4.5", Resolution(0.5).Format(4.5))
	assert.Equal(t, "4.50", Resolution(0.25).Format(4.5))
	assert.Equal(t, "5", Resolution(1).Format(4.6))
}
