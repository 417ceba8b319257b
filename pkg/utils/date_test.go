package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
		ok       bool
	}{
		{name: "ISO date", value: "2025-03-10", expected: "2025-03-10", ok: true},
		{name: "date with time", value: "2025-03-10 14:30", expected: "2025-03-10", ok: true},
		{name: "date with seconds", value: "2025-03-10 14:30:45", expected: "2025-03-10", ok: true},
		{name: "dotted layout", value: "10.03.2025", expected: "2025-03-10", ok: true},
		{name: "surrounding whitespace", value: "  2025-03-10  ", expected: "2025-03-10", ok: true},
		{name: "empty", value: "", ok: false},
		{name: "garbage", value: "not a date", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := ParseDay(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, d.Format(time.DateOnly))
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := ParseTimestamp("2025-03-10 14:30")
	require.True(t, ok)
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, 30, ts.Minute())

	// Date-only values fall back to midnight.
	ts, ok = ParseTimestamp("2025-03-10")
	require.True(t, ok)
	assert.Zero(t, ts.Hour())

	_, ok = ParseTimestamp("garbage")
	assert.False(t, ok)
}

func TestParsePeriod(t *testing.T) {
	start, end, err := ParsePeriod("10.03.2025 - 16.03.2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", start.Format(time.DateOnly))
	assert.Equal(t, "2025-03-16", end.Format(time.DateOnly))

	_, _, err = ParsePeriod("10.03.2025")
	assert.Error(t, err)

	_, _, err = ParsePeriod("garbage - 16.03.2025")
	assert.Error(t, err)
}
