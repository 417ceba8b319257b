package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

func TestIsWeekly(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected bool
	}{
		{
			name:     "seven distinct days is daily",
			values:   []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14", "2025-03-15", "2025-03-16"},
			expected: false,
		},
		{
			name:     "eight distinct days is weekly",
			values:   []string{"2025-03-09", "2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14", "2025-03-15", "2025-03-16"},
			expected: true,
		},
		{
			name:     "repeated dates count once",
			values:   []string{"2025-03-10", "2025-03-10", "2025-03-10", "2025-03-11"},
			expected: false,
		},
		{
			name:     "unparseable values are ignored",
			values:   []string{"not a date", "", "2025-03-10"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWeekly(tt.values))
		})
	}
}

func TestAdjustDailyDates(t *testing.T) {
	tests := []struct {
		name     string
		values   []string
		expected []string
	}{
		{
			name:     "neighbors of the anchor date are folded onto it",
			values:   []string{"2025-03-10", "2025-03-10", "2025-03-09", "2025-03-11"},
			expected: []string{"2025-03-10", "2025-03-10", "2025-03-10", "2025-03-10"},
		},
		{
			name:     "dates outside the one-day window are untouched",
			values:   []string{"2025-03-10", "2025-03-10", "2025-03-01", "2025-03-20"},
			expected: []string{"2025-03-10", "2025-03-10", "2025-03-01", "2025-03-20"},
		},
		{
			name:     "unparseable values become the empty marker",
			values:   []string{"2025-03-10", "2025-03-10", "garbage", ""},
			expected: []string{"2025-03-10", "2025-03-10", "", ""},
		},
		{
			name:     "frequency ties break on first occurrence",
			values:   []string{"2025-03-09", "2025-03-10"},
			expected: []string{"2025-03-09", "2025-03-09"},
		},
		{
			name:     "other layouts are reformatted to ISO",
			values:   []string{"10.03.2025", "10.03.2025", "2025-03-10 14:30"},
			expected: []string{"2025-03-10", "2025-03-10", "2025-03-10"},
		},
		{
			name:     "no parseable dates leaves the column alone",
			values:   []string{"garbage", "more garbage"},
			expected: []string{"garbage", "more garbage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AdjustDailyDates(tt.values))
		})
	}
}

func TestAdjustWeeklyDates(t *testing.T) {
	// Week is 2025-03-10 .. 2025-03-16; only 2025-03-09 is rewritten.
	values := []string{
		"2025-03-16",
		"2025-03-10",
		"2025-03-09",
		"2025-03-08",
		"2025-03-12",
		"garbage",
	}
	expected := []string{
		"2025-03-16",
		"2025-03-10",
		"2025-03-10",
		"2025-03-08",
		"2025-03-12",
		"",
	}

	assert.Equal(t, expected, AdjustWeeklyDates(values))
}

func TestNormalizeDatesMissingColumn(t *testing.T) {
	table := domain.NewTable([]string{"Бренд"})

	err := NormalizeDates(table, domain.FileKindPrimarySales)
	assert.ErrorIs(t, err, ErrDateColumnMissing)
}

func TestNormalizeDatesUnrecognizedKind(t *testing.T) {
	table := domain.NewTable([]string{"Бренд"})

	err := NormalizeDates(table, domain.FileKindUnrecognized)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDateColumnMissing)
}

func TestNormalizeDatesSales(t *testing.T) {
	table := domain.NewTable([]string{domain.ColSaleDate})
	for _, v := range []string{"2025-03-10", "2025-03-10", "2025-03-09", "bad"} {
		table.Append(domain.Row{domain.ColSaleDate: v})
	}

	err := NormalizeDates(table, domain.FileKindPrimarySales)
	require.NoError(t, err)

	var got []string
	for _, row := range table.Rows {
		got = append(got, row[domain.ColSaleDate])
	}
	assert.Equal(t, []string{"2025-03-10", "2025-03-10", "2025-03-10", ""}, got)
}

func TestNormalizeDatesAdvertisingKeepsTimeOfDay(t *testing.T) {
	table := domain.NewTable([]string{domain.ColDebitDate, domain.ColAdAmount})
	for _, v := range []string{"2025-03-10 12:30", "2025-03-09 23:59", "2025-03-10"} {
		table.Append(domain.Row{domain.ColDebitDate: v, domain.ColAdAmount: "10"})
	}

	err := NormalizeDates(table, domain.FileKindAdvertisingSpend)
	require.NoError(t, err)

	// Rows come out chronologically sorted; dates are folded onto the
	// anchor day while the time of day survives (00:00 when absent).
	var got []string
	for _, row := range table.Rows {
		got = append(got, row[domain.ColDebitDate])
	}
	assert.Equal(t, []string{"2025-03-10 23:59", "2025-03-10 00:00", "2025-03-10 12:30"}, got)
}
