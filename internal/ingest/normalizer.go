package ingest

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/marketplace-report-api/internal/domain"
	"github.com/vfg2006/marketplace-report-api/pkg/utils"
)

// ErrDateColumnMissing marks a classified file whose expected date column is
// absent; the caller passes such a file through unmodified instead of
// aborting the batch.
var ErrDateColumnMissing = errors.New("expected date column is missing")

const dateLayout = "2006-01-02"

// IsWeekly classifies the reporting window of a file: more than 7 distinct
// calendar dates means a weekly export, otherwise daily.
func IsWeekly(values []string) bool {
	distinct := make(map[time.Time]struct{})
	for _, v := range values {
		if d, ok := utils.ParseDay(v); ok {
			distinct[d] = struct{}{}
		}
	}
	return len(distinct) > 7
}

// AdjustDailyDates corrects export-boundary noise in a daily file. The most
// frequent calendar date is "today" (ties broken by first occurrence); every
// date within [today-1, today+1] is rewritten to today, dates outside that
// window are reformatted but otherwise untouched, and unparseable values
// become the explicit empty marker.
func AdjustDailyDates(values []string) []string {
	type freq struct {
		date  time.Time
		count int
		first int
	}
	counts := make(map[time.Time]*freq)
	for i, v := range values {
		d, ok := utils.ParseDay(v)
		if !ok {
			continue
		}
		if f, exists := counts[d]; exists {
			f.count++
		} else {
			counts[d] = &freq{date: d, count: 1, first: i}
		}
	}

	if len(counts) == 0 {
		logrus.Warn("ingest: no valid dates to normalize")
		return values
	}

	var mode *freq
	for _, f := range counts {
		if mode == nil || f.count > mode.count || (f.count == mode.count && f.first < mode.first) {
			mode = f
		}
	}

	today := mode.date
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	logrus.WithFields(logrus.Fields{
		"today":       today.Format(dateLayout),
		"occurrences": mode.count,
		"rows":        len(values),
	}).Info("ingest: daily report anchor date determined")

	out := make([]string, len(values))
	for i, v := range values {
		d, ok := utils.ParseDay(v)
		switch {
		case !ok:
			out[i] = ""
		case !d.Before(yesterday) && !d.After(tomorrow):
			out[i] = today.Format(dateLayout)
		default:
			out[i] = d.Format(dateLayout)
		}
	}
	return out
}

// AdjustWeeklyDates corrects a weekly file: the maximum date is the week
// end, week start is week end minus 6 days, and the single day immediately
// before week start is rewritten onto week start. This is a one-day
// boundary-noise correction, not a clamp; everything else is untouched.
func AdjustWeeklyDates(values []string) []string {
	var weekEnd time.Time
	found := false
	for _, v := range values {
		if d, ok := utils.ParseDay(v); ok && (!found || d.After(weekEnd)) {
			weekEnd = d
			found = true
		}
	}

	if !found {
		logrus.Warn("ingest: cannot determine the week end date")
		return values
	}

	weekStart := weekEnd.AddDate(0, 0, -6)
	dayBefore := weekStart.AddDate(0, 0, -1)

	logrus.WithFields(logrus.Fields{
		"week_start": weekStart.Format(dateLayout),
		"week_end":   weekEnd.Format(dateLayout),
	}).Info("ingest: weekly report window determined")

	out := make([]string, len(values))
	for i, v := range values {
		d, ok := utils.ParseDay(v)
		switch {
		case !ok:
			out[i] = ""
		case d.Before(weekStart) && !d.Before(dayBefore):
			out[i] = weekStart.Format(dateLayout)
		default:
			out[i] = d.Format(dateLayout)
		}
	}
	return out
}

// NormalizeDates rewrites the primary date column of a classified dataset in
// place. Advertising files carry date+time in one column: the correction
// runs on the date portion only and the original time of day is re-attached
// unchanged (defaulting to 00:00 when absent).
func NormalizeDates(table *domain.Table, kind domain.FileKind) error {
	column := kind.DateColumn()
	if column == "" {
		return errors.Errorf("file kind %s has no date column", kind)
	}
	if !table.HasColumn(column) {
		return ErrDateColumnMissing
	}

	if kind == domain.FileKindAdvertisingSpend {
		normalizeTimestampColumn(table, column)
		return nil
	}

	values := columnValues(table, column)
	values = adjustWindow(values)
	for i, row := range table.Rows {
		row[column] = values[i]
	}
	return nil
}

func normalizeTimestampColumn(table *domain.Table, column string) {
	// Stable sort by timestamp first so the frequency pass sees rows in
	// chronological order.
	sort.SliceStable(table.Rows, func(i, j int) bool {
		return table.Rows[i][column] < table.Rows[j][column]
	})

	dates := make([]string, len(table.Rows))
	times := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		parts := strings.Fields(row[column])
		if len(parts) > 0 {
			dates[i] = parts[0]
		}
		if len(parts) > 1 {
			times[i] = parts[1]
		} else {
			times[i] = "00:00"
		}
	}

	dates = adjustWindow(dates)

	for i, row := range table.Rows {
		if dates[i] == "" {
			row[column] = ""
			continue
		}
		row[column] = dates[i] + " " + times[i]
	}
}

func adjustWindow(values []string) []string {
	if IsWeekly(values) {
		return AdjustWeeklyDates(values)
	}
	return AdjustDailyDates(values)
}

func columnValues(table *domain.Table, column string) []string {
	values := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		values[i] = row[column]
	}
	return values
}
