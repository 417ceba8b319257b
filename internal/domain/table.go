package domain

import "strings"

// Row is a single record of a loaded workbook sheet, keyed by column name.
type Row map[string]string

// Table is an in-memory tabular dataset: ordered columns plus rows.
// Column names are trimmed of surrounding whitespace at load time.
type Table struct {
	Columns []string
	Rows    []Row
}

func NewTable(columns []string) *Table {
	trimmed := make([]string, len(columns))
	for i, c := range columns {
		trimmed[i] = strings.TrimSpace(c)
	}
	return &Table{Columns: trimmed}
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnCount returns the number of declared columns.
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// Append adds a row. Values for undeclared columns are dropped.
func (t *Table) Append(row Row) {
	kept := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		kept[c] = row[c]
	}
	t.Rows = append(t.Rows, kept)
}

// Key serializes the row over the given column order. Two rows with the
// same key are considered equal for deduplication purposes.
func (r Row) Key(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = r[c]
	}
	return strings.Join(parts, "\x1f")
}

// Deduplicate removes rows that are equal across every declared column,
// keeping the first occurrence. Row order is otherwise preserved.
func (t *Table) Deduplicate() {
	seen := make(map[string]struct{}, len(t.Rows))
	out := t.Rows[:0]
	for _, row := range t.Rows {
		key := row.Key(t.Columns)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	t.Rows = out
}

// Concat appends the rows of other into t. The column set of t wins; values
// in columns t does not declare are dropped.
func (t *Table) Concat(other *Table) {
	for _, row := range other.Rows {
		t.Append(row)
	}
}

// Empty reports whether the table holds no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}
