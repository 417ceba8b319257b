package xlsx

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

// ReadTable loads the first sheet of a workbook into a Table. The header row
// supplies the column names (trimmed of surrounding whitespace); cells past
// the header width are dropped, missing trailing cells become empty strings.
func ReadTable(path string) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening workbook %s", path)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q of %s", sheet, path)
	}

	if len(rows) == 0 {
		return domain.NewTable(nil), nil
	}

	table := domain.NewTable(rows[0])
	for _, raw := range rows[1:] {
		row := make(domain.Row, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
