package reporting

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/marketplace-report-api/internal/catalog"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
	"github.com/vfg2006/marketplace-report-api/pkg/utils"
)

// FilteredData is the brand- and period-scoped row sets a report is built
// from. Storage is optional; when nil only the summary report variant is
// available.
type FilteredData struct {
	Sales   *domain.Table
	Ads     *domain.Table
	Storage *domain.Table
}

// PeriodFilter selects the rows of the normalized datasets that belong to
// the requested brand and fall inside the requested period.
type PeriodFilter struct {
	catalogStore *catalog.Store
}

func NewPeriodFilter(catalogStore *catalog.Store) *PeriodFilter {
	return &PeriodFilter{catalogStore: catalogStore}
}

// Filter applies brand and period selection to every normalized file and
// concatenates the surviving fragments per kind, deduplicated by full-row
// equality. Files yielding zero rows are dropped entirely. When a mandatory
// kind (sales or advertising) ends up empty the request cannot proceed and
// ErrNoDataForPeriod is returned.
func (f *PeriodFilter) Filter(files []NormalizedFile, brand string, period domain.Period) (*FilteredData, error) {
	data := &FilteredData{}

	for _, file := range files {
		fragment := f.filterFile(file, brand, period)
		if fragment == nil || fragment.Empty() {
			continue
		}

		switch file.Kind {
		case domain.FileKindPrimarySales:
			data.Sales = appendFragment(data.Sales, fragment)
		case domain.FileKindAdvertisingSpend:
			data.Ads = appendFragment(data.Ads, fragment)
		case domain.FileKindWarehouseStorage:
			data.Storage = appendFragment(data.Storage, fragment)
		}
	}

	if data.Sales == nil || data.Ads == nil {
		return nil, ErrNoDataForPeriod
	}

	data.Sales.Deduplicate()
	data.Ads.Deduplicate()
	if data.Storage != nil {
		data.Storage.Deduplicate()
	}

	return data, nil
}

func (f *PeriodFilter) filterFile(file NormalizedFile, brand string, period domain.Period) *domain.Table {
	table := file.Table

	// Brand scoping: a declared brand column filters rows; otherwise the
	// whole file is attributed to one inferred brand and either kept or
	// skipped entirely.
	if table.HasColumn(domain.ColBrand) {
		table = filterRows(table, func(row domain.Row) bool {
			return row[domain.ColBrand] == brand
		})
		if table.Empty() {
			return nil
		}
	} else if inferred := f.catalogStore.InferBrand(table); inferred != brand {
		logrus.WithFields(logrus.Fields{
			"file":     filepath.Base(file.Path),
			"inferred": inferred,
			"brand":    brand,
		}).Debug("reporting: file belongs to another brand, skipping")
		return nil
	}

	switch file.Kind {
	case domain.FileKindAdvertisingSpend:
		// The debit column carries time of day, so the end boundary is an
		// exclusive "end + 1 day" cutoff.
		return filterRows(table, func(row domain.Row) bool {
			ts, ok := utils.ParseTimestamp(row[domain.ColDebitDate])
			return ok && period.ContainsTimestamp(ts)
		})
	case domain.FileKindWarehouseStorage:
		return filterRows(table, func(row domain.Row) bool {
			d, ok := utils.ParseDay(row[domain.ColStorageDate])
			return ok && period.ContainsDate(d)
		})
	case domain.FileKindPrimarySales:
		// A row is kept when any of its date-bearing columns falls inside
		// the period.
		dateColumns := salesDateColumns(table)
		return filterRows(table, func(row domain.Row) bool {
			for _, col := range dateColumns {
				if d, ok := utils.ParseDay(row[col]); ok && period.ContainsDate(d) {
					return true
				}
			}
			return false
		})
	default:
		return nil
	}
}

func salesDateColumns(table *domain.Table) []string {
	candidates := []string{
		domain.ColOrderDate,
		domain.ColSaleDate,
		domain.ColFixationStart,
		domain.ColFixationEnd,
	}
	columns := make([]string, 0, len(candidates))
	for _, col := range candidates {
		if table.HasColumn(col) {
			columns = append(columns, col)
		}
	}
	return columns
}

func filterRows(table *domain.Table, keep func(domain.Row) bool) *domain.Table {
	out := domain.NewTable(table.Columns)
	for _, row := range table.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

func appendFragment(dst, fragment *domain.Table) *domain.Table {
	if dst == nil {
		out := domain.NewTable(fragment.Columns)
		out.Rows = append(out.Rows, fragment.Rows...)
		return out
	}
	dst.Concat(fragment)
	return dst
}
