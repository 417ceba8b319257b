package ingest

import (
	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

// Classify decides the schema family of a loaded dataset from its column
// shape and sentinel columns alone; file names are never consulted. The
// rules are checked in priority order and the first match wins, so the
// function is total: every input maps to exactly one FileKind.
func Classify(table *domain.Table) domain.FileKind {
	count := table.ColumnCount()

	switch {
	case count < 10 && table.HasColumn(domain.ColCampaignID):
		return domain.FileKindAdvertisingSpend
	case count > 20 && count < 30 && table.HasColumn(domain.ColWarehouseNumber):
		return domain.FileKindWarehouseStorage
	case count > 50:
		return domain.FileKindPrimarySales
	default:
		return domain.FileKindUnrecognized
	}
}
