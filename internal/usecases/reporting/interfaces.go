package reporting

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

// ErrNoDataForPeriod marks a report request for which a mandatory file kind
// (primary sales or advertising spend) produced no rows inside the period.
// The request is aborted rather than producing an empty report.
var ErrNoDataForPeriod = errors.New("no data for the requested period")

// ErrUnknownBrand marks a request for a brand that is not configured.
var ErrUnknownBrand = errors.New("unknown brand")

// Reporter generates the financial report for one brand and period.
type Reporter interface {
	GenerateReport(ctx context.Context, brand string, period domain.Period) (*domain.ReportRun, error)
}

// NormalizedFile is one normalized dataset, tagged with the kind it was
// ingested as (the kind-named folder it was persisted into).
type NormalizedFile struct {
	Kind  domain.FileKind
	Path  string
	Table *domain.Table
}
