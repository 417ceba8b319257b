package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/marketplace-report-api/infrastructure/xlsx"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

// Stats summarizes one organizer sweep.
type Stats struct {
	PrimarySales     int `json:"primary_sales"`
	AdvertisingSpend int `json:"advertising_spend"`
	WarehouseStorage int `json:"warehouse_storage"`
	Unrecognized     int `json:"unrecognized"`
	Deleted          int `json:"deleted"`
}

// Organizer sweeps the ingest root: every workbook dropped into the root is
// classified, date-normalized and persisted under the kind-named subfolder,
// and the source files are removed once the whole batch has been processed.
type Organizer struct {
	dataRoot string
}

func NewOrganizer(dataRoot string) *Organizer {
	return &Organizer{dataRoot: dataRoot}
}

// Run processes every workbook in the root of the ingest directory.
// Per-file failures are logged and skipped; source deletion is deferred
// until the batch finishes so a late failure cannot lose unprocessed data.
func (o *Organizer) Run(ctx context.Context) (Stats, error) {
	stats := Stats{}

	if _, err := os.Stat(o.dataRoot); err != nil {
		return stats, errors.Wrapf(err, "ingest root %s not found", o.dataRoot)
	}

	for _, kind := range []domain.FileKind{
		domain.FileKindPrimarySales,
		domain.FileKindAdvertisingSpend,
		domain.FileKindWarehouseStorage,
	} {
		dir := filepath.Join(o.dataRoot, kind.Folder())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return stats, errors.Wrapf(err, "creating %s", dir)
		}
	}

	paths, err := filepath.Glob(filepath.Join(o.dataRoot, "*.xlsx"))
	if err != nil {
		return stats, errors.Wrap(err, "listing ingest root")
	}

	var processed []string

	for _, path := range paths {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		// Excel lock files left behind by an open workbook.
		if strings.HasPrefix(filepath.Base(path), "~$") {
			continue
		}

		kind, ok := o.processFile(path)
		switch kind {
		case domain.FileKindPrimarySales:
			stats.PrimarySales++
		case domain.FileKindAdvertisingSpend:
			stats.AdvertisingSpend++
		case domain.FileKindWarehouseStorage:
			stats.WarehouseStorage++
		default:
			stats.Unrecognized++
		}
		if ok {
			processed = append(processed, path)
		}
	}

	// Deletion is deferred until every file in the batch has been handled.
	for _, path := range processed {
		if err := os.Remove(path); err != nil {
			logrus.WithError(err).WithField("file", filepath.Base(path)).
				Warn("ingest: could not delete source file, it will be retried next run")
			continue
		}
		stats.Deleted++
	}

	logrus.WithFields(logrus.Fields{
		"primary_sales":     stats.PrimarySales,
		"advertising_spend": stats.AdvertisingSpend,
		"warehouse_storage": stats.WarehouseStorage,
		"unrecognized":      stats.Unrecognized,
		"deleted":           stats.Deleted,
	}).Info("ingest: sweep finished")

	return stats, nil
}

// processFile classifies and normalizes one workbook. The returned bool
// reports whether the source may be deleted.
func (o *Organizer) processFile(path string) (domain.FileKind, bool) {
	name := filepath.Base(path)

	table, err := xlsx.ReadTable(path)
	if err != nil {
		logrus.WithError(err).WithField("file", name).Warn("ingest: skipping unreadable workbook")
		return domain.FileKindUnrecognized, false
	}

	kind := Classify(table)
	if kind == domain.FileKindUnrecognized {
		logrus.WithField("file", name).Warn("ingest: unrecognized file schema, skipping")
		return kind, false
	}

	if err := NormalizeDates(table, kind); err != nil {
		if errors.Is(err, ErrDateColumnMissing) {
			// The file keeps its classification but its dates cannot be
			// corrected; persist it unmodified.
			logrus.WithFields(logrus.Fields{
				"file":   name,
				"column": kind.DateColumn(),
			}).Warn("ingest: date column missing, persisting file unmodified")
		} else {
			logrus.WithError(err).WithField("file", name).Warn("ingest: date normalization failed, skipping")
			return kind, false
		}
	}

	target := filepath.Join(o.dataRoot, kind.Folder(), name)
	if err := xlsx.WriteTable(table, target, "Sheet1"); err != nil {
		logrus.WithError(err).WithField("file", name).Warn("ingest: could not persist normalized file")
		return kind, false
	}

	logrus.WithFields(logrus.Fields{
		"file": name,
		"kind": kind.String(),
	}).Info("ingest: file normalized")

	return kind, true
}
