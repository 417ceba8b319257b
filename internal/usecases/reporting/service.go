package reporting

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/marketplace-report-api/infrastructure/currency"
	"github.com/vfg2006/marketplace-report-api/infrastructure/repository"
	"github.com/vfg2006/marketplace-report-api/infrastructure/xlsx"
	"github.com/vfg2006/marketplace-report-api/internal/catalog"
	"github.com/vfg2006/marketplace-report-api/internal/config"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
	"github.com/vfg2006/marketplace-report-api/pkg/utils"
)

// Service implements Reporter on top of the normalized data folders: it
// loads the kind-tagged files, scopes them to brand and period, assembles
// the bundle, renders the workbook(s) and persists the run.
type Service struct {
	cfg           *config.Config
	catalogStore  *catalog.Store
	filter        *PeriodFilter
	assembler     *Assembler
	runRepository repository.ReportRunRepository
}

func NewService(
	cfg *config.Config,
	catalogStore *catalog.Store,
	converter currency.Converter,
	runRepository repository.ReportRunRepository,
) *Service {
	return &Service{
		cfg:           cfg,
		catalogStore:  catalogStore,
		filter:        NewPeriodFilter(catalogStore),
		assembler:     NewAssembler(cfg, converter),
		runRepository: runRepository,
	}
}

// GenerateReport builds the report for one brand and period. The summary
// workbook is always produced; when storage data is present for the period
// the detailed workbook is produced next to it and its bundle is the one
// persisted with the run.
func (s *Service) GenerateReport(ctx context.Context, brand string, period domain.Period) (*domain.ReportRun, error) {
	if !domain.IsKnownBrand(brand) {
		return nil, ErrUnknownBrand
	}

	files, err := s.loadNormalizedFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoDataForPeriod
	}

	products, err := s.catalogStore.LoadMerged()
	if err != nil {
		return nil, err
	}

	data, err := s.filter.Filter(files, brand, period)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "report generation aborted")
	}

	outputDir := filepath.Join(s.cfg.Report.OutputRoot, brand, period.Label())

	bundle := s.assembler.Assemble(data, products, brand, period, false)
	reportPath := filepath.Join(outputDir, "report.xlsx")
	if err := xlsx.WriteBundle(bundle, reportPath); err != nil {
		return nil, err
	}

	if data.Storage != nil {
		detailed := s.assembler.Assemble(data, products, brand, period, true)
		if err := xlsx.WriteBundle(detailed, filepath.Join(outputDir, "detailed_report.xlsx")); err != nil {
			return nil, err
		}
		bundle = detailed
	}

	if len(bundle.MissingSalesDates) > 0 || len(bundle.MissingAdDates) > 0 {
		logrus.WithFields(logrus.Fields{
			"brand":              brand,
			"period":             period.Label(),
			"missing_sales_days": bundle.MissingSalesDates,
			"missing_ad_days":    bundle.MissingAdDates,
		}).Warn("reporting: period has days without data")
	}

	externalID, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "generating report external ID")
	}

	run := &domain.ReportRun{
		ID:          uuid.NewString(),
		ExternalID:  externalID,
		Brand:       brand,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Detailed:    bundle.Detailed,
		Bundle:      bundle,
		ReportPath:  reportPath,
	}

	if err := s.runRepository.Save(run); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"report_id": run.ID,
		"brand":     brand,
		"period":    period.Label(),
		"detailed":  run.Detailed,
		"path":      reportPath,
	}).Info("reporting: report generated")

	return run, nil
}

// loadNormalizedFiles reads every workbook under the kind-named folders of
// the data root. The folder name is the persisted classification, so no
// re-classification happens here.
func (s *Service) loadNormalizedFiles() ([]NormalizedFile, error) {
	kinds := []domain.FileKind{
		domain.FileKindPrimarySales,
		domain.FileKindAdvertisingSpend,
		domain.FileKindWarehouseStorage,
	}

	var files []NormalizedFile
	for _, kind := range kinds {
		pattern := filepath.Join(s.cfg.Ingest.DataRoot, kind.Folder(), "*.xlsx")
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s", pattern)
		}

		for _, path := range matches {
			if strings.HasPrefix(filepath.Base(path), "~$") {
				continue
			}
			table, err := xlsx.ReadTable(path)
			if err != nil {
				logrus.WithError(err).WithField("file", path).Warn("reporting: skipping unreadable file")
				continue
			}
			files = append(files, NormalizedFile{Kind: kind, Path: path, Table: table})
		}
	}

	return files, nil
}
