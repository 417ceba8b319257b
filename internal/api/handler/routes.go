package handler

import (
	"net/http"

	"github.com/vfg2006/marketplace-report-api/infrastructure/repository"
	"github.com/vfg2006/marketplace-report-api/internal/api/handler/router"
	"github.com/vfg2006/marketplace-report-api/internal/scheduler"
	"github.com/vfg2006/marketplace-report-api/internal/usecases/reporting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Reports(service reporting.Reporter, runRepository repository.ReportRunRepository) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/reports/generate",
			Method:  http.MethodPost,
			Handler: GenerateReport(service),
		},
		{
			Path:    "/v1/reports",
			Method:  http.MethodGet,
			Handler: ListReports(runRepository),
		},
		{
			Path:    "/v1/reports/:id",
			Method:  http.MethodGet,
			Handler: GetReport(runRepository),
		},
	}
}

func Ingest(syncService *scheduler.IngestSyncService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/ingest/run",
			Method:  http.MethodPost,
			Handler: RunIngest(syncService),
		},
		{
			Path:    "/v1/ingest/status",
			Method:  http.MethodGet,
			Handler: IngestStatus(syncService),
		},
	}
}
