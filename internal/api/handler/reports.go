package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/marketplace-report-api/infrastructure/repository"
	"github.com/vfg2006/marketplace-report-api/internal/domain"
	"github.com/vfg2006/marketplace-report-api/internal/usecases/reporting"
	"github.com/vfg2006/marketplace-report-api/pkg/apiErrors"
	"github.com/vfg2006/marketplace-report-api/pkg/log"
	"github.com/vfg2006/marketplace-report-api/pkg/utils"
)

type generateReportRequest struct {
	Brand     string `json:"brand"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// GenerateReport builds the report for one brand and period and returns the
// persisted run, including the rendered workbook path.
func GenerateReport(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req generateReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		if req.Brand == "" || req.StartDate == "" || req.EndDate == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "brand, start_date and end_date are required", nil)
			return
		}

		startDate, err := utils.ParseDate(req.StartDate)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "invalid start_date, expected YYYY-MM-DD", nil)
			return
		}
		endDate, err := utils.ParseDate(req.EndDate)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "invalid end_date, expected YYYY-MM-DD", nil)
			return
		}

		period, err := domain.NewPeriod(*startDate, *endDate)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
			return
		}

		logger.WithFields(log.Fields{
			"brand":  req.Brand,
			"period": period.Label(),
		}).Info("reports: generating report")

		run, err := service.GenerateReport(r.Context(), req.Brand, period)
		if err != nil {
			switch {
			case errors.Is(err, reporting.ErrUnknownBrand):
				apiErrors.WriteError(w, apiErrors.ErrUnknownBrand, "unknown brand", nil)
			case errors.Is(err, reporting.ErrNoDataForPeriod):
				apiErrors.WriteError(w, apiErrors.ErrNoDataForPeriod, "no data for the requested period", nil)
			default:
				logger.WithFields(log.Fields{
					"brand":  req.Brand,
					"period": period.Label(),
					"error":  err.Error(),
				}).Error("reports: report generation failed")
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "report generation failed", nil)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(run); err != nil {
			logger.WithError(err).Error("reports: failed to encode response")
		}
	})
}

// ListReports returns the most recent report runs, newest first.
func ListReports(runRepository repository.ReportRunRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be a positive integer", nil)
				return
			}
			limit = parsed
		}

		runs, err := runRepository.List(limit)
		if err != nil {
			logger.WithError(err).Error("reports: failed to list report runs")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "failed to list reports", nil)
			return
		}

		// The list view stays light; bundles are served by the detail route.
		for _, run := range runs {
			run.Bundle = nil
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(runs); err != nil {
			logger.WithError(err).Error("reports: failed to encode response")
		}
	})
}

// GetReport returns one report run with its full bundle.
func GetReport(runRepository repository.ReportRunRepository) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		run, err := runRepository.GetByID(id)
		if err != nil {
			logger.WithFields(log.Fields{
				"report_id": id,
				"error":     err.Error(),
			}).Error("reports: failed to fetch report run")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "failed to fetch report", nil)
			return
		}
		if run == nil {
			apiErrors.WriteError(w, apiErrors.ErrReportNotFound, "report not found", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(run); err != nil {
			logger.WithError(err).Error("reports: failed to encode response")
		}
	})
}
