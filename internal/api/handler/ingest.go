package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vfg2006/marketplace-report-api/internal/scheduler"
	"github.com/vfg2006/marketplace-report-api/pkg/apiErrors"
	"github.com/vfg2006/marketplace-report-api/pkg/log"
)

// RunIngest triggers an ingest sweep outside the cron schedule. The sweep
// runs in the background; a sweep already in progress makes this a no-op.
func RunIngest(syncService *scheduler.IngestSyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		if syncService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "ingest service not available", nil)
			return
		}

		logger.Info("ingest: manual sweep requested")
		syncService.TriggerManualSync()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "ingest sweep started",
		})
	})
}

// IngestStatus reports the scheduler state and the stats of the last sweep.
func IngestStatus(syncService *scheduler.IngestSyncService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if syncService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "ingest service not available", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(syncService.GetStatus())
	})
}
