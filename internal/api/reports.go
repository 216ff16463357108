package api

import (
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cargotrack/internal/report"
	"cargotrack/internal/store"
)

// ReportsHandler serves the transit status report.
type ReportsHandler struct {
	DB  *sql.DB
	Log *zap.Logger
}

// Transit handles GET /api/reports/transit.
func (h *ReportsHandler) Transit(w http.ResponseWriter, r *http.Request) {
	owner := GetUser(r.Context())

	containers, err := store.ListContainers(r.Context(), h.DB, owner.ID)
	if err != nil {
		h.Log.Error("listing containers for report", zap.String("owner", owner.ID), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	jsonResponse(w, http.StatusOK, report.Build(containers, time.Now()))
}
