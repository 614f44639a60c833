package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/actuallystonmai/ranking-service/internal/scheduler"
	"go.uber.org/zap"
)

// GET /api/harvest/status
func (h *Handler) GetHarvestStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HarvestStatusResponse{
		State:      h.scheduler.Snapshot(),
		LastReport: h.service.LastReport(),
	})
}

// POST /api/harvest
// The run is detached from request cancellation.
func (h *Handler) RunHarvest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.harvestTimeout)
	defer cancel()

	if err := h.scheduler.RunNow(ctx); err != nil {
		if errors.Is(err, scheduler.ErrHarvestAlreadyRunning) || errors.Is(err, scheduler.ErrHarvestCooldown) {
			writeError(w, http.StatusConflict, "harvest_conflict", err.Error())
			return
		}
		// Per-tag failures are part of the report.
		h.log.Warn("manual harvest failed", zap.Error(err))
	}

	writeJSON(w, http.StatusOK, HarvestStatusResponse{
		State:      h.scheduler.Snapshot(),
		LastReport: h.service.LastReport(),
	})
}
