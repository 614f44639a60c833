package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/logger"
	"github.com/actuallystonmai/ranking-service/internal/scheduler"
	"go.uber.org/zap"
)

type RankingService interface {
	GetRanking(ctx context.Context, tag string) ([]domain.Entry, bool, error)
	LastReport() *domain.HarvestReport
}

type HarvestScheduler interface {
	RunNow(ctx context.Context) error
	Snapshot() scheduler.RunState
}

type Handler struct {
	service        RankingService
	scheduler      HarvestScheduler
	log            *zap.Logger
	harvestTimeout time.Duration
}

func NewHandler(svc RankingService, sched HarvestScheduler, log *zap.Logger) *Handler {
	return &Handler{
		service:        svc,
		scheduler:      sched,
		log:            logger.OrNop(log),
		harvestTimeout: 10 * time.Minute,
	}
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
