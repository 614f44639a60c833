package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GET /api/rankings/{tag}
func (h *Handler) GetRanking(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carries one.
	tag := chi.URLParam(r, "tag")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(tag)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid tag parameter")
			return
		}
		tag = unescaped
	}

	entries, cacheHit, err := h.service.GetRanking(r.Context(), tag)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTag) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid tag parameter")
			return
		}
		// Request timeout
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		h.log.Error("get ranking failed", zap.String("tag", tag), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	if cacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, entries)
}
