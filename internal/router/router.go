package router

import (
	"net/http"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/handler"
	"github.com/actuallystonmai/ranking-service/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Pages struct {
	Index  http.Handler
	Assets http.Handler
	WASM   http.Handler
}

func Setup(h *handler.Handler, pages Pages, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logger.OrNop(log)))
	r.Use(middleware.Recoverer)

	// Harvest runs take longer than the request timeout.
	r.Post("/api/harvest", h.RunHarvest)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Get("/api/rankings/{tag}", h.GetRanking)
		r.Get("/api/harvest/status", h.GetHarvestStatus)
		r.Get("/health", healthCheck)
		r.Handle("/metrics", promhttp.Handler())

		if pages.Index != nil {
			r.Get("/", pages.Index.ServeHTTP)
		}
		if pages.Assets != nil {
			r.Handle("/assets/*", pages.Assets)
		}
		if pages.WASM != nil {
			r.Handle("/wasm/*", pages.WASM)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("remote", r.RemoteAddr))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
