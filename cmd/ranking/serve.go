package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/handler"
	"github.com/actuallystonmai/ranking-service/internal/repository"
	"github.com/actuallystonmai/ranking-service/internal/router"
	"github.com/actuallystonmai/ranking-service/internal/scheduler"
	"github.com/actuallystonmai/ranking-service/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking API and page, harvesting daily at HARVEST_TIME",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply migrations before serving")
	return cmd
}

func (a *app) serve(ctx context.Context, migrate bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ------------ PostgreSQL ---------------
	pool, err := openPool(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer pool.Close()
	repo := repository.New(pool)

	if migrate {
		if err := repo.MigrateUp(ctx); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}

	// ------------ Redis ---------------
	rdb, err := openRedis(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// ------------ Harvester ---------------
	svc := a.newService(repo, rdb)
	sched := scheduler.New(a.cfg.HarvestTime, svc, a.log)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	// ---------------- Server --------------------
	index, err := web.NewIndex(a.cfg.HarvestTags, a.cfg.APIBaseURL)
	if err != nil {
		return err
	}
	pages := router.Pages{
		Index:  index,
		Assets: web.AssetsHandler(),
		WASM:   web.WASMHandler(a.cfg.WASMDir),
	}
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           router.Setup(handler.NewHandler(svc, sched, a.log), pages, a.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
	}()

	a.log.Info("server running", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.log.Info("server stopped")
	return nil
}
