package main

import (
	"fmt"

	"github.com/actuallystonmai/ranking-service/internal/cache"
	"github.com/actuallystonmai/ranking-service/internal/config"
	"github.com/actuallystonmai/ranking-service/internal/logger"
	"github.com/actuallystonmai/ranking-service/internal/qiita"
	"github.com/actuallystonmai/ranking-service/internal/repository"
	"github.com/actuallystonmai/ranking-service/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ranking",
		Short: "Qiita article ranking service",
		Long: `ranking harvests popular Qiita articles into per-tag rankings and serves
them to the ranking page.

Example usage:
  ranking migrate up     # Create the rankings table
  ranking harvest        # Rebuild every ranking once
  ranking serve          # Serve the API and page, harvesting daily
  ranking render go      # Print the rendered go ranking`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newHarvestCmd(a),
		newMigrateCmd(a),
		newSeedCmd(a),
		newRenderCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) newService(repo *repository.Repository, rdb *redis.Client) *service.Service {
	source := qiita.New(a.cfg.QiitaBaseURL, a.cfg.QiitaToken, a.cfg.HTTPTimeout, a.log)
	return service.NewService(repo, cache.NewCache(rdb, a.cfg.CacheTTL), source, service.HarvestConfig{
		Tags:        a.cfg.HarvestTags,
		MaxPage:     a.cfg.HarvestMaxPage,
		PerPage:     a.cfg.HarvestPerPage,
		Stocks:      a.cfg.HarvestStocks,
		TargetDays:  a.cfg.HarvestTargetDays,
		RankTrunc:   a.cfg.RankTrunc,
		Concurrency: a.cfg.HarvestConcurrency,
	}, a.log)
}
