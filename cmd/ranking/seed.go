package main

import (
	"fmt"

	"github.com/actuallystonmai/ranking-service/internal/repository"
	"github.com/actuallystonmai/ranking-service/seeds"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the rankings with sample articles for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := openPool(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer pool.Close()
			repo := repository.New(pool)

			if !force {
				tags, err := repo.ListTags(ctx)
				if err != nil {
					return fmt.Errorf("check seed: %w", err)
				}
				if len(tags) > 0 {
					a.log.Info("database already seeded, skipping", zap.Strings("tags", tags))
					return nil
				}
			}
			return seeds.Setup(ctx, repo, a.cfg.HarvestTags, a.cfg.RankTrunc, a.log)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace rankings that already exist")
	return cmd
}
