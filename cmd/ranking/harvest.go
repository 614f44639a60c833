package main

import (
	"encoding/json"
	"fmt"

	"github.com/actuallystonmai/ranking-service/internal/repository"
	"github.com/spf13/cobra"
)

func newHarvestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Rebuild the overall and per-tag rankings once and print the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pool, err := openPool(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			rdb, err := openRedis(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer rdb.Close()

			report := a.newService(repository.New(pool), rdb).Harvest(ctx)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Summary.FailedCount > 0 {
				return fmt.Errorf("%d of %d tags failed", report.Summary.FailedCount, len(report.Results))
			}
			return nil
		},
	}
}
