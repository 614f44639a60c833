package main

import (
	"context"

	"github.com/actuallystonmai/ranking-service/internal/repository"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or drop the rankings table",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.migrate(cmd.Context(), (*repository.Repository).MigrateUp, "migrations applied")
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Drop the rankings table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.migrate(cmd.Context(), (*repository.Repository).MigrateDown, "migrations dropped")
			},
		},
	)
	return cmd
}

func (a *app) migrate(ctx context.Context, step func(*repository.Repository, context.Context) error, done string) error {
	pool, err := openPool(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := step(repository.New(pool), ctx); err != nil {
		return err
	}
	a.log.Info(done)
	return nil
}
