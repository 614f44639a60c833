package main

import (
	"fmt"

	"github.com/actuallystonmai/ranking-service/internal/client"
	"github.com/actuallystonmai/ranking-service/internal/controller"
	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/page"
	"github.com/actuallystonmai/ranking-service/internal/render"
	"github.com/spf13/cobra"
)

func newRenderCmd(a *app) *cobra.Command {
	var sanitize bool
	cmd := &cobra.Command{
		Use:   "render [tag]",
		Short: "Fetch a ranking from API_BASE_URL and print the markup the page would show",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag := domain.OverallTag
			if len(args) == 1 {
				tag = args[0]
			}

			renderer := render.New()
			if sanitize {
				renderer = render.NewSafe()
			}
			target := page.NewHeadless(false)
			ctrl := controller.New(
				client.New(a.cfg.APIBaseURL, a.cfg.HTTPTimeout),
				renderer,
				target,
				target,
				controller.Options{Timeout: a.cfg.HTTPTimeout},
				a.log,
			)

			if err := ctrl.Load(cmd.Context(), tag); err != nil {
				return fmt.Errorf("render %s: %w", tag, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), target.HTML())
			return nil
		},
	}
	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "strip markup from titles and tag names")
	return cmd
}
