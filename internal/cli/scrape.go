package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kansen-app/kansen/internal/game"
	"github.com/kansen-app/kansen/internal/logger"
	"github.com/kansen-app/kansen/internal/pipeline"
)

func (a *app) newScrapeCmd() *cobra.Command {
	var (
		year   int
		month  int
		date   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Sync schedule and results for a season or month",
		Long: `Fetch the NPB detail schedule for one month, or every month of a season,
and upsert the games into the store.

Each month is reported on its own line. A month that fails does not stop the
remaining months; the command exits with status 3 when any month failed.`,
		Example: `  kansen scrape --year 2024
  kansen scrape --year 2024 --month 4
  kansen scrape --date 2024-04-14`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}

			date = strings.TrimSpace(date)
			if year == 0 && date != "" {
				// the month is left at 0 so games on the date listed in a
				// neighbouring month's page are still picked up
				if d, err := game.ParseDate(date); err == nil {
					year = d.Year()
				}
			}
			req := pipeline.Request{Year: year, Month: month, TargetDate: date}
			if err := req.Validate(); err != nil {
				return &ExitError{Code: ExitFailure, Err: err}
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, cleanup := a.newService(ctx, store)
			defer cleanup()

			start := time.Now()
			reports, runErr := svc.Run(ctx, req)
			if err := WriteReports(cmd.OutOrStdout(), reports, outFormat, time.Since(start)); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if runErr != nil {
				return &ExitError{Code: ExitFailure, Err: runErr}
			}
			if sum := pipeline.Summarize(reports); sum.Failed > 0 {
				return &ExitError{Code: ExitMonthsFailed, Err: fmt.Errorf("%d of %d months failed", sum.Failed, sum.Months)}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Season year, e.g. 2024 (required unless --date is given)")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (default: every month)")
	cmd.Flags().StringVar(&date, "date", "", "Only store games played on this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func (a *app) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			svc, cleanup := a.newService(ctx, store)
			defer cleanup()

			return a.newServer(svc, store).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (env: HTTP_ADDR)")
	return cmd
}

func (a *app) newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete games no visit record refers to",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.DeleteOrphanGames(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Info("deleted unused games", logger.Fields{"count": n})
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d unused games.\n", n)
			return nil
		},
	}
}
