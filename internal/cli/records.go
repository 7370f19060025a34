package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kansen-app/kansen/internal/calendar"
	"github.com/kansen-app/kansen/internal/logger"
	"github.com/kansen-app/kansen/internal/roster"
	"github.com/kansen-app/kansen/internal/stats"
	"github.com/kansen-app/kansen/internal/storage"
)

func (a *app) newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage visit records",
	}
	cmd.AddCommand(a.newRecordAddCmd(), a.newRecordListCmd(), a.newRecordDeleteCmd(), a.newRecordExportCmd())
	return cmd
}

func (a *app) newRecordAddCmd() *cobra.Command {
	var (
		code string
		memo string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record that you attended a game",
		Example: `  kansen record add --game-code 2024-04-14-巨人-阪神 --memo "開幕戦"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			g, err := store.GameByCode(cmd.Context(), code)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no game %q; run kansen scrape for its month first", code)
			}
			if err != nil {
				return err
			}

			rec, err := store.AddRecord(cmd.Context(), g.ID, memo)
			if errors.Is(err, storage.ErrNoStadium) {
				return fmt.Errorf("game %s has no stadium yet", code)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded #%d: %s %s @ %s\n", rec.ID, g.Date, g.Matchup(), rec.Place)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "game-code", "", "Game code (date-home-away)")
	cmd.Flags().StringVar(&memo, "memo", "", "Free-form note")
	cmd.MarkFlagRequired("game-code")
	return cmd
}

func (a *app) newRecordListCmd() *cobra.Command {
	var (
		filter filterFlags
		order  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visit records",
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			sortOrder, err := parseSortOrder(order)
			if err != nil {
				return err
			}
			f, err := filter.resolve()
			if err != nil {
				return err
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Records(cmd.Context())
			if err != nil {
				return err
			}
			records = stats.Apply(records, f)
			sortRecords(records, sortOrder)

			return WriteRecords(cmd.OutOrStdout(), records, f.Team, outFormat)
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVar(&order, "sort", string(SortByDate), "Sort by: date, date-desc, team or stadium")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func (a *app) newRecordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete visit records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil || id <= 0 {
					return fmt.Errorf("invalid record id %q", arg)
				}
				ids = append(ids, id)
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.DeleteRecords(cmd.Context(), ids)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d records.\n", n)
			return nil
		},
	}
}

func (a *app) newRecordExportCmd() *cobra.Command {
	var (
		filter filterFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export visit records as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filter.resolve()
			if err != nil {
				return err
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Records(cmd.Context())
			if err != nil {
				return err
			}
			records = stats.Apply(records, f)
			stats.Sort(records, true)

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}

			n, err := calendar.WriteICS(w, records, time.Now())
			if err != nil {
				return err
			}
			a.log.Info("exported calendar", logger.Fields{"events": n, "output": output})
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "-", "File to write, - for stdout")
	return cmd
}

func (a *app) newStatsCmd() *cobra.Command {
	var (
		filter filterFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your team's record in the games you attended",
		Example: `  kansen stats --team 巨人 --year 2024
  kansen stats --team tigers --opponent giants`,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			f, err := filter.resolve()
			if err != nil {
				return err
			}

			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Records(cmd.Context())
			if err != nil {
				return err
			}
			return WriteSummary(cmd.OutOrStdout(), stats.Compute(records, f), outFormat)
		},
	}

	filter.register(cmd)
	cmd.MarkFlagRequired("team")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}

func (a *app) newTeamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List the twelve NPB teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range roster.Teams() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", t.League, t.Name)
			}
			return nil
		},
	}
}

// filterFlags are the --team, --year and --opponent flags
type filterFlags struct {
	team     string
	year     int
	opponent string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.team, "team", "", "Your team, by name or nickname (e.g. 巨人, giants)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Only games in this season")
	cmd.Flags().StringVar(&f.opponent, "opponent", "", "Only games against this team")
}

func (f *filterFlags) resolve() (stats.Filter, error) {
	out := stats.Filter{Year: f.year}
	if f.team != "" {
		t, ok := roster.Resolve(f.team)
		if !ok {
			return out, fmt.Errorf("unknown team %q", f.team)
		}
		out.Team = t.Name
	}
	if f.opponent != "" {
		t, ok := roster.Resolve(f.opponent)
		if !ok {
			return out, fmt.Errorf("unknown team %q", f.opponent)
		}
		out.Opponent = t.Name
	}
	return out, nil
}
