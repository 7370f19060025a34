package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kansen-app/kansen/internal/game"
	"github.com/kansen-app/kansen/internal/pipeline"
	"github.com/kansen-app/kansen/internal/stats"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// ScrapeResult is the JSON document printed by the scrape command
type ScrapeResult struct {
	CheckedAt time.Time              `json:"checked_at"`
	Duration  string                 `json:"duration"`
	Summary   pipeline.Summary       `json:"summary"`
	Months    []pipeline.MonthReport `json:"months"`
}

// WriteReports writes one entry per month followed by a total
func WriteReports(w io.Writer, reports []pipeline.MonthReport, format OutputFormat, elapsed time.Duration) error {
	sum := pipeline.Summarize(reports)

	if format == FormatJSON {
		if reports == nil {
			reports = []pipeline.MonthReport{}
		}
		return writeJSON(w, ScrapeResult{
			CheckedAt: time.Now().UTC(),
			Duration:  elapsed.Round(time.Millisecond).String(),
			Summary:   sum,
			Months:    reports,
		})
	}

	for _, r := range reports {
		fmt.Fprintln(w, r.String())
	}
	if len(reports) > 0 {
		fmt.Fprintf(w, "\nTotal: %d reconciled across %d months", sum.Reconciled, sum.Months)
		if sum.Failed > 0 {
			fmt.Fprintf(w, " (%d failed)", sum.Failed)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// WriteRecords lists visit records. When team is set each game is marked
// with the team's result.
func WriteRecords(w io.Writer, records []*game.Record, team string, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return nil
	}

	for _, r := range records {
		g := r.Game
		if g == nil {
			fmt.Fprintf(w, "#%-4d (game unavailable) @ %s\n", r.ID, r.Place)
			continue
		}
		fmt.Fprintf(w, "#%-4d %s %s%s %s @ %s", r.ID, g.Date, resultMark(g, team), g.Matchup(), g.ScoreLine(), r.Place)
		if g.WinningPitcher.Known() || g.LosingPitcher.Known() {
			fmt.Fprintf(w, " [勝 %s / 敗 %s]", g.WinningPitcher, g.LosingPitcher)
		}
		if r.Memo != "" {
			fmt.Fprintf(w, " - %s", r.Memo)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\nTotal: %d records\n", len(records))
	return nil
}

func resultMark(g *game.Game, team string) string {
	if team == "" {
		return ""
	}
	switch g.Outcome(team) {
	case game.ResultWin:
		return "○ "
	case game.ResultLoss:
		return "● "
	case game.ResultDraw:
		return "△ "
	}
	return "- "
}

// WriteSummary writes a team's record
func WriteSummary(w io.Writer, s stats.Summary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, s)
	}

	label := s.Filter.Team
	if s.Filter.Year != 0 {
		label += fmt.Sprintf(" %d", s.Filter.Year)
	}
	if s.Filter.Opponent != "" {
		label += " vs " + s.Filter.Opponent
	}
	fmt.Fprintf(w, "%s: %s\n", label, s)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
