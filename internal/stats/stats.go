// Package stats computes a fan's record over the games they attended.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kansen-app/kansen/internal/game"
)

// Filter narrows the records a summary is computed over. Zero values match everything.
type Filter struct {
	Team     string `json:"team,omitempty"`     // favorite team; wins and losses are from its side
	Year     int    `json:"year,omitempty"`
	Opponent string `json:"opponent,omitempty"`
}

// Summary is a team's record over the filtered games
type Summary struct {
	Filter     Filter `json:"filter"`
	Games      int    `json:"games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
	Undecided  int    `json:"undecided"`
	Percentage string `json:"percentage"`
}

// Apply returns the records matching f. Records without a game never match a
// non-empty filter.
func Apply(records []*game.Record, f Filter) []*game.Record {
	out := make([]*game.Record, 0, len(records))
	for _, r := range records {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r *game.Record, f Filter) bool {
	if f == (Filter{}) {
		return true
	}
	g := r.Game
	if g == nil {
		return false
	}
	if f.Year != 0 && game.Year(g.Date) != f.Year {
		return false
	}
	if f.Team != "" && !g.Involves(f.Team) {
		return false
	}
	if f.Opponent != "" && !g.Involves(f.Opponent) {
		return false
	}
	return true
}

// Compute summarizes the records matching f. Without a team every game is
// counted as undecided.
func Compute(records []*game.Record, f Filter) Summary {
	s := Summary{Filter: f}
	for _, r := range Apply(records, f) {
		s.Games++
		if r.Game == nil {
			s.Undecided++
			continue
		}
		switch r.Game.Outcome(f.Team) {
		case game.ResultWin:
			s.Wins++
		case game.ResultLoss:
			s.Losses++
		case game.ResultDraw:
			s.Draws++
		default:
			s.Undecided++
		}
	}
	s.Percentage = FormatPercentage(s.Wins, s.Losses)
	return s
}

// FormatPercentage renders wins/(wins+losses) to three places in the
// baseball style: ".667", "1.000", and ".000" when nothing was decided.
func FormatPercentage(wins, losses int) string {
	if wins+losses == 0 {
		return ".000"
	}
	pct := fmt.Sprintf("%.3f", float64(wins)/float64(wins+losses))
	return strings.TrimPrefix(pct, "0")
}

func (s Summary) String() string {
	return fmt.Sprintf("%d勝 %d敗 %d分 (%s) / %d試合", s.Wins, s.Losses, s.Draws, s.Percentage, s.Games)
}

// Years lists the distinct years of the records' games, newest first
func Years(records []*game.Record) []int {
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, r := range records {
		if r.Game == nil {
			continue
		}
		if y := game.Year(r.Game.Date); y > 0 && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Opponents lists every team team has played in the records, in first-seen order
func Opponents(records []*game.Record, team string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, r := range records {
		if r.Game == nil {
			continue
		}
		if o := r.Game.Opponent(team); o != "" && !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out
}

// Sort orders records by game date. Records without a game go last.
func Sort(records []*game.Record, ascending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Game, records[j].Game
		if a == nil || b == nil {
			return a != nil
		}
		if ascending {
			return a.Date < b.Date
		}
		return a.Date > b.Date
	})
}
