package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kansen-app/kansen/internal/game"
	"github.com/kansen-app/kansen/internal/stats"
)

// SortOrder represents the available record orderings
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByDateDesc SortOrder = "date-desc"
	SortByTeam     SortOrder = "team"
	SortByStadium  SortOrder = "stadium"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByDate, SortByDateDesc, SortByTeam, SortByStadium:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be date, date-desc, team or stadium)", s)
}

// sortRecords sorts records in place
func sortRecords(records []*game.Record, order SortOrder) {
	switch order {
	case SortByDate:
		stats.Sort(records, true)
	case SortByDateDesc:
		stats.Sort(records, false)
	case SortByTeam:
		sort.SliceStable(records, func(i, j int) bool {
			ti, tj := homeTeam(records[i]), homeTeam(records[j])
			if ti != tj {
				return ti < tj
			}
			// If teams are equal, sort by date
			return compareByDate(records[i], records[j])
		})
	case SortByStadium:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Place != records[j].Place {
				return records[i].Place < records[j].Place
			}
			return compareByDate(records[i], records[j])
		})
	}
}

func homeTeam(r *game.Record) string {
	if r.Game == nil {
		return ""
	}
	return r.Game.HomeTeam
}

// compareByDate reports whether i was played before j. Records without a
// game sort last.
func compareByDate(i, j *game.Record) bool {
	if i.Game == nil || j.Game == nil {
		return i.Game != nil
	}
	return i.Game.Date < j.Game.Date
}
