package scraper

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kansen-app/kansen/internal/game"
)

const (
	rowIDPrefix = "date"
	winMarker   = "勝"
	lossMarker  = "敗"
)

// separators that may follow a pitcher marker
const markerSeparators = "：: 　"

// Page identifies the schedule document a set of rows came from.
type Page struct {
	Year  int
	Month int
}

// ParseGames extracts games from a schedule document.
// When targetDate is not empty only games on that date are returned.
// An empty result is not an error.
func ParseGames(r io.Reader, page Page, targetDate string) ([]*game.Game, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	games := make([]*game.Game, 0)

	rows := doc.Find("tr").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		id, ok := sel.Attr("id")
		return ok && strings.HasPrefix(id, rowIDPrefix)
	})

	rows.Each(func(_ int, row *goquery.Selection) {
		g, ok := parseRow(row, page)
		if !ok {
			return
		}
		if targetDate != "" && g.Date != targetDate {
			return
		}
		games = append(games, g)
	})

	return games, nil
}

// parseRow reads one schedule row. It reports false for rows that are not games.
func parseRow(row *goquery.Selection, page Page) (*game.Game, bool) {
	id, _ := row.Attr("id")

	date, err := game.RowDate(page.Year, id)
	if err != nil {
		return nil, false
	}

	g := game.NewGame(date, cellText(row, ".team1"), cellText(row, ".team2"))
	if !g.Valid() {
		return nil, false
	}

	g.HomeScore = game.ParseScore(cellText(row, ".score1"))
	g.AwayScore = game.ParseScore(cellText(row, ".score2"))
	g.Stadium = game.ParseText(cellText(row, ".place"))
	g.WinningPitcher, g.LosingPitcher = pitchers(row)

	return g, true
}

// cellText returns the trimmed text of the first element matching selector
func cellText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}

// pitchers picks the winning and losing pitcher out of the row's pitcher cells.
// Cell order does not matter; the marker glyph decides.
func pitchers(row *goquery.Selection) (winning, losing game.Text) {
	row.Find(".pit").Each(func(_ int, cell *goquery.Selection) {
		text := strings.TrimSpace(cell.Text())
		switch {
		case strings.HasPrefix(text, winMarker) && !winning.Known():
			winning = game.ParseText(stripMarker(text, winMarker))
		case strings.HasPrefix(text, lossMarker) && !losing.Known():
			losing = game.ParseText(stripMarker(text, lossMarker))
		}
	})
	return winning, losing
}

// stripMarker removes "勝：" style prefixes
func stripMarker(text, marker string) string {
	text = strings.TrimPrefix(text, marker)
	return strings.TrimLeft(text, markerSeparators)
}
