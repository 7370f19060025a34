package game

import (
	"fmt"
	"strings"
)

// CodeSeparator joins the parts of a game code. Team names never contain it.
const CodeSeparator = "-"

// Game represents one NPB game
type Game struct {
	ID             int64  `json:"id,omitempty"` // assigned by the store
	Code           string `json:"game_code"`
	Date           string `json:"date"`
	HomeTeam       string `json:"home_team"`
	AwayTeam       string `json:"away_team"`
	HomeScore      Score  `json:"home_score"`
	AwayScore      Score  `json:"away_score"`
	Stadium        Text   `json:"stadium"`
	WinningPitcher Text   `json:"winning_pitcher"`
	LosingPitcher  Text   `json:"losing_pitcher"`
}

// GenerateCode creates the identity key for a game.
// It depends only on the date and the two team names.
func GenerateCode(date, homeTeam, awayTeam string) string {
	return date + CodeSeparator + homeTeam + CodeSeparator + awayTeam
}

// NewGame creates a Game with Code populated
func NewGame(date, homeTeam, awayTeam string) *Game {
	homeTeam = strings.TrimSpace(homeTeam)
	awayTeam = strings.TrimSpace(awayTeam)
	return &Game{
		Code:     GenerateCode(date, homeTeam, awayTeam),
		Date:     date,
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
	}
}

// Valid reports whether the game has the minimum data to be stored.
func (g *Game) Valid() bool {
	return g != nil && g.Date != "" && g.HomeTeam != "" && g.AwayTeam != ""
}

// Involves reports whether team played in the game
func (g *Game) Involves(team string) bool {
	return g.HomeTeam == team || g.AwayTeam == team
}

// Opponent returns the team that played against team, or "" if team did not play.
func (g *Game) Opponent(team string) string {
	switch team {
	case g.HomeTeam:
		return g.AwayTeam
	case g.AwayTeam:
		return g.HomeTeam
	}
	return ""
}

// Result is the outcome of a game from one team's point of view
type Result string

const (
	ResultWin       Result = "win"
	ResultLoss      Result = "loss"
	ResultDraw      Result = "draw"
	ResultUndecided Result = "undecided" // not played, score unpublished or team absent
)

// Outcome returns the result of the game for team.
func (g *Game) Outcome(team string) Result {
	home, homeOK := g.HomeScore.Int()
	away, awayOK := g.AwayScore.Int()
	if !homeOK || !awayOK || !g.Involves(team) {
		return ResultUndecided
	}

	own, other := home, away
	if team == g.AwayTeam {
		own, other = away, home
	}

	switch {
	case own > other:
		return ResultWin
	case own < other:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// ScoreLine renders the score as "home - away"
func (g *Game) ScoreLine() string {
	return fmt.Sprintf("%s - %s", g.HomeScore, g.AwayScore)
}

// Matchup renders the teams as "home vs away"
func (g *Game) Matchup() string {
	return g.HomeTeam + " vs " + g.AwayTeam
}
