package game

import "testing"

func TestGenerateCode(t *testing.T) {
	code := GenerateCode("2024-04-15", "巨人", "阪神")
	if code != "2024-04-15-巨人-阪神" {
		t.Errorf("GenerateCode() = %q, want 2024-04-15-巨人-阪神", code)
	}

	// Same inputs should always produce the same code
	if again := GenerateCode("2024-04-15", "巨人", "阪神"); again != code {
		t.Errorf("GenerateCode() not deterministic: %q vs %q", code, again)
	}

	// Home and away are not interchangeable
	if swapped := GenerateCode("2024-04-15", "阪神", "巨人"); swapped == code {
		t.Error("GenerateCode() should depend on which team is home")
	}
}

func TestNewGame(t *testing.T) {
	g := NewGame("2024-04-15", "  巨人 ", "阪神")

	if g.HomeTeam != "巨人" {
		t.Errorf("HomeTeam = %q, want trimmed name", g.HomeTeam)
	}
	if g.Code != "2024-04-15-巨人-阪神" {
		t.Errorf("Code = %q", g.Code)
	}
	if g.HomeScore.Known() || g.Stadium.Known() {
		t.Error("new game should start with unknown score and stadium")
	}
}

func TestGame_CodeStableAcrossUpdates(t *testing.T) {
	before := NewGame("2024-04-15", "巨人", "阪神")

	after := NewGame("2024-04-15", "巨人", "阪神")
	after.HomeScore = KnownScore(3)
	after.AwayScore = KnownScore(2)
	after.WinningPitcher = ParseText("戸郷")

	if before.Code != after.Code {
		t.Errorf("code changed after result was published: %q -> %q", before.Code, after.Code)
	}
}

func TestGame_Valid(t *testing.T) {
	tests := []struct {
		name string
		game *Game
		want bool
	}{
		{"complete", NewGame("2024-04-15", "巨人", "阪神"), true},
		{"missing home", NewGame("2024-04-15", "", "阪神"), false},
		{"missing away", NewGame("2024-04-15", "巨人", " "), false},
		{"missing date", NewGame("", "巨人", "阪神"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.game.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGame_Outcome(t *testing.T) {
	scored := func(home, away int) *Game {
		g := NewGame("2024-04-15", "巨人", "阪神")
		g.HomeScore = KnownScore(home)
		g.AwayScore = KnownScore(away)
		return g
	}

	tests := []struct {
		name string
		game *Game
		team string
		want Result
	}{
		{"home win", scored(3, 1), "巨人", ResultWin},
		{"away loss", scored(3, 1), "阪神", ResultLoss},
		{"away win", scored(0, 4), "阪神", ResultWin},
		{"draw", scored(2, 2), "巨人", ResultDraw},
		{"not involved", scored(3, 1), "広島", ResultUndecided},
		{"unplayed", NewGame("2024-04-15", "巨人", "阪神"), "巨人", ResultUndecided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.game.Outcome(tt.team); got != tt.want {
				t.Errorf("Outcome(%q) = %q, want %q", tt.team, got, tt.want)
			}
		})
	}
}

func TestGame_Opponent(t *testing.T) {
	g := NewGame("2024-04-15", "巨人", "阪神")

	if got := g.Opponent("巨人"); got != "阪神" {
		t.Errorf("Opponent(巨人) = %q", got)
	}
	if got := g.Opponent("阪神"); got != "巨人" {
		t.Errorf("Opponent(阪神) = %q", got)
	}
	if got := g.Opponent("広島"); got != "" {
		t.Errorf("Opponent(広島) = %q, want empty", got)
	}
}
