package game

import (
	"encoding/json"
	"testing"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		input     string
		wantValue int
		wantKnown bool
	}{
		{"3", 3, true},
		{" 10 ", 10, true},
		{"0", 0, true},
		{"", 0, false},
		{"   ", 0, false},
		{"-", 0, false},
		{"中止", 0, false},
		{"-1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, ok := ParseScore(tt.input).Int()
			if v != tt.wantValue || ok != tt.wantKnown {
				t.Errorf("ParseScore(%q) = (%d, %v), want (%d, %v)", tt.input, v, ok, tt.wantValue, tt.wantKnown)
			}
		})
	}
}

func TestUnknownRendering(t *testing.T) {
	if got := UnknownScore().String(); got != Unknown {
		t.Errorf("unknown score String() = %q, want %q", got, Unknown)
	}
	if got := ParseText("  ").String(); got != Unknown {
		t.Errorf("blank text String() = %q, want %q", got, Unknown)
	}
	if got := KnownScore(7).String(); got != "7" {
		t.Errorf("known score String() = %q", got)
	}
	if got := ParseText(" 東京ドーム ").String(); got != "東京ドーム" {
		t.Errorf("text String() = %q", got)
	}
}

func TestGame_JSON(t *testing.T) {
	g := NewGame("2024-04-15", "巨人", "阪神")
	g.HomeScore = KnownScore(3)
	g.Stadium = ParseText("東京ドーム")

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if raw["home_score"] != float64(3) {
		t.Errorf("home_score = %v, want 3", raw["home_score"])
	}
	if raw["away_score"] != nil {
		t.Errorf("away_score = %v, want null", raw["away_score"])
	}
	if raw["stadium"] != "東京ドーム" {
		t.Errorf("stadium = %v", raw["stadium"])
	}
	if raw["winning_pitcher"] != nil {
		t.Errorf("winning_pitcher = %v, want null", raw["winning_pitcher"])
	}

	var decoded Game
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal(Game) error = %v", err)
	}
	if decoded.HomeScore != g.HomeScore || decoded.AwayScore.Known() {
		t.Errorf("decoded scores = %v/%v", decoded.HomeScore, decoded.AwayScore)
	}
}

func TestScan(t *testing.T) {
	var s Score
	if err := s.Scan(int64(5)); err != nil || !s.Known() {
		t.Fatalf("Scan(int64) = %v, %v", s, err)
	}
	if err := s.Scan(nil); err != nil || s.Known() {
		t.Fatalf("Scan(nil) = %v, %v", s, err)
	}
	if err := s.Scan(1.5); err == nil {
		t.Error("Scan(float64) expected error")
	}

	var txt Text
	if err := txt.Scan([]byte("甲子園")); err != nil || txt.String() != "甲子園" {
		t.Fatalf("Scan([]byte) = %v, %v", txt, err)
	}
	if err := txt.Scan(nil); err != nil || txt.Known() {
		t.Fatalf("Scan(nil) = %v, %v", txt, err)
	}

	if v, _ := UnknownText().Value(); v != nil {
		t.Errorf("unknown text Value() = %v, want nil", v)
	}
	if v, _ := UnknownScore().Value(); v != nil {
		t.Errorf("unknown score Value() = %v, want nil", v)
	}
}
