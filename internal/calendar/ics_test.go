package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kansen-app/kansen/internal/game"
)

func fixture() []*game.Record {
	g := game.NewGame("2024-04-14", "巨人", "阪神")
	g.HomeScore = game.KnownScore(3)
	g.AwayScore = game.KnownScore(2)
	g.Stadium = game.ParseText("東京ドーム")
	g.WinningPitcher = game.ParseText("戸郷")
	g.LosingPitcher = game.ParseText("才木")

	pending := game.NewGame("2024-04-15", "ソフトバンク", "日本ハム")

	return []*game.Record{
		{ID: 1, Place: "東京ドーム", Memo: "開幕, 雨", Game: g},
		{ID: 2, Place: "みずほPayPay", Game: pending},
		{ID: 3, Place: "神宮"}, // game deleted
	}
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)

	n, err := WriteICS(&buf, fixture(), now)
	if err != nil {
		t.Fatalf("WriteICS() error = %v", err)
	}
	if n != 2 {
		t.Errorf("WriteICS() wrote %d events, want 2", n)
	}

	ics := buf.String()
	requiredFields := []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"PRODID:-//kansen//kansen//JA\r\n",
		"DTSTAMP:20240420T120000Z\r\n",
		"DTSTART;VALUE=DATE:20240414\r\n",
		"DTEND;VALUE=DATE:20240415\r\n",
		"SUMMARY:巨人 3 - 2 阪神\r\n",
		"DESCRIPTION:勝: 戸郷\\n敗: 才木\\n開幕\\, 雨\r\n",
		"LOCATION:東京ドーム\r\n",
		"SUMMARY:ソフトバンク vs 日本ハム\r\n",
		"DTEND;VALUE=DATE:20240416\r\n",
		"END:VCALENDAR\r\n",
	}
	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing %q", field)
		}
	}

	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("found %d VEVENTs, want 2", got)
	}
	if strings.Contains(ics, "神宮") {
		t.Error("record without a game should be skipped")
	}
}

func TestWriteICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteICS(&buf, nil, time.Now())
	if err != nil || n != 0 {
		t.Fatalf("WriteICS() = %d, %v", n, err)
	}
	if !strings.HasPrefix(buf.String(), "BEGIN:VCALENDAR") || !strings.HasSuffix(buf.String(), "END:VCALENDAR\r\n") {
		t.Errorf("unexpected calendar %q", buf.String())
	}
}

func TestUID_ASCII(t *testing.T) {
	var buf bytes.Buffer
	if _, err := WriteICS(&buf, fixture()[:1], time.Now()); err != nil {
		t.Fatal(err)
	}
	for _, line := range strings.Split(buf.String(), "\r\n") {
		if !strings.HasPrefix(line, "UID:") {
			continue
		}
		for _, r := range line {
			if r >= 0x80 {
				t.Fatalf("UID contains non-ASCII rune: %q", line)
			}
		}
		if !strings.HasPrefix(line, "UID:record-1-2024-04-14-") {
			t.Errorf("UID = %q", line)
		}
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple text", "simple text"},
		{"text, with comma", "text\\, with comma"},
		{"text; with semicolon", "text\\; with semicolon"},
		{"text\nwith newline", "text\\nwith newline"},
		{"text\\with backslash", "text\\\\with backslash"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.want {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
