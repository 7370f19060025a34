// Package calendar renders attended games as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kansen-app/kansen/internal/game"
)

const prodID = "-//kansen//kansen//JA"

// WriteICS writes one all-day VEVENT per record. Records whose game is
// missing or has an unparseable date are skipped; the number written is returned.
func WriteICS(w io.Writer, records []*game.Record, now time.Time) (int, error) {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:" + prodID + "\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString("X-WR-CALNAME:観戦記録\r\n")

	written := 0
	for _, r := range records {
		if writeEvent(&ics, r, now) {
			written++
		}
	}

	ics.WriteString("END:VCALENDAR\r\n")

	if _, err := io.WriteString(w, ics.String()); err != nil {
		return 0, fmt.Errorf("writing calendar: %w", err)
	}
	return written, nil
}

func writeEvent(ics *strings.Builder, r *game.Record, now time.Time) bool {
	g := r.Game
	if g == nil {
		return false
	}
	day, err := game.ParseDate(g.Date)
	if err != nil {
		return false
	}

	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:record-%d-%s@kansen\r\n", r.ID, escapeUID(g.Code))
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(now))

	// all-day event; DTEND is exclusive
	fmt.Fprintf(ics, "DTSTART;VALUE=DATE:%s\r\n", day.Format("20060102"))
	fmt.Fprintf(ics, "DTEND;VALUE=DATE:%s\r\n", day.AddDate(0, 0, 1).Format("20060102"))

	summary := g.Matchup()
	if g.HomeScore.Known() && g.AwayScore.Known() {
		summary = fmt.Sprintf("%s %s %s", g.HomeTeam, g.ScoreLine(), g.AwayTeam)
	}
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(summary))

	var desc []string
	if g.WinningPitcher.Known() {
		desc = append(desc, "勝: "+g.WinningPitcher.String())
	}
	if g.LosingPitcher.Known() {
		desc = append(desc, "敗: "+g.LosingPitcher.String())
	}
	if r.Memo != "" {
		desc = append(desc, r.Memo)
	}
	if len(desc) > 0 {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(strings.Join(desc, "\n")))
	}

	if r.Place != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(r.Place))
	}
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
	return true
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes text values per RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// escapeUID keeps UIDs ASCII-safe by hex encoding non-ASCII runes
func escapeUID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x80 && r != ' ' {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "%x", r)
	}
	return b.String()
}
