package game

import (
	"fmt"
	"time"
)

// DateLayout is the canonical YYYY-MM-DD form used in codes, the store and requests
const DateLayout = "2006-01-02"

// ParseDate parses a strict YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

// RowDate rebuilds a full date from a schedule row id such as "date0415".
// The month and day come from the last four characters of the id; the page's
// requested month is not consulted, so a trailing game from the next month keeps
// its own date.
func RowDate(year int, rowID string) (string, error) {
	if len(rowID) < 4 {
		return "", fmt.Errorf("row id %q too short", rowID)
	}
	month := rowID[len(rowID)-4 : len(rowID)-2]
	day := rowID[len(rowID)-2:]

	date := fmt.Sprintf("%04d-%s-%s", year, month, day)
	if _, err := ParseDate(date); err != nil {
		return "", fmt.Errorf("row id %q: %w", rowID, err)
	}
	return date, nil
}

// Year returns the year of a YYYY-MM-DD date, or 0 if it does not parse
func Year(date string) int {
	t, err := ParseDate(date)
	if err != nil {
		return 0
	}
	return t.Year()
}
