package pipeline

import (
	"fmt"

	"github.com/kansen-app/kansen/internal/game"
)

// Request selects what to sync. Month 0 means every month of Year.
// TargetDate, when set, limits reconciliation to games on that date.
type Request struct {
	Year       int    `json:"year"`
	Month      int    `json:"month,omitempty"`
	TargetDate string `json:"target_date,omitempty"`
}

// Validate checks the request without touching the network.
func (r Request) Validate() error {
	if r.Year < 1000 || r.Year > 9999 {
		return &ValidationError{Field: "year", Msg: fmt.Sprintf("%d is not a four-digit year", r.Year)}
	}
	if r.Month < 0 || r.Month > 12 {
		return &ValidationError{Field: "month", Msg: fmt.Sprintf("%d is not between 1 and 12", r.Month)}
	}
	if r.TargetDate != "" {
		d, err := game.ParseDate(r.TargetDate)
		if err != nil {
			return &ValidationError{Field: "date", Msg: fmt.Sprintf("%q is not YYYY-MM-DD", r.TargetDate)}
		}
		// rows carry the page year, so a date in another year can never match
		if d.Year() != r.Year {
			return &ValidationError{Field: "date", Msg: fmt.Sprintf("%s is not in %d", r.TargetDate, r.Year)}
		}
	}
	return nil
}

// Months lists the months the request covers, in order.
func (r Request) Months() []int {
	if r.Month != 0 {
		return []int{r.Month}
	}
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}
