package pipeline

import (
	"fmt"
	"time"
)

// MonthReport is the outcome of one fetch, extract and reconcile pass
type MonthReport struct {
	RunID      string        `json:"run_id"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	URL        string        `json:"url"`
	TargetDate string        `json:"target_date,omitempty"`
	Extracted  int           `json:"extracted"`
	Reconciled int           `json:"reconciled"`
	Empty      bool          `json:"empty"`
	Failure    Kind          `json:"failure,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`

	err error
}

// Failed reports whether the pass ended in an error
func (r MonthReport) Failed() bool {
	return r.Failure != KindNone
}

// Err returns the underlying error, if any
func (r MonthReport) Err() error {
	return r.err
}

func (r *MonthReport) fail(err error) {
	r.err = err
	r.Failure = Classify(err)
	r.Error = err.Error()
}

func (r MonthReport) String() string {
	label := fmt.Sprintf("%04d-%02d", r.Year, r.Month)
	if r.TargetDate != "" {
		label += " (" + r.TargetDate + ")"
	}

	switch {
	case r.Failed():
		return fmt.Sprintf("%s: %s: %s", label, r.Failure, r.Error)
	case r.Empty:
		return label + ": no games"
	default:
		return fmt.Sprintf("%s: extracted %d, reconciled %d", label, r.Extracted, r.Reconciled)
	}
}

// Summary totals a set of month reports
type Summary struct {
	Months     int `json:"months"`
	Failed     int `json:"failed"`
	Extracted  int `json:"extracted"`
	Reconciled int `json:"reconciled"`
}

// Summarize totals reports
func Summarize(reports []MonthReport) Summary {
	var s Summary
	for _, r := range reports {
		s.Months++
		s.Extracted += r.Extracted
		s.Reconciled += r.Reconciled
		if r.Failed() {
			s.Failed++
		}
	}
	return s
}
