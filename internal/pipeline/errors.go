package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/kansen-app/kansen/internal/scraper"
	"github.com/kansen-app/kansen/internal/storage"
)

// ValidationError reports a malformed request field. No request is made.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return scraper.ErrValidation
}

// AsValidationError attempts to unwrap an error into a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// Kind classifies why a month failed
type Kind string

const (
	KindNone        Kind = ""
	KindValidation  Kind = "validation_error"
	KindFetch       Kind = "fetch_failure"
	KindExtraction  Kind = "extraction_failure"
	KindPersistence Kind = "persistence_failure"
	KindCanceled    Kind = "canceled"
)

// Classify maps an error returned by the fetcher, extractor or store to a Kind
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if _, ok := scraper.AsFetchError(err); ok {
		return KindFetch
	}
	if _, ok := scraper.AsParseError(err); ok {
		return KindExtraction
	}
	if _, ok := storage.AsPersistenceError(err); ok {
		return KindPersistence
	}
	if errors.Is(err, scraper.ErrValidation) {
		return KindValidation
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	// the fetcher and extractor type all of their errors; the rest came from the store
	return KindPersistence
}
