package scraper

import (
	"errors"
	"fmt"
)

// ErrValidation marks a bad year or month; no request is made.
var ErrValidation = errors.New("invalid schedule request")

// FetchError is returned when the schedule page could not be retrieved:
// DNS, connection and timeout failures or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a fetched document cannot be parsed as HTML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing HTML: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fErr *FetchError
	if errors.As(err, &fErr) {
		return fErr, true
	}
	return nil, false
}

// AsParseError attempts to unwrap an error into a ParseError.
func AsParseError(err error) (*ParseError, bool) {
	var pErr *ParseError
	if errors.As(err, &pErr) {
		return pErr, true
	}
	return nil, false
}
