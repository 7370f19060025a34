package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://npb.jp"
	UserAgent      = "kansen/1.0 (github.com/kansen-app/kansen)"
	Timeout        = 30 * time.Second
)

// Fetcher retrieves raw schedule documents. Every call is a fresh request;
// nothing is cached or retried.
type Fetcher struct {
	client  *resty.Client
	baseURL string
}

// New creates a Fetcher for the public NPB site
func New() *Fetcher {
	return NewWithOptions(DefaultBaseURL, Timeout)
}

// NewWithOptions creates a Fetcher against baseURL with the given request timeout
func NewWithOptions(baseURL string, timeout time.Duration) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = Timeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", UserAgent).
		SetRetryCount(0)

	return &Fetcher{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ValidateMonth checks that year is a four digit year and month is 1-12
func ValidateMonth(year, month int) error {
	if year < 1000 || year > 9999 {
		return fmt.Errorf("%w: year %d must have four digits", ErrValidation, year)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d must be between 1 and 12", ErrValidation, month)
	}
	return nil
}

// ScheduleURL returns the detail schedule page for a month
func (f *Fetcher) ScheduleURL(year, month int) string {
	return fmt.Sprintf("%s/games/%d/schedule_%02d_detail.html", f.baseURL, year, month)
}

// FetchMonth downloads the schedule document for year/month
func (f *Fetcher) FetchMonth(ctx context.Context, year, month int) ([]byte, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	url := f.ScheduleURL(year, month)

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode()),
		}
	}

	return resp.Body(), nil
}
