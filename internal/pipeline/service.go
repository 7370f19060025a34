package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kansen-app/kansen/internal/game"
	"github.com/kansen-app/kansen/internal/logger"
	"github.com/kansen-app/kansen/internal/scraper"
)

// Fetcher retrieves a month's schedule document
type Fetcher interface {
	FetchMonth(ctx context.Context, year, month int) ([]byte, error)
	ScheduleURL(year, month int) string
}

// Store persists games. UpsertGames must resolve conflicts on the game code
// in a single write.
type Store interface {
	UpsertGames(ctx context.Context, games []*game.Game) (int, error)
	GamesOn(ctx context.Context, date string) ([]*game.Game, error)
}

// Publisher receives every finished month report
type Publisher interface {
	Publish(ctx context.Context, report MonthReport) error
}

// Service runs sync passes against one fetcher and one store
type Service struct {
	fetcher   Fetcher
	store     Store
	publisher Publisher
	log       *logger.Logger
	metrics   *logger.Metrics
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sends each month report to p
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the logger; the package default is used otherwise
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics sets the metrics tracker; the package default is used otherwise
func WithMetrics(m *logger.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a Service
func New(fetcher Fetcher, store Store, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		store:   store,
		log:     logger.Default(),
		metrics: logger.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run syncs every month the request covers, one after another. A failed month
// is recorded in its report and does not stop the remaining months. The only
// error returned is a validation error, or the context error if ctx ends
// between months.
func (s *Service) Run(ctx context.Context, req Request) ([]MonthReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := s.log.With(logger.Fields{"run_id": runID, "year": req.Year})
	log.Info("sync started", logger.Fields{"month": req.Month, "target_date": req.TargetDate})

	months := req.Months()
	reports := make([]MonthReport, 0, len(months))
	for _, month := range months {
		if err := ctx.Err(); err != nil {
			log.Warn("sync interrupted", logger.Fields{"completed_months": len(reports)})
			return reports, err
		}
		reports = append(reports, s.syncMonth(ctx, runID, req.Year, month, req.TargetDate))
	}

	sum := Summarize(reports)
	log.Info("sync finished", logger.Fields{
		"months":     sum.Months,
		"failed":     sum.Failed,
		"extracted":  sum.Extracted,
		"reconciled": sum.Reconciled,
	})
	return reports, nil
}

// SyncMonth runs one pass for a single month. Validation errors are reported
// with KindValidation before any request is made.
func (s *Service) SyncMonth(ctx context.Context, year, month int, targetDate string) MonthReport {
	runID := uuid.NewString()
	req := Request{Year: year, Month: month, TargetDate: targetDate}
	if err := req.Validate(); err != nil {
		r := MonthReport{RunID: runID, Year: year, Month: month, TargetDate: targetDate}
		r.fail(err)
		return r
	}
	if month == 0 {
		r := MonthReport{RunID: runID, Year: year, TargetDate: targetDate}
		r.fail(&ValidationError{Field: "month", Msg: "a single month is required"})
		return r
	}
	return s.syncMonth(ctx, runID, year, month, targetDate)
}

// SyncDate fetches the month containing date and reconciles only that date's games.
func (s *Service) SyncDate(ctx context.Context, date string) (MonthReport, error) {
	d, err := game.ParseDate(date)
	if err != nil {
		return MonthReport{}, &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}
	report := s.SyncMonth(ctx, d.Year(), int(d.Month()), date)
	return report, report.Err()
}

// EnsureDate syncs date only when the store has no games on it. It reports
// whether a sync ran.
func (s *Service) EnsureDate(ctx context.Context, date string) (MonthReport, bool, error) {
	if _, err := game.ParseDate(date); err != nil {
		return MonthReport{}, false, &ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
	}

	existing, err := s.store.GamesOn(ctx, date)
	if err != nil {
		return MonthReport{}, false, err
	}
	if len(existing) > 0 {
		return MonthReport{}, false, nil
	}

	report, err := s.SyncDate(ctx, date)
	return report, true, err
}

func (s *Service) syncMonth(ctx context.Context, runID string, year, month int, targetDate string) (report MonthReport) {
	start := time.Now()
	report = MonthReport{
		RunID:      runID,
		Year:       year,
		Month:      month,
		URL:        s.fetcher.ScheduleURL(year, month),
		TargetDate: targetDate,
	}
	log := s.log.With(logger.Fields{"run_id": runID, "year": year, "month": month})

	defer func() {
		report.Duration = time.Since(start)
		if report.Failed() {
			s.metrics.IncrCounter("scrape.months.failed")
			log.Error("month sync failed", logger.Fields{"failure": string(report.Failure), "url": report.URL}, report.err)
		} else {
			s.metrics.IncrCounter("scrape.months.ok")
			log.Info("month synced", logger.Fields{
				"extracted":  report.Extracted,
				"reconciled": report.Reconciled,
				"empty":      report.Empty,
			})
		}
		s.publish(ctx, log, report)
	}()

	log.Debug("fetching schedule", logger.Fields{"url": report.URL})
	fetchStart := time.Now()
	body, err := s.fetcher.FetchMonth(ctx, year, month)
	s.metrics.Time("scrape.fetch", fetchStart)
	if err != nil {
		report.fail(err)
		return report
	}

	games, err := scraper.ParseGames(bytes.NewReader(body), scraper.Page{Year: year, Month: month}, targetDate)
	if err != nil {
		report.fail(err)
		return report
	}
	report.Extracted = len(games)
	if len(games) == 0 {
		report.Empty = true
		return report
	}

	upsertStart := time.Now()
	n, err := s.store.UpsertGames(ctx, games)
	s.metrics.Time("scrape.upsert", upsertStart)
	if err != nil {
		report.fail(err)
		return report
	}
	report.Reconciled = n
	s.metrics.AddCounter("scrape.games.reconciled", int64(n))

	return report
}

func (s *Service) publish(ctx context.Context, log *logger.Logger, report MonthReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		log.Warn("publishing report failed", logger.Fields{"error": err.Error()})
	}
}
