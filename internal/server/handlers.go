package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kansen-app/kansen/internal/calendar"
	"github.com/kansen-app/kansen/internal/game"
	"github.com/kansen-app/kansen/internal/logger"
	"github.com/kansen-app/kansen/internal/pipeline"
	"github.com/kansen-app/kansen/internal/roster"
	"github.com/kansen-app/kansen/internal/stats"
	"github.com/kansen-app/kansen/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

type scrapeRequest struct {
	Date string `json:"date"`
}

type scrapeResponse struct {
	Message string                `json:"message"`
	Count   int                   `json:"count"`
	Report  *pipeline.MonthReport `json:"report,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps a sync error to an HTTP status
func statusFor(err error) int {
	switch pipeline.Classify(err) {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindFetch:
		return http.StatusBadGateway
	case pipeline.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.cfg.Store.Ping(r.Context()); err != nil {
		s.log.Warn("health check failed", logger.Fields{"error": err.Error()})
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}

// handleScrape syncs the month containing the posted date, limited to that date
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with a date field")
		return
	}
	req.Date = strings.TrimSpace(req.Date)
	if req.Date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	report, err := s.cfg.Syncer.SyncDate(r.Context(), req.Date)
	if err != nil {
		msg := err.Error()
		switch pipeline.Classify(err) {
		case pipeline.KindValidation:
			msg = "invalid date format, expected YYYY-MM-DD"
		case pipeline.KindFetch:
			msg = "failed to fetch schedule: " + msg
		}
		writeError(w, statusFor(err), msg)
		return
	}

	if report.Empty {
		writeJSON(w, http.StatusOK, scrapeResponse{
			Message: fmt.Sprintf("No games found for %s.", req.Date),
			Report:  &report,
		})
		return
	}
	writeJSON(w, http.StatusOK, scrapeResponse{
		Message: fmt.Sprintf("Synced %d games for %s.", report.Reconciled, req.Date),
		Count:   report.Reconciled,
		Report:  &report,
	})
}

// handleGames lists the games on ?date=. With sync=1 an empty date is fetched first.
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if _, err := game.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if r.URL.Query().Get("sync") == "1" {
		if _, _, err := s.cfg.Syncer.EnsureDate(r.Context(), date); err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}
	}

	games, err := s.cfg.Store.GamesOn(r.Context(), date)
	if err != nil {
		s.log.Error("listing games failed", logger.Fields{"date": date}, err)
		writeError(w, http.StatusInternalServerError, "failed to list games")
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, roster.Teams())
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return
	}

	records, err := s.cfg.Store.Records(r.Context())
	if err != nil {
		s.log.Error("listing records failed", nil, err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	records = stats.Apply(records, f)
	stats.Sort(records, r.URL.Query().Get("order") != "desc")
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRecordsCalendar(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return
	}

	records, err := s.cfg.Store.Records(r.Context())
	if err != nil {
		s.log.Error("listing records failed", nil, err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	records = stats.Apply(records, f)
	stats.Sort(records, true)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kansen.ics"`)
	if _, err := calendar.WriteICS(w, records, time.Now()); err != nil {
		s.log.Warn("writing calendar failed", logger.Fields{"error": err.Error()})
	}
}

type addRecordRequest struct {
	GameID   int64  `json:"game_id"`
	GameCode string `json:"game_code"`
	Memo     string `json:"memo"`
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var req addRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if req.GameID == 0 && req.GameCode != "" {
		g, err := s.cfg.Store.GameByCode(r.Context(), req.GameCode)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			s.log.Error("looking up game failed", logger.Fields{"game_code": req.GameCode}, err)
			writeError(w, http.StatusInternalServerError, "failed to look up game")
			return
		}
		req.GameID = g.ID
	}
	if req.GameID == 0 {
		writeError(w, http.StatusBadRequest, "game_id or game_code is required")
		return
	}

	rec, err := s.cfg.Store.AddRecord(r.Context(), req.GameID, req.Memo)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "game not found")
		return
	case errors.Is(err, storage.ErrNoStadium):
		writeError(w, http.StatusUnprocessableEntity, "game has no stadium")
		return
	case err != nil:
		s.log.Error("adding record failed", logger.Fields{"game_id": req.GameID}, err)
		writeError(w, http.StatusInternalServerError, "failed to add record")
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type deleteRecordsRequest struct {
	IDs []int64 `json:"ids"`
}

func (s *Server) handleDeleteRecords(w http.ResponseWriter, r *http.Request) {
	var req deleteRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}

	n, err := s.cfg.Store.DeleteRecords(r.Context(), req.IDs)
	if err != nil {
		s.log.Error("deleting records failed", logger.Fields{"ids": req.IDs}, err)
		writeError(w, http.StatusInternalServerError, "failed to delete records")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	f, ok := s.parseFilter(w, r)
	if !ok {
		return
	}

	records, err := s.cfg.Store.Records(r.Context())
	if err != nil {
		s.log.Error("listing records failed", nil, err)
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary":   stats.Compute(records, f),
		"years":     stats.Years(records),
		"opponents": stats.Opponents(records, f.Team),
	})
}

// parseFilter reads team, opponent and year from the query. Team names
// are resolved against the roster.
func (s *Server) parseFilter(w http.ResponseWriter, r *http.Request) (stats.Filter, bool) {
	q := r.URL.Query()
	var f stats.Filter

	for _, p := range []struct {
		key string
		dst *string
	}{{"team", &f.Team}, {"opponent", &f.Opponent}} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		t, ok := roster.Resolve(v)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown team %q", v))
			return f, false
		}
		*p.dst = t.Name
	}

	if y := q.Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1000 || year > 9999 {
			writeError(w, http.StatusBadRequest, "year must be a four-digit number")
			return f, false
		}
		f.Year = year
	}
	return f, true
}
