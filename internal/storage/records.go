package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/kansen-app/kansen/internal/game"
)

// AddRecord stores a visit record for gameID. The record's place is copied from
// the game's stadium; games without a known stadium are rejected with ErrNoStadium.
func (s *Store) AddRecord(ctx context.Context, gameID int64, memo string) (*game.Record, error) {
	var stadium game.Text
	err := s.db.QueryRowContext(ctx, s.dialect.bind(`SELECT stadium FROM games WHERE id = ?`), gameID).Scan(&stadium)
	if isNoRows(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistErr("looking up game", err)
	}
	place, ok := stadium.Get()
	if !ok {
		return nil, ErrNoStadium
	}

	insert := `INSERT INTO records (game_id, place, memo, created_at) VALUES (?, ?, ?, ?)`
	args := []any{gameID, place, nullString(memo), time.Now().UTC().Truncate(time.Second)}

	var id int64
	if s.dialect.returningID {
		err := s.db.QueryRowContext(ctx, s.dialect.bind(insert+` RETURNING id`), args...).Scan(&id)
		if err != nil {
			return nil, persistErr("adding record", err)
		}
	} else {
		res, err := s.db.ExecContext(ctx, s.dialect.bind(insert), args...)
		if err != nil {
			return nil, persistErr("adding record", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, persistErr("adding record", err)
		}
	}

	return s.Record(ctx, id)
}

const selectRecords = `SELECT r.id, r.game_id, r.place, r.memo, r.created_at,
	g.id, g.game_code, g.date, g.home_team, g.away_team,
	g.home_score, g.away_score, g.stadium, g.winning_pitcher, g.losing_pitcher
	FROM records r LEFT JOIN games g ON g.id = r.game_id`

// Records returns every visit record with its game, newest game first
func (s *Store) Records(ctx context.Context) ([]*game.Record, error) {
	return s.queryRecords(ctx, selectRecords+` ORDER BY g.date DESC, r.id DESC`)
}

// Record returns a single visit record
func (s *Store) Record(ctx context.Context, id int64) (*game.Record, error) {
	records, err := s.queryRecords(ctx, selectRecords+` WHERE r.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]*game.Record, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.bind(query), args...)
	if err != nil {
		return nil, persistErr("querying records", err)
	}
	defer rows.Close()

	records := make([]*game.Record, 0)
	for rows.Next() {
		var (
			r                      game.Record
			gameID                 sql.NullInt64
			memo                   sql.NullString
			joinedID               sql.NullInt64
			code, date, home, away sql.NullString
			g                      game.Game
		)
		err := rows.Scan(
			&r.ID, &gameID, &r.Place, &memo, &r.CreatedAt,
			&joinedID, &code, &date, &home, &away,
			&g.HomeScore, &g.AwayScore, &g.Stadium, &g.WinningPitcher, &g.LosingPitcher,
		)
		if err != nil {
			return nil, persistErr("reading record", err)
		}

		r.GameID = gameID.Int64
		r.Memo = memo.String
		if joinedID.Valid {
			g.ID = joinedID.Int64
			g.Code, g.Date, g.HomeTeam, g.AwayTeam = code.String, date.String, home.String, away.String
			r.Game = &g
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("reading records", err)
	}
	return records, nil
}

// DeleteRecords removes the records with the given ids and returns how many were deleted
func (s *Store) DeleteRecords(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	res, err := s.db.ExecContext(ctx, s.dialect.bind(`DELETE FROM records WHERE id IN (`+marks+`)`), args...)
	if err != nil {
		return 0, persistErr("deleting records", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, persistErr("deleting records", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
