package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kansen-app/kansen/internal/game"
)

// maxRowsPerStatement keeps each INSERT well below every driver's bind variable limit
const maxRowsPerStatement = 500

const selectGames = `SELECT id, game_code, date, home_team, away_team,
	home_score, away_score, stadium, winning_pitcher, losing_pitcher FROM games`

// UpsertGames writes games keyed on their code. New codes are inserted; existing
// codes have every other column overwritten. Duplicate codes in the batch keep
// the last occurrence. It returns the number of games written.
func (s *Store) UpsertGames(ctx context.Context, games []*game.Game) (int, error) {
	batch := dedupe(games)
	if len(batch) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistErr("beginning transaction", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(batch); start += maxRowsPerStatement {
		end := min(start+maxRowsPerStatement, len(batch))
		chunk := batch[start:end]

		args := make([]any, 0, len(chunk)*len(gameColumns))
		for _, g := range chunk {
			args = append(args,
				g.Code, g.Date, g.HomeTeam, g.AwayTeam,
				g.HomeScore, g.AwayScore, g.Stadium, g.WinningPitcher, g.LosingPitcher,
			)
		}

		if _, err := tx.ExecContext(ctx, s.dialect.upsertGames(len(chunk)), args...); err != nil {
			return 0, persistErr("upserting games", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, persistErr("committing games", err)
	}
	return len(batch), nil
}

// dedupe drops invalid games and keeps the last game for each code, in
// first-seen order
func dedupe(games []*game.Game) []*game.Game {
	index := make(map[string]int, len(games))
	out := make([]*game.Game, 0, len(games))
	for _, g := range games {
		if !g.Valid() {
			continue
		}
		if i, seen := index[g.Code]; seen {
			out[i] = g
			continue
		}
		index[g.Code] = len(out)
		out = append(out, g)
	}
	return out
}

// GamesOn returns the games played on date (YYYY-MM-DD)
func (s *Store) GamesOn(ctx context.Context, date string) ([]*game.Game, error) {
	return s.queryGames(ctx, selectGames+` WHERE date = ? ORDER BY id`, date)
}

// Games returns every stored game, newest first
func (s *Store) Games(ctx context.Context) ([]*game.Game, error) {
	return s.queryGames(ctx, selectGames+` ORDER BY date DESC, id`)
}

// GameByCode returns the game with the given identity key
func (s *Store) GameByCode(ctx context.Context, code string) (*game.Game, error) {
	games, err := s.queryGames(ctx, selectGames+` WHERE game_code = ?`, code)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, ErrNotFound
	}
	return games[0], nil
}

func (s *Store) queryGames(ctx context.Context, query string, args ...any) ([]*game.Game, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.bind(query), args...)
	if err != nil {
		return nil, persistErr("querying games", err)
	}
	defer rows.Close()

	games := make([]*game.Game, 0)
	for rows.Next() {
		var g game.Game
		err := rows.Scan(
			&g.ID, &g.Code, &g.Date, &g.HomeTeam, &g.AwayTeam,
			&g.HomeScore, &g.AwayScore, &g.Stadium, &g.WinningPitcher, &g.LosingPitcher,
		)
		if err != nil {
			return nil, persistErr("reading game", err)
		}
		games = append(games, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("reading games", err)
	}
	return games, nil
}

// DeleteOrphanGames removes games that no visit record references
func (s *Store) DeleteOrphanGames(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM games WHERE id NOT IN (SELECT game_id FROM records WHERE game_id IS NOT NULL)`)
	if err != nil {
		return 0, persistErr("deleting unused games", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, persistErr("deleting unused games", err)
	}
	return n, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
