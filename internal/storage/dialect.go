package storage

import (
	"fmt"
	"strings"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// gameColumns is the column order used by every games write
var gameColumns = []string{
	"game_code", "date", "home_team", "away_team",
	"home_score", "away_score", "stadium", "winning_pitcher", "losing_pitcher",
}

type dialect struct {
	name        string
	schema      []string
	placeholder func(n int) string // n is 1-based
	upsert      func(table, key string, cols []string) string
	returningID bool
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case DriverSQLite, "":
		return sqliteDialect, nil
	case DriverPostgres:
		return postgresDialect, nil
	case DriverMySQL:
		return mysqlDialect, nil
	}
	return dialect{}, fmt.Errorf("unsupported driver %q (want sqlite, postgres or mysql)", driver)
}

// bind rewrites a query written with ? placeholders into the dialect's style
func (d dialect) bind(query string) string {
	if d.name != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// upsertGames builds one INSERT for rows games
func (d dialect) upsertGames(rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO games (")
	b.WriteString(strings.Join(gameColumns, ", "))
	b.WriteString(") VALUES ")

	n := 0
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range gameColumns {
			if j > 0 {
				b.WriteString(", ")
			}
			n++
			b.WriteString(d.placeholder(n))
		}
		b.WriteString(")")
	}

	b.WriteString(" ")
	b.WriteString(d.upsert("games", "game_code", gameColumns[1:]))
	return b.String()
}

func questionMark(int) string { return "?" }

func onConflictExcluded(table, key string, cols []string) string {
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}
	return fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", key, strings.Join(sets, ", "))
}

var sqliteDialect = dialect{
	name:        DriverSQLite,
	placeholder: questionMark,
	upsert:      onConflictExcluded,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_code TEXT NOT NULL UNIQUE,
			date TEXT NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			home_score INTEGER,
			away_score INTEGER,
			stadium TEXT,
			winning_pitcher TEXT,
			losing_pitcher TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_date ON games(date)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id INTEGER REFERENCES games(id),
			place TEXT NOT NULL,
			memo TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_game ON records(game_id)`,
	},
}

var postgresDialect = dialect{
	name:        DriverPostgres,
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	upsert:      onConflictExcluded,
	returningID: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			game_code TEXT NOT NULL UNIQUE,
			date TEXT NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			home_score INTEGER,
			away_score INTEGER,
			stadium TEXT,
			winning_pitcher TEXT,
			losing_pitcher TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_date ON games(date)`,
		`CREATE TABLE IF NOT EXISTS records (
			id BIGSERIAL PRIMARY KEY,
			game_id BIGINT REFERENCES games(id),
			place TEXT NOT NULL,
			memo TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_game ON records(game_id)`,
	},
}

var mysqlDialect = dialect{
	name:        DriverMySQL,
	placeholder: questionMark,
	upsert: func(_, _ string, cols []string) string {
		sets := make([]string, len(cols))
		for i, c := range cols {
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
		}
		return "ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	},
	schema: []string{
		`CREATE TABLE IF NOT EXISTS games (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			game_code VARCHAR(191) NOT NULL UNIQUE,
			date VARCHAR(10) NOT NULL,
			home_team VARCHAR(64) NOT NULL,
			away_team VARCHAR(64) NOT NULL,
			home_score INT NULL,
			away_score INT NULL,
			stadium VARCHAR(128) NULL,
			winning_pitcher VARCHAR(128) NULL,
			losing_pitcher VARCHAR(128) NULL,
			INDEX idx_games_date (date)
		) DEFAULT CHARSET = utf8mb4`,
		`CREATE TABLE IF NOT EXISTS records (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			game_id BIGINT NULL,
			place VARCHAR(128) NOT NULL,
			memo TEXT NULL,
			created_at DATETIME NOT NULL,
			INDEX idx_records_game (game_id),
			FOREIGN KEY (game_id) REFERENCES games(id)
		) DEFAULT CHARSET = utf8mb4`,
	},
}
