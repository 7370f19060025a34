// Package storage persists games and personal visit records in a SQL database.
//
// The same Store runs on SQLite (modernc.org/sqlite, the default), PostgreSQL
// (lib/pq) and MySQL (go-sql-driver/mysql); a small dialect value supplies the
// placeholder style, DDL and upsert clause for each. Games are written with a
// single conflict-aware INSERT keyed on game_code, so concurrent syncs of
// overlapping dates never duplicate rows and never need a read before the write.
package storage
