// Package scraper fetches and parses the monthly NPB schedule pages.
//
// A Fetcher downloads the raw schedule document for one year and month from
// npb.jp. ParseGames turns that document into game records: every table row whose
// id starts with "date" is one game, the row id carries the month and day, and the
// team, score, stadium and pitcher cells are read by class name. Rows without both
// team names are dropped. Parsing is pure and has no network access.
package scraper
