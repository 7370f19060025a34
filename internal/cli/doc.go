// Package cli implements the kansen command-line interface.
//
// The scrape command is the batch trigger for the sync pipeline: it runs one
// or all months of a season and prints a report line per month. The remaining
// commands serve the HTTP trigger, maintain the game table and manage the
// personal visit records the games exist for.
package cli
