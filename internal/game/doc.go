// Package game provides the types shared by the schedule pipeline, the store and the
// statistics code.
//
// A Game is one scheduled or played NPB game as extracted from the schedule page.
// Its Code is a deterministic identity key built from the date and both team names,
// so repeated extraction of the same game always yields the same key even after
// scores and pitchers are published. A Record is a personal visit record attached
// to a stored Game.
package game
