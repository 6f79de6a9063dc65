// Package xg attaches expected-goals figures to the team-season feature
// table.
//
// Records come from the built-in dataset, a Team,Season,xG,xGA CSV file, or
// an fbref-style HTML squad stats table. Merge left-joins them onto feature
// rows, derives xG_diff and the lagged xG columns, and zero-fills whatever
// is still missing.
package xg
