// Package store persists feature rows and prediction runs in a SQLite
// database through the pure-Go modernc.org/sqlite driver.
package store
