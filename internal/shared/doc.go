// Package shared holds helpers used across packages that belong to no
// single domain layer.
//
// testutil provides a capturing slog handler for asserting on log output
// and fixture writers for raw football-data.co.uk season files.
package shared
