// Package config provides centralized configuration management for the league
// forecast pipeline. It loads configuration from multiple sources, validates it
// and exposes the directory layout every command works against.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LEAGUE_<SECTION>_<FIELD>:
//
//	LEAGUE_LOGGING_LEVEL=debug
//	LEAGUE_PATHS_BASE_DIR=/srv/forecast
//	LEAGUE_MODEL_TREES=500
//	LEAGUE_FORECAST_TARGET_SEASON=2024/2025
//	LEAGUE_CONFIG_FILE=/etc/forecast/config.yaml
//
// # Path Management
//
// Paths lays out the data tree relative to a base directory, which defaults to
// the executable location:
//
//	paths, _ := cfg.ResolvePaths()
//	raw := paths.PremierLeagueDir
//	report := paths.GetReportPath("predicted_table.csv")
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time, and
// season strings must be in the canonical YYYY/YYYY form.
//
// # Testing
//
// Use Default() for a fully populated configuration that needs no environment
// and NewPaths(t.TempDir()) for an isolated directory tree.
package config
