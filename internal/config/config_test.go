package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadFrom tests loading with env vars and YAML files
func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		yaml        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env and no file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "both", cfg.Logging.Output)

				assert.Equal(t, 10, cfg.Features.FormWindow)
				assert.Equal(t, 3, cfg.Features.RollingWindow)
				assert.Equal(t, 5.0, cfg.Features.ImpactScale)
				assert.Equal(t, 10.0, cfg.Features.ImpactClip)

				assert.Equal(t, 1000, cfg.Model.Trees)
				assert.Equal(t, 25, cfg.Model.MaxDepth)
				assert.Equal(t, 1, cfg.Model.MinSamplesLeaf)
				assert.Equal(t, int64(42), cfg.Model.Seed)

				assert.Equal(t, "2024/2025", cfg.Forecast.TargetSeason)
				assert.Equal(t, 6.0, cfg.Forecast.ImpactFactor)
				assert.Equal(t, "rollforward", cfg.Forecast.Projection)
				assert.Len(t, cfg.Forecast.Teams, 20)
				assert.Contains(t, cfg.Forecast.Teams, "Nott'm Forest")

				assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
				assert.Len(t, cfg.Download.Seasons, 5)
				assert.Equal(t, 8080, cfg.Server.Port)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"LEAGUE_MODEL_TREES":            "50",
				"LEAGUE_FORECAST_TARGET_SEASON": "2023/2024",
				"LEAGUE_FORECAST_TEAMS":         "Arsenal,Chelsea",
				"LEAGUE_LOGGING_LEVEL":          "debug",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 50, cfg.Model.Trees)
				assert.Equal(t, "2023/2024", cfg.Forecast.TargetSeason)
				assert.Equal(t, []string{"Arsenal", "Chelsea"}, cfg.Forecast.Teams)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "yaml file fills values not set in env",
			env: map[string]string{
				"LEAGUE_MODEL_TREES": "10",
			},
			yaml: `
model:
  trees: 300
  max_depth: 12
forecast:
  impact_factor: 4.5
  projection: asis
download:
  timeout: 5s
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10, cfg.Model.Trees, "env wins over file")
				assert.Equal(t, 12, cfg.Model.MaxDepth)
				assert.Equal(t, 4.5, cfg.Forecast.ImpactFactor)
				assert.Equal(t, "asis", cfg.Forecast.Projection)
			},
		},
		{
			name: "invalid target season",
			env: map[string]string{
				"LEAGUE_FORECAST_TARGET_SEASON": "2024-25",
			},
			wantErr: true,
		},
		{
			name: "non consecutive season",
			env: map[string]string{
				"LEAGUE_FORECAST_TARGET_SEASON": "2024/2026",
			},
			wantErr: true,
		},
		{
			name: "invalid projection",
			env: map[string]string{
				"LEAGUE_FORECAST_PROJECTION": "sideways",
			},
			wantErr: true,
		},
		{
			name: "invalid log output",
			env: map[string]string{
				"LEAGUE_LOGGING_OUTPUT": "syslog",
			},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "model: [unterminated",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := ""
			if tt.yaml != "" {
				configFile = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.yaml), 0644))
			}

			cfg, err := LoadFrom(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultTrees, cfg.Model.Trees)
	assert.Equal(t, DefaultTargetSeason, cfg.Forecast.TargetSeason)
	assert.Equal(t, DefaultForecastTeams, cfg.Forecast.Teams)

	// Mutating the copy must not touch the package default
	cfg.Forecast.Teams[0] = "Changed"
	assert.Equal(t, "Arsenal", DefaultForecastTeams[0])
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "data", DefaultStoreFile), cfg.StorePath(paths))

	cfg.Store.File = filepath.Join(base, "elsewhere.db")
	assert.Equal(t, filepath.Join(base, "elsewhere.db"), cfg.StorePath(paths))
}

func TestParseSeasonStrict(t *testing.T) {
	first, err := parseSeasonStrict("2019/2020")
	require.NoError(t, err)
	assert.Equal(t, 2019, first)

	for _, bad := range []string{"", "2019/20", "2019-2020", "2019/2021", "abcd/efgh"} {
		_, err := parseSeasonStrict(bad)
		assert.Error(t, err, bad)
	}
}
