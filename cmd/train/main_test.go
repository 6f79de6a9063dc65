package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueforecast/internal/app"
	"leagueforecast/internal/config"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/forest"
	"leagueforecast/internal/pipeline"
)

func TestImpactSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "impacts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("impacts:\n  Arsenal: 3\n"), 0644))

	tests := []struct {
		name    string
		opts    options
		check   func(t *testing.T, src forecast.ImpactSource)
		wantErr bool
	}{
		{
			name: "yaml file",
			opts: options{impacts: path},
			check: func(t *testing.T, src forecast.ImpactSource) {
				m, ok := src.(forecast.Impacts)
				require.True(t, ok)
				assert.Equal(t, 3.0, m.For("Arsenal"))
			},
		},
		{
			name: "no prompt",
			opts: options{noPrompt: true},
			check: func(t *testing.T, src forecast.ImpactSource) {
				assert.Nil(t, src)
			},
		},
		{
			name: "interactive",
			opts: options{},
			check: func(t *testing.T, src forecast.ImpactSource) {
				assert.IsType(t, &forecast.Prompter{}, src)
			},
		},
		{
			name:    "missing file",
			opts:    options{impacts: filepath.Join(t.TempDir(), "nope.yaml")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := impactSource(tt.opts, strings.NewReader(""), &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, src)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	env := &app.Environment{Config: config.Default()}
	require.NoError(t, applyOverrides(env, options{target: "2023/2024", projection: "asis"}))
	assert.Equal(t, "2023/2024", env.Config.Forecast.TargetSeason)
	assert.Equal(t, "asis", env.Config.Forecast.Projection)

	assert.Error(t, applyOverrides(env, options{projection: "sideways"}))
	env.Config = config.Default()
	assert.Error(t, applyOverrides(env, options{holdout: "2023"}))
}

func TestPrintResult(t *testing.T) {
	state := pipeline.NewState("run-1")
	state.Start()
	state.Result = &forecast.Result{
		Season:       "2025/2026",
		TargetSeason: "2024/2025",
		Standings: []forecast.Standing{
			{Position: 1, Team: "Liverpool", Points: 84, GoalsFor: 86, GoalsAgainst: 41, GoalDifference: 45},
		},
		Missing: []string{"Sunderland"},
	}
	state.Evaluation = &forecast.Evaluation{
		HoldoutSeason: "2023/2024",
		TrainRows:     60,
		TestRows:      20,
		Metrics: map[string]forest.Metrics{
			"Points": {MAE: 6.5, RMSE: 8.25, R2: 0.61, N: 20},
		},
	}
	state.MarkCompleted()

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, state))

	out := buf.String()
	assert.Contains(t, out, "Predicted Premier League table 2025/2026")
	assert.Contains(t, out, "Liverpool")
	assert.Contains(t, out, "No 2024/2025 data for: [Sunderland]")
	assert.Contains(t, out, "Hold-out 2023/2024 (60 training rows, 20 test rows)")
	assert.Regexp(t, `Points\s+MAE\s+6\.50\s+RMSE\s+8\.25\s+R2\s+0\.61`, out)
	assert.Contains(t, out, "Run run-1: completed")
}
