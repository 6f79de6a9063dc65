package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	p := NewPaths(base)

	assert.Equal(t, base, p.BaseDir)
	assert.Equal(t, filepath.Join(base, "data"), p.DataDir)
	assert.Equal(t, filepath.Join(base, "data", "premier_league"), p.PremierLeagueDir)
	assert.Equal(t, filepath.Join(base, "data", "championship"), p.ChampionshipDir)
	assert.Equal(t, filepath.Join(base, "data", "reports"), p.ReportsDir)
	assert.Equal(t, filepath.Join(base, "logs"), p.LogsDir)

	assert.Equal(t, filepath.Join(base, "data", "combined_data.csv"), p.CombinedDataCSV)
	assert.Equal(t, filepath.Join(base, "data", "final_features_with_form.csv"), p.FeaturesCSV)
	assert.Equal(t, filepath.Join(base, "data", "xg_data.csv"), p.XGDataCSV)
	assert.Equal(t, filepath.Join(base, "data", "final_features_complete.csv"), p.CompleteFeaturesCSV)
}

func TestPaths_EnsureDirectories(t *testing.T) {
	p := NewPaths(t.TempDir())
	require.NoError(t, p.EnsureDirectories())

	for _, dir := range []string{p.DataDir, p.PremierLeagueDir, p.ChampionshipDir, p.CacheDir, p.ReportsDir, p.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	// Idempotent
	require.NoError(t, p.EnsureDirectories())
}

func TestPaths_LeagueDir(t *testing.T) {
	p := NewPaths("/base")

	dir, err := p.LeagueDir(LeaguePremier)
	require.NoError(t, err)
	assert.Equal(t, p.PremierLeagueDir, dir)

	dir, err = p.LeagueDir(LeagueChampionship)
	require.NoError(t, err)
	assert.Equal(t, p.ChampionshipDir, dir)

	_, err = p.LeagueDir("La Liga")
	assert.Error(t, err)
}

func TestPaths_Helpers(t *testing.T) {
	p := NewPaths("/base")
	assert.Equal(t, filepath.Join("/base", "data", "reports", "x.csv"), p.GetReportPath("x.csv"))
	assert.Equal(t, filepath.Join("/base", "logs", "train.log"), p.GetLogPath("train.log"))
	assert.Equal(t, filepath.Join("/base", "data", "cache", "E0-2425.csv"), p.GetCachePath("E0-2425.csv"))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
}
