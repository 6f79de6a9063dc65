package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leagueforecast/internal/config"
	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/features"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/shared/testutil"
	"leagueforecast/internal/store"
	"leagueforecast/internal/xg"
)

var forecastTeams = []string{"Arsenal", "Chelsea", "Everton", "Leeds"}

func setupLeagueData(t *testing.T) *config.Paths {
	t.Helper()
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	for year := 2020; year <= 2024; year++ {
		code := testutil.SeasonCode(year)
		pl := []string{"Arsenal", "Chelsea", "Everton", "Fulham"}
		ch := []string{"Leeds", "Cardiff", "Hull", "Stoke"}
		if year == 2024 {
			pl = []string{"Arsenal", "Chelsea", "Everton", "Leeds"}
			ch = []string{"Fulham", "Cardiff", "Hull", "Stoke"}
		}
		testutil.WriteSeason(t, paths.PremierLeagueDir, "E0_"+code+".csv", year, pl)
		testutil.WriteSeason(t, paths.ChampionshipDir, "E1_"+code+".csv", year, ch)
	}
	return paths
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Model.Trees = 10
	cfg.Model.Workers = 2
	cfg.Forecast.Teams = forecastTeams
	return cfg
}

func TestPipeline_EndToEnd(t *testing.T) {
	ctx := context.Background()
	paths := setupLeagueData(t)
	st, err := store.Open(ctx, filepath.Join(paths.DataDir, "league.db"), quietLogger())
	require.NoError(t, err)
	defer st.Close()

	registry, err := NewDefaultRegistry(Deps{
		Config:   testConfig(),
		Paths:    paths,
		Logger:   quietLogger(),
		Store:    st,
		Impacts:  forecast.Impacts{"Arsenal": 2},
		Evaluate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{StepIDMerge, StepIDFeatures, StepIDXG, StepIDTrain}, registry.ListIDs())

	state, err := NewRunner(registry, nil, nil, quietLogger()).Run(ctx, Request{})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, state.Status)
	for _, id := range registry.ListIDs() {
		assert.Equal(t, StepStatusCompleted, state.GetStep(id).CurrentStatus(), id)
	}

	// 5 seasons x 2 leagues x 12 matches
	require.NotNil(t, state.Combined)
	assert.Len(t, state.Combined.Rows, 120)
	assert.Len(t, state.Features, 40)
	assert.Len(t, state.Complete, 40)

	for _, name := range []string{
		OutputCombined, OutputFeatures, OutputXGData, OutputComplete,
		OutputStandings, OutputWorkbook, OutputInputs, OutputImportances, OutputEvaluation,
		OutputEvaluationHistory,
	} {
		path, ok := state.Output(name)
		require.True(t, ok, name)
		assert.FileExists(t, path)
	}
	assert.Equal(t, "embedded", state.GetStep(StepIDXG).Metadata["source"])

	res := state.Result
	require.NotNil(t, res)
	assert.Equal(t, "2025/2026", res.Season)
	assert.Equal(t, 16, res.TrainRows)
	require.Len(t, res.Standings, 4)
	for i, s := range res.Standings {
		assert.Equal(t, i+1, s.Position)
		if s.Team == "Arsenal" {
			assert.Equal(t, 2.0, s.TransferImpact)
		}
	}

	require.NotNil(t, state.Evaluation)
	assert.Equal(t, "2023/2024", state.Evaluation.HoldoutSeason)
	assert.Equal(t, 12, state.Evaluation.TrainRows)

	run, err := st.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.RunID, run.ID)
	stored, err := st.Predictions(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Standings, stored)

	rows, err := st.TeamSeasons(ctx, "2024/2025")
	require.NoError(t, err)
	require.Len(t, rows, 8)
	for _, r := range rows {
		if r.Team == "Leeds" {
			assert.Equal(t, 1, r.PromotedFromChampionship)
		}
	}

	// The later steps can run alone from the files the first run wrote
	resumed, err := NewRunner(registry, nil, nil, quietLogger()).Run(ctx, Request{Steps: []string{StepIDTrain}})
	require.NoError(t, err)
	assert.Nil(t, resumed.Complete)
	assert.Equal(t, res.Standings, resumed.Result.Standings)
}

func TestPipeline_XGFromCSV(t *testing.T) {
	ctx := context.Background()
	paths := setupLeagueData(t)
	require.NoError(t, os.WriteFile(paths.XGDataCSV, []byte(
		"Team,Season,xG,xGA\nArsenal,2023/2024,76.1,27.9\nArsenal,2024/2025,60.0,33.5\n"), 0644))

	registry, err := NewDefaultRegistry(Deps{Config: testConfig(), Paths: paths, Logger: quietLogger()})
	require.NoError(t, err)

	state, err := NewRunner(registry, nil, nil, quietLogger()).Run(ctx, Request{
		Steps: []string{StepIDMerge, StepIDFeatures, StepIDXG},
	})
	require.NoError(t, err)
	assert.Equal(t, "csv", state.GetStep(StepIDXG).Metadata["source"])
	assert.Equal(t, 2, state.GetStep(StepIDXG).Metadata["covered_rows"])

	var arsenal []features.TeamSeason
	for _, r := range state.Complete {
		if r.Team == "Arsenal" {
			arsenal = append(arsenal, r)
		}
	}
	require.Len(t, arsenal, 5)
	last := arsenal[4]
	assert.Equal(t, features.Some(60), last.XG)
	assert.Equal(t, features.Some(76.1), last.PrevSeasonXG)
	assert.InDelta(t, 48.2, last.PrevSeasonXGDiff.Value, 1e-9)
	assert.Equal(t, features.Some(0), arsenal[0].XG)
}

func TestPipeline_XGFromHTMLKeepsOtherSeasons(t *testing.T) {
	ctx := context.Background()
	paths := setupLeagueData(t)

	registry, err := NewDefaultRegistry(Deps{Config: testConfig(), Paths: paths, Logger: quietLogger()})
	require.NoError(t, err)
	_, err = NewRunner(registry, nil, nil, quietLogger()).Run(ctx, Request{
		Steps: []string{StepIDMerge, StepIDFeatures, StepIDXG},
	})
	require.NoError(t, err)

	page := filepath.Join(t.TempDir(), "squads.html")
	require.NoError(t, os.WriteFile(page, []byte(`<table>
<thead><tr><th>Rk</th><th>Squad</th><th>xG</th><th>xGA</th></tr></thead>
<tbody><tr><th>1</th><td>Arsenal</td><td>61.0</td><td>33.0</td></tr></tbody>
</table>`), 0644))

	registry, err = NewDefaultRegistry(Deps{
		Config:   testConfig(),
		Paths:    paths,
		Logger:   quietLogger(),
		XGHTML:   page,
		XGSeason: "2024/2025",
	})
	require.NoError(t, err)
	state, err := NewRunner(registry, nil, nil, quietLogger()).Run(ctx, Request{Steps: []string{StepIDXG}})
	require.NoError(t, err)
	assert.Equal(t, "html", state.GetStep(StepIDXG).Metadata["source"])

	saved, err := xg.LoadCSV(paths.XGDataCSV, quietLogger())
	require.NoError(t, err)
	assert.Len(t, saved, len(xg.Embedded()))
	assert.Contains(t, saved, xg.Record{Team: "Arsenal", Season: "2023/2024", XG: 76.1, XGA: 27.9})
	assert.Contains(t, saved, xg.Record{Team: "Arsenal", Season: "2024/2025", XG: 61.0, XGA: 33.0})
	assert.NotContains(t, saved, xg.Record{Team: "Arsenal", Season: "2024/2025", XG: 59.9, XGA: 34.4})
}

func TestPipeline_MissingInput(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	registry, err := NewDefaultRegistry(Deps{Config: testConfig(), Paths: paths, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = NewRunner(registry, nil, nil, quietLogger()).Run(context.Background(), Request{Steps: []string{StepIDTrain}})
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.ErrorIs(t, err, apperrors.ErrNoInputFiles)

	_, err = NewRunner(registry, nil, nil, quietLogger()).Run(context.Background(), Request{Steps: []string{StepIDMerge}})
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.ErrorIs(t, err, apperrors.ErrNoInputFiles)
}

func TestPipeline_InputMissingColumns(t *testing.T) {
	paths := config.NewPaths(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.FeaturesCSV, []byte("Team,Season,Points\nArsenal,2023/2024,89\n"), 0644))

	registry, err := NewDefaultRegistry(Deps{Config: testConfig(), Paths: paths, Logger: quietLogger()})
	require.NoError(t, err)

	_, err = NewRunner(registry, nil, nil, quietLogger()).Run(context.Background(), Request{Steps: []string{StepIDXG}})
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)
}

type stubFetcher struct {
	seasons []string
}

func (f *stubFetcher) FetchAll(_ context.Context, seasons []string) ([]string, error) {
	f.seasons = seasons
	return []string{"a.csv", "b.csv"}, nil
}

func TestMergeStep_Fetches(t *testing.T) {
	paths := setupLeagueData(t)
	fetcher := &stubFetcher{}
	cfg := testConfig()
	cfg.Download.Seasons = []string{"2024/2025"}

	registry, err := NewDefaultRegistry(Deps{Config: cfg, Paths: paths, Logger: quietLogger(), Fetcher: fetcher})
	require.NoError(t, err)
	state, err := NewRunner(registry, nil, nil, quietLogger()).Run(context.Background(), Request{Steps: []string{StepIDMerge}})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024/2025"}, fetcher.seasons)
	assert.Equal(t, 2, state.GetStep(StepIDMerge).Metadata["downloaded"])
}
