package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"leagueforecast/internal/config"
	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/exporter"
	"leagueforecast/internal/features"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/infrastructure"
	"leagueforecast/internal/matches"
	"leagueforecast/internal/store"
	"leagueforecast/internal/validation"
	"leagueforecast/internal/xg"
)

// Output names recorded in State.Outputs
const (
	OutputCombined    = "combined"
	OutputFeatures    = "features"
	OutputXGData      = "xg_data"
	OutputComplete    = "complete_features"
	OutputStandings   = "standings"
	OutputWorkbook    = "workbook"
	OutputInputs      = "inputs"
	OutputImportances = "importances"
	OutputEvaluation  = "evaluation"

	OutputEvaluationHistory = "evaluation_history"
)

// Report file names written by the train step
const (
	InputsFile      = "prediction_inputs.csv"
	ImportancesFile = "feature_importances.csv"
)

// Fetcher downloads raw season files into the league directories
type Fetcher interface {
	FetchAll(ctx context.Context, seasons []string) ([]string, error)
}

// Deps are the shared collaborators of the concrete steps
type Deps struct {
	Config  *config.Config
	Paths   *config.Paths
	Metrics *infrastructure.PipelineMetrics
	Logger  *slog.Logger

	// Store is optional; nil skips persistence
	Store *store.Store
	// Fetcher is optional; nil merges the files already on disk
	Fetcher Fetcher
	// XGFile overrides data/xg_data.csv; XGHTML and XGSeason import an
	// FBref-style squad table instead
	XGFile   string
	XGHTML   string
	XGSeason string
	// Impacts supplies transfer impacts; nil means none
	Impacts forecast.ImpactSource
	// Evaluate runs the hold-out evaluation after the forecast
	Evaluate bool
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// DefaultSteps returns the four stages in execution order
func DefaultSteps(d Deps) []Step {
	return []Step{
		NewMergeStep(d),
		NewFeaturesStep(d),
		NewXGStep(d),
		NewTrainStep(d),
	}
}

// NewDefaultRegistry registers DefaultSteps
func NewDefaultRegistry(d Deps) (*Registry, error) {
	registry := NewRegistry()
	for _, step := range DefaultSteps(d) {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// MergeStep combines the raw season files of both leagues
type MergeStep struct {
	BaseStep
	deps   Deps
	files  *validation.FileValidator
	logger *slog.Logger
}

// NewMergeStep creates the merge step
func NewMergeStep(d Deps) *MergeStep {
	logger := d.logger().With(slog.String("step", StepIDMerge))
	return &MergeStep{
		BaseStep: NewBaseStep(StepIDMerge, StepNameMerge),
		deps:     d,
		files:    validation.NewFileValidator(logger),
		logger:   logger,
	}
}

// Validate requires a writable data directory and, unless seasons are
// downloaded first, at least one raw season file
func (s *MergeStep) Validate(*State) error {
	if err := s.files.ValidateOutputDirectory(s.deps.Paths.DataDir); err != nil {
		return err
	}
	if s.deps.Fetcher != nil {
		return nil
	}
	_, err := s.files.ValidateInputDirectories(s.deps.Paths.PremierLeagueDir, s.deps.Paths.ChampionshipDir)
	return err
}

// Execute optionally downloads the configured seasons, then merges every
// league CSV into the combined data file
func (s *MergeStep) Execute(ctx context.Context, state *State) error {
	if s.deps.Fetcher != nil {
		written, err := s.deps.Fetcher.FetchAll(ctx, s.deps.Config.Download.Seasons)
		if err != nil {
			return fmt.Errorf("failed to download seasons: %w", err)
		}
		state.GetStep(s.ID()).SetMetadata("downloaded", len(written))
	}

	loaded, err := matches.LoadLeagues(ctx, s.deps.Paths, s.logger)
	if err != nil {
		return err
	}
	if err := loaded.Table.WriteFile(s.deps.Paths.CombinedDataCSV); err != nil {
		return fmt.Errorf("failed to write combined data: %w", err)
	}

	state.Combined = loaded.Table
	state.AddOutput(OutputCombined, s.deps.Paths.CombinedDataCSV)
	step := state.GetStep(s.ID())
	step.SetMetadata("files", len(loaded.Files))
	step.SetMetadata("rows", len(loaded.Table.Rows))
	s.deps.Metrics.RecordRows(ctx, StepIDMerge, "matches", len(loaded.Table.Rows))

	s.logger.InfoContext(ctx, "Merged season files",
		slog.Int("files", len(loaded.Files)),
		slog.Int("rows", len(loaded.Table.Rows)),
		slog.String("output", s.deps.Paths.CombinedDataCSV))
	return nil
}

// FeaturesStep builds the team-season feature table
type FeaturesStep struct {
	BaseStep
	deps     Deps
	exporter *exporter.FeatureExporter
	files    *validation.FileValidator
	logger   *slog.Logger
}

// NewFeaturesStep creates the features step
func NewFeaturesStep(d Deps) *FeaturesStep {
	logger := d.logger().With(slog.String("step", StepIDFeatures))
	return &FeaturesStep{
		BaseStep: NewBaseStep(StepIDFeatures, StepNameFeatures),
		deps:     d,
		exporter: exporter.NewFeatureExporter(d.Paths, logger),
		files:    validation.NewFileValidator(logger),
		logger:   logger,
	}
}

// Validate requires merged match data in the state or on disk
func (s *FeaturesStep) Validate(state *State) error {
	return requireInput(s.files, state.Combined != nil, s.deps.Paths.CombinedDataCSV, matches.RequiredColumns...)
}

// Execute derives the features and writes them without xG columns
func (s *FeaturesStep) Execute(ctx context.Context, state *State) error {
	table := state.Combined
	if table == nil {
		var err error
		if table, err = matches.ReadCSVFile(s.deps.Paths.CombinedDataCSV); err != nil {
			return err
		}
	}

	results, skipped, err := matches.NewParser(s.logger).Results(table)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := features.Build(results, features.OptionsFromConfig(s.deps.Config.Features))
	path, err := s.exporter.ExportFeatures(rows, false, s.deps.Paths.FeaturesCSV)
	if err != nil {
		return err
	}
	if err := saveRows(ctx, s.deps.Store, rows); err != nil {
		return err
	}

	state.Features = rows
	state.AddOutput(OutputFeatures, path)
	step := state.GetStep(s.ID())
	step.SetMetadata("matches", len(results))
	step.SetMetadata("skipped", skipped)
	step.SetMetadata("team_seasons", len(rows))
	s.deps.Metrics.RecordRows(ctx, StepIDFeatures, "team_seasons", len(rows))

	s.logger.InfoContext(ctx, "Built team-season features",
		slog.Int("matches", len(results)),
		slog.Int("skipped", skipped),
		slog.Int("team_seasons", len(rows)),
		slog.String("output", path))
	return nil
}

// XGStep merges expected-goals data into the feature table
type XGStep struct {
	BaseStep
	deps     Deps
	exporter *exporter.FeatureExporter
	files    *validation.FileValidator
	logger   *slog.Logger
}

// NewXGStep creates the xG step
func NewXGStep(d Deps) *XGStep {
	logger := d.logger().With(slog.String("step", StepIDXG))
	return &XGStep{
		BaseStep: NewBaseStep(StepIDXG, StepNameXG),
		deps:     d,
		exporter: exporter.NewFeatureExporter(d.Paths, logger),
		files:    validation.NewFileValidator(logger),
		logger:   logger,
	}
}

// Validate requires the feature table in the state or on disk
func (s *XGStep) Validate(state *State) error {
	if s.deps.XGHTML != "" && s.deps.XGSeason == "" {
		return fmt.Errorf("an HTML xG table needs its season")
	}
	if s.deps.XGHTML != "" {
		if err := s.files.ValidateFile(s.deps.XGHTML); err != nil {
			return err
		}
	} else if s.deps.XGFile != "" && config.FileExists(s.deps.XGFile) {
		if err := s.files.ValidateCSVHeader(s.deps.XGFile, xg.ColTeam, xg.ColSeason, xg.ColXG, xg.ColXGA); err != nil {
			return err
		}
	}
	return requireInput(s.files, state.Features != nil, s.deps.Paths.FeaturesCSV, features.Header(false)...)
}

// Execute loads xG records, left-joins them onto the features and writes
// the complete table
func (s *XGStep) Execute(ctx context.Context, state *State) error {
	rows := state.Features
	if rows == nil {
		var err error
		if rows, _, err = features.ReadCSV(s.deps.Paths.FeaturesCSV); err != nil {
			return err
		}
	}

	records, source, err := s.records(state)
	if err != nil {
		return err
	}

	complete, err := xg.Merge(rows, records)
	if err != nil {
		return err
	}
	path, err := s.exporter.ExportFeatures(complete, true, s.deps.Paths.CompleteFeaturesCSV)
	if err != nil {
		return err
	}
	if err := saveRows(ctx, s.deps.Store, complete); err != nil {
		return err
	}

	covered := xg.Coverage(rows, records)
	state.Complete = complete
	state.AddOutput(OutputComplete, path)
	step := state.GetStep(s.ID())
	step.SetMetadata("source", source)
	step.SetMetadata("records", len(records))
	step.SetMetadata("covered_rows", covered)
	s.deps.Metrics.RecordRows(ctx, StepIDXG, "xg_records", len(records))

	s.logger.InfoContext(ctx, "Merged expected goals",
		slog.String("source", source),
		slog.Int("records", len(records)),
		slog.Int("rows", len(complete)),
		slog.Int("covered_rows", covered),
		slog.String("output", path))
	return nil
}

// records picks the xG source: an HTML table, the xG CSV when present, or
// the embedded dataset. An HTML table updates the seasons it covers on top
// of the xG CSV (or the embedded dataset) and the result is saved as the
// xG CSV. Embedded records are saved the same way.
func (s *XGStep) records(state *State) ([]xg.Record, string, error) {
	csvPath := s.deps.XGFile
	if csvPath == "" {
		csvPath = s.deps.Paths.XGDataCSV
	}

	var records []xg.Record
	var source string
	switch {
	case s.deps.XGHTML != "":
		f, err := os.Open(s.deps.XGHTML)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open xG table: %w", err)
		}
		defer f.Close()
		imported, err := xg.ParseHTMLTable(f, s.deps.XGSeason, xg.HTMLOptions{})
		if err != nil {
			return nil, "", err
		}
		base := xg.Embedded()
		if config.FileExists(csvPath) {
			if base, err = xg.LoadCSV(csvPath, s.logger); err != nil {
				return nil, "", err
			}
		}
		records = xg.Overlay(base, imported)
		source = "html"
	case config.FileExists(csvPath):
		loaded, err := xg.LoadCSV(csvPath, s.logger)
		if err != nil {
			return nil, "", err
		}
		state.AddOutput(OutputXGData, csvPath)
		return loaded, "csv", nil
	default:
		records = xg.Embedded()
		source = "embedded"
	}

	if err := xg.WriteCSV(csvPath, records); err != nil {
		return nil, "", fmt.Errorf("failed to save xG data: %w", err)
	}
	state.AddOutput(OutputXGData, csvPath)
	return records, source, nil
}

// TrainStep fits the models and predicts the next season's table
type TrainStep struct {
	BaseStep
	deps      Deps
	standings *exporter.StandingsExporter
	files     *validation.FileValidator
	logger    *slog.Logger
}

// NewTrainStep creates the train step
func NewTrainStep(d Deps) *TrainStep {
	logger := d.logger().With(slog.String("step", StepIDTrain))
	return &TrainStep{
		BaseStep:  NewBaseStep(StepIDTrain, StepNameTrain),
		deps:      d,
		standings: exporter.NewStandingsExporter(d.Paths, logger),
		files:     validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// Validate requires the complete feature table in the state or on disk
func (s *TrainStep) Validate(state *State) error {
	return requireInput(s.files, state.Complete != nil, s.deps.Paths.CompleteFeaturesCSV, features.Header(false)...)
}

// Execute forecasts, writes the reports and stores the run
func (s *TrainStep) Execute(ctx context.Context, state *State) error {
	rows := state.Complete
	if rows == nil {
		var err error
		if rows, _, err = features.ReadCSV(s.deps.Paths.CompleteFeaturesCSV); err != nil {
			return err
		}
	}

	forecaster, err := forecast.NewForecaster(forecast.OptionsFromConfig(s.deps.Config), s.deps.Metrics, s.logger)
	if err != nil {
		return err
	}
	res, err := forecaster.Forecast(ctx, rows, s.deps.Impacts)
	if err != nil {
		return err
	}
	state.Result = res

	if err := s.writeReports(state, res); err != nil {
		return err
	}

	if s.deps.Evaluate {
		eval, err := forecaster.Evaluate(ctx, rows)
		switch {
		case errors.Is(err, apperrors.ErrEmptyTrainingSet), errors.Is(err, apperrors.ErrEmptyPredictionSet):
			s.logger.WarnContext(ctx, "Skipping hold-out evaluation", slog.String("reason", err.Error()))
		case err != nil:
			return err
		default:
			path, err := s.standings.ExportEvaluation(eval, config.EvaluationFile)
			if err != nil {
				return err
			}
			state.Evaluation = eval
			state.AddOutput(OutputEvaluation, path)
			history, err := s.standings.AppendEvaluationHistory(eval, res.Season, time.Now(), config.EvaluationHistory)
			if err != nil {
				return err
			}
			state.AddOutput(OutputEvaluationHistory, history)
		}
	}

	if s.deps.Store != nil {
		run, err := s.deps.Store.SavePredictions(ctx, store.RunFromResult(res), res.Standings)
		if err != nil {
			return err
		}
		state.RunID = run.ID
	}

	step := state.GetStep(s.ID())
	step.SetMetadata("season", res.Season)
	step.SetMetadata("teams", len(res.Standings))
	step.SetMetadata("train_rows", res.TrainRows)
	if len(res.Missing) > 0 {
		step.SetMetadata("missing", res.Missing)
	}
	return nil
}

func (s *TrainStep) writeReports(state *State, res *forecast.Result) error {
	path, err := s.standings.ExportStandings(res.Standings, config.PredictionsFile)
	if err != nil {
		return err
	}
	state.AddOutput(OutputStandings, path)

	workbook := s.deps.Paths.GetReportPath(config.PredictionsWorkbook)
	if err := exporter.WriteStandingsXLSX(workbook, res.Season, res.Standings); err != nil {
		return err
	}
	state.AddOutput(OutputWorkbook, workbook)

	if path, err = s.standings.ExportInputs(res.Inputs, InputsFile); err != nil {
		return err
	}
	state.AddOutput(OutputInputs, path)

	if path, err = s.standings.ExportImportances(res.Importances, ImportancesFile); err != nil {
		return err
	}
	state.AddOutput(OutputImportances, path)
	return nil
}

// requireInput passes when the data is in the state, or its file exists and
// carries the given columns
func requireInput(v *validation.FileValidator, inState bool, path string, columns ...string) error {
	if inState {
		return nil
	}
	if !config.FileExists(path) {
		return fmt.Errorf("%w: %s", apperrors.ErrNoInputFiles, path)
	}
	return v.ValidateCSVHeader(path, columns...)
}

func saveRows(ctx context.Context, st *store.Store, rows []features.TeamSeason) error {
	if st == nil {
		return nil
	}
	return st.SaveTeamSeasons(ctx, rows)
}
