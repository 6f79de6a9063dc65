package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"leagueforecast/internal/config"
	"leagueforecast/internal/infrastructure"
	"leagueforecast/internal/matches"
	"leagueforecast/internal/pipeline"
	"leagueforecast/internal/store"
)

const (
	AppName = "League Forecast"
	Version = "1.2.0"
)

// Environment is the shared runtime of one command invocation
type Environment struct {
	Command string
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	OTel    *infrastructure.OTelProviders
}

// Bootstrap prepares the environment for command. An empty configFile uses
// the default config file lookup.
func Bootstrap(command, configFile string) (*Environment, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewEnvironment(command, cfg)
}

// NewEnvironment is Bootstrap with an already loaded configuration
func NewEnvironment(command string, cfg *config.Config) (*Environment, error) {
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(infrastructure.CommandLogging(cfg, paths, command))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With(slog.String("command", command))

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, paths, command, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	logger.Info("starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("go", runtime.Version()),
		slog.String("base_dir", paths.BaseDir),
		slog.String("target_season", cfg.Forecast.TargetSeason),
	)

	return &Environment{
		Command: command,
		Config:  cfg,
		Paths:   paths,
		Logger:  logger,
		OTel:    providers,
	}, nil
}

// OpenStore opens the SQLite store, or returns nil when the store is disabled
func (e *Environment) OpenStore(ctx context.Context) (*store.Store, error) {
	if !e.Config.Store.Enabled {
		return nil, nil
	}
	return store.Open(ctx, e.Config.StorePath(e.Paths), e.Logger)
}

// PipelineDeps fills the shared part of pipeline.Deps. Callers set the
// per-command fields (fetcher, xG sources, impacts) on the result.
func (e *Environment) PipelineDeps(st *store.Store) pipeline.Deps {
	return pipeline.Deps{
		Config:  e.Config,
		Paths:   e.Paths,
		Metrics: e.OTel.Metrics,
		Logger:  e.Logger,
		Store:   st,
	}
}

// Downloader fetches raw season files using the download settings
func (e *Environment) Downloader() *matches.Downloader {
	return matches.NewDownloader(e.Config.Download, e.Paths, e.OTel.Metrics, e.Logger)
}

// Run executes steps with the default step set built from deps
func (e *Environment) Run(ctx context.Context, deps pipeline.Deps, steps ...string) (*pipeline.State, error) {
	registry, err := pipeline.NewDefaultRegistry(deps)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(registry, pipeline.NewConfig(), e.OTel.Metrics, e.Logger,
		pipeline.WithTracer(e.OTel.Tracer))
	return runner.Run(ctx, pipeline.Request{Steps: steps})
}

// MetricsFile is where Close writes the metrics snapshot
func (e *Environment) MetricsFile() string {
	if filepath.IsAbs(e.Config.Telemetry.MetricsFile) {
		return e.Config.Telemetry.MetricsFile
	}
	return e.Paths.GetReportPath(e.Config.Telemetry.MetricsFile)
}

// Close writes the metrics snapshot and shuts telemetry and logging down.
// Errors are logged rather than returned.
func (e *Environment) Close(ctx context.Context) {
	if e.OTel != nil {
		if err := e.OTel.WriteMetricsFile(e.MetricsFile()); err != nil {
			e.Logger.Warn("failed to write metrics file", slog.String("error", err.Error()))
		}
		if err := e.OTel.Shutdown(ctx); err != nil {
			e.Logger.Warn("failed to shut down telemetry", slog.String("error", err.Error()))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
}
