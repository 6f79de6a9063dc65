package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Download  DownloadConfig  `yaml:"download" envconfig:"DOWNLOAD"`
	Features  FeaturesConfig  `yaml:"features" envconfig:"FEATURES"`
	Model     ModelConfig     `yaml:"model" envconfig:"MODEL"`
	Forecast  ForecastConfig  `yaml:"forecast" envconfig:"FORECAST"`
	Store     StoreConfig     `yaml:"store" envconfig:"STORE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=stdout console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// PathsConfig contains file system paths configuration.
// An empty BaseDir means the executable directory.
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
}

// DownloadConfig controls fetching raw season files from football-data.co.uk
type DownloadConfig struct {
	BaseURL   string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://www.football-data.co.uk/mmz4281" validate:"url"`
	Seasons   []string      `yaml:"seasons" envconfig:"SEASONS" default:"2020/2021,2021/2022,2022/2023,2023/2024,2024/2025"`
	RPS       float64       `yaml:"rps" envconfig:"RPS" default:"1" validate:"gt=0"`
	Burst     int           `yaml:"burst" envconfig:"BURST" default:"1" validate:"gte=1"`
	Timeout   time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
	UseCache  bool          `yaml:"use_cache" envconfig:"USE_CACHE" default:"true"`
	UserAgent string        `yaml:"user_agent" envconfig:"USER_AGENT" default:"leagueforecast/1.0"`
}

// FeaturesConfig tunes the team-season feature engineering
type FeaturesConfig struct {
	FormWindow    int     `yaml:"form_window" envconfig:"FORM_WINDOW" default:"10" validate:"gte=1"`
	RollingWindow int     `yaml:"rolling_window" envconfig:"ROLLING_WINDOW" default:"3" validate:"gte=1"`
	ImpactScale   float64 `yaml:"impact_scale" envconfig:"IMPACT_SCALE" default:"5" validate:"gt=0"`
	ImpactClip    float64 `yaml:"impact_clip" envconfig:"IMPACT_CLIP" default:"10" validate:"gt=0"`
}

// ModelConfig holds the random forest hyperparameters
type ModelConfig struct {
	Trees           int   `yaml:"trees" envconfig:"TREES" default:"1000" validate:"gte=1"`
	MaxDepth        int   `yaml:"max_depth" envconfig:"MAX_DEPTH" default:"25" validate:"gte=0"`
	MinSamplesSplit int   `yaml:"min_samples_split" envconfig:"MIN_SAMPLES_SPLIT" default:"2" validate:"gte=2"`
	MinSamplesLeaf  int   `yaml:"min_samples_leaf" envconfig:"MIN_SAMPLES_LEAF" default:"1" validate:"gte=1"`
	MaxFeatures     int   `yaml:"max_features" envconfig:"MAX_FEATURES" default:"0" validate:"gte=0"`
	Seed            int64 `yaml:"seed" envconfig:"SEED" default:"42"`
	Workers         int   `yaml:"workers" envconfig:"WORKERS" default:"0" validate:"gte=0"`
	// NoBootstrap grows every tree on the full training set
	NoBootstrap bool `yaml:"no_bootstrap" envconfig:"NO_BOOTSTRAP"`
}

// ForecastConfig describes the season being forecast
type ForecastConfig struct {
	TargetSeason  string   `yaml:"target_season" envconfig:"TARGET_SEASON" default:"2024/2025" validate:"required"`
	ImpactFactor  float64  `yaml:"impact_factor" envconfig:"IMPACT_FACTOR" default:"6.0"`
	Teams         []string `yaml:"teams" envconfig:"TEAMS"`
	Projection    string   `yaml:"projection" envconfig:"PROJECTION" default:"rollforward" validate:"oneof=rollforward asis"`
	HoldoutSeason string   `yaml:"holdout_season" envconfig:"HOLDOUT_SEASON"`
}

// StoreConfig controls the SQLite feature and prediction store
type StoreConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	File    string `yaml:"file" envconfig:"FILE" default:"league.db"`
}

// TelemetryConfig selects tracing and metrics exporters
type TelemetryConfig struct {
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"file" validate:"oneof=stdout file none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0" validate:"gte=0,lte=1"`
	MetricsFile    string  `yaml:"metrics_file" envconfig:"METRICS_FILE" default:"metrics.prom"`
}

// ServerConfig contains HTTP configuration for the report viewer
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	RateLimit       float64       `yaml:"rate_limit" envconfig:"RATE_LIMIT" default:"20" validate:"gte=0"`
	RateBurst       int           `yaml:"rate_burst" envconfig:"RATE_BURST" default:"40" validate:"gte=0"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if len(cfg.Forecast.Teams) == 0 {
		cfg.Forecast.Teams = append([]string(nil), DefaultForecastTeams...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. Values explicitly set in
// the environment win; otherwise a non-zero file value replaces the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	out := envConfig

	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		out.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		out.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && !envSet("LOGGING_FILE_PATH") {
		out.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if fileConfig.Paths.BaseDir != "" && !envSet("PATHS_BASE_DIR") {
		out.Paths.BaseDir = fileConfig.Paths.BaseDir
	}

	if fileConfig.Download.BaseURL != "" && !envSet("DOWNLOAD_BASE_URL") {
		out.Download.BaseURL = fileConfig.Download.BaseURL
	}
	if len(fileConfig.Download.Seasons) > 0 && !envSet("DOWNLOAD_SEASONS") {
		out.Download.Seasons = fileConfig.Download.Seasons
	}
	if fileConfig.Download.RPS > 0 && !envSet("DOWNLOAD_RPS") {
		out.Download.RPS = fileConfig.Download.RPS
	}

	if fileConfig.Features.FormWindow > 0 && !envSet("FEATURES_FORM_WINDOW") {
		out.Features.FormWindow = fileConfig.Features.FormWindow
	}
	if fileConfig.Features.RollingWindow > 0 && !envSet("FEATURES_ROLLING_WINDOW") {
		out.Features.RollingWindow = fileConfig.Features.RollingWindow
	}

	if fileConfig.Model.Trees > 0 && !envSet("MODEL_TREES") {
		out.Model.Trees = fileConfig.Model.Trees
	}
	if fileConfig.Model.MaxDepth > 0 && !envSet("MODEL_MAX_DEPTH") {
		out.Model.MaxDepth = fileConfig.Model.MaxDepth
	}
	if fileConfig.Model.Seed != 0 && !envSet("MODEL_SEED") {
		out.Model.Seed = fileConfig.Model.Seed
	}
	if fileConfig.Model.Workers > 0 && !envSet("MODEL_WORKERS") {
		out.Model.Workers = fileConfig.Model.Workers
	}

	if fileConfig.Forecast.TargetSeason != "" && !envSet("FORECAST_TARGET_SEASON") {
		out.Forecast.TargetSeason = fileConfig.Forecast.TargetSeason
	}
	if fileConfig.Forecast.ImpactFactor != 0 && !envSet("FORECAST_IMPACT_FACTOR") {
		out.Forecast.ImpactFactor = fileConfig.Forecast.ImpactFactor
	}
	if len(fileConfig.Forecast.Teams) > 0 && !envSet("FORECAST_TEAMS") {
		out.Forecast.Teams = fileConfig.Forecast.Teams
	}
	if fileConfig.Forecast.Projection != "" && !envSet("FORECAST_PROJECTION") {
		out.Forecast.Projection = fileConfig.Forecast.Projection
	}
	if fileConfig.Forecast.HoldoutSeason != "" && !envSet("FORECAST_HOLDOUT_SEASON") {
		out.Forecast.HoldoutSeason = fileConfig.Forecast.HoldoutSeason
	}

	if fileConfig.Store.File != "" && !envSet("STORE_FILE") {
		out.Store.File = fileConfig.Store.File
	}
	if fileConfig.Telemetry.TraceExporter != "" && !envSet("TELEMETRY_TRACE_EXPORTER") {
		out.Telemetry.TraceExporter = fileConfig.Telemetry.TraceExporter
	}
	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		out.Server.Port = fileConfig.Server.Port
	}

	return out
}

func envSet(suffix string) bool {
	_, ok := os.LookupEnv(EnvPrefix + "_" + suffix)
	return ok
}

// Validate checks struct tags and cross-field rules
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	// Always JSON, matching the log pipeline expectations
	c.Logging.Format = "json"
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if _, err := parseSeasonStrict(c.Forecast.TargetSeason); err != nil {
		return fmt.Errorf("forecast target season: %w", err)
	}
	if c.Forecast.HoldoutSeason != "" {
		if _, err := parseSeasonStrict(c.Forecast.HoldoutSeason); err != nil {
			return fmt.Errorf("forecast holdout season: %w", err)
		}
	}
	return nil
}

// ResolvePaths returns the Paths for this configuration
func (c *Config) ResolvePaths() (*Paths, error) {
	if c.Paths.BaseDir != "" {
		base, err := filepath.Abs(c.Paths.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve base dir: %w", err)
		}
		return NewPaths(base), nil
	}
	return GetPaths()
}

// StorePath returns the absolute location of the SQLite database
func (c *Config) StorePath(paths *Paths) string {
	if filepath.IsAbs(c.Store.File) {
		return c.Store.File
	}
	return filepath.Join(paths.DataDir, c.Store.File)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Download: DownloadConfig{
			BaseURL:   DefaultDownloadBaseURL,
			Seasons:   []string{"2020/2021", "2021/2022", "2022/2023", "2023/2024", "2024/2025"},
			RPS:       1,
			Burst:     1,
			Timeout:   DefaultHTTPTimeout,
			UseCache:  true,
			UserAgent: "leagueforecast/1.0",
		},
		Features: FeaturesConfig{
			FormWindow:    DefaultFormWindow,
			RollingWindow: DefaultRollingWindow,
			ImpactScale:   DefaultImpactScale,
			ImpactClip:    DefaultImpactClip,
		},
		Model: ModelConfig{
			Trees:           DefaultTrees,
			MaxDepth:        DefaultMaxDepth,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			Seed:            DefaultSeed,
		},
		Forecast: ForecastConfig{
			TargetSeason: DefaultTargetSeason,
			ImpactFactor: DefaultImpactFactor,
			Teams:        append([]string(nil), DefaultForecastTeams...),
			Projection:   "rollforward",
		},
		Store: StoreConfig{
			Enabled: true,
			File:    DefaultStoreFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "file",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
			MetricsFile:    "metrics.prom",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
			RateLimit:       20,
			RateBurst:       40,
		},
	}
}
