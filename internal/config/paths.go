package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for ALL file paths in the application
type Paths struct {
	BaseDir          string
	DataDir          string
	PremierLeagueDir string
	ChampionshipDir  string
	CacheDir         string
	ReportsDir       string
	LogsDir          string

	// Well-known pipeline files
	CombinedDataCSV     string
	FeaturesCSV         string
	XGDataCSV           string
	CompleteFeaturesCSV string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	if logger := slog.Default(); logger != nil {
		logger.Debug("Resolved executable directory",
			slog.String("exe_path", exe),
			slog.String("exe_dir", exeDir))
	}

	return NewPaths(exeDir), nil
}

// NewPaths lays out the directory tree under baseDir:
//
//	base/
//	  ├── data/
//	  │   ├── premier_league/   (raw season CSVs)
//	  │   ├── championship/     (raw season CSVs)
//	  │   ├── cache/            (downloaded files)
//	  │   └── reports/          (predicted tables, metrics)
//	  └── logs/
func NewPaths(baseDir string) *Paths {
	dataDir := filepath.Join(baseDir, "data")

	return &Paths{
		BaseDir:          baseDir,
		DataDir:          dataDir,
		PremierLeagueDir: filepath.Join(dataDir, LeagueDirs[LeaguePremier]),
		ChampionshipDir:  filepath.Join(dataDir, LeagueDirs[LeagueChampionship]),
		CacheDir:         filepath.Join(dataDir, "cache"),
		ReportsDir:       filepath.Join(dataDir, "reports"),
		LogsDir:          filepath.Join(baseDir, "logs"),

		CombinedDataCSV:     filepath.Join(dataDir, CombinedDataFile),
		FeaturesCSV:         filepath.Join(dataDir, FeaturesFile),
		XGDataCSV:           filepath.Join(dataDir, XGDataFile),
		CompleteFeaturesCSV: filepath.Join(dataDir, CompleteFeaturesFile),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.PremierLeagueDir,
		p.ChampionshipDir,
		p.CacheDir,
		p.ReportsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// LeagueDir returns the raw data directory for a league name
func (p *Paths) LeagueDir(league string) (string, error) {
	switch league {
	case LeaguePremier:
		return p.PremierLeagueDir, nil
	case LeagueChampionship:
		return p.ChampionshipDir, nil
	default:
		return "", fmt.Errorf("unknown league %q", league)
	}
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetCachePath returns the path for a cache file
func (p *Paths) GetCachePath(filename string) string {
	return filepath.Join(p.CacheDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs detailed path resolution information for debugging
func (p *Paths) LogPathResolution() {
	logger := slog.Default()

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("premier_league", p.PremierLeagueDir),
			slog.String("championship", p.ChampionshipDir),
			slog.String("cache", p.CacheDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		),
		slog.Group("pipeline_files",
			slog.String("combined", p.CombinedDataCSV),
			slog.String("features", p.FeaturesCSV),
			slog.String("xg", p.XGDataCSV),
			slog.String("complete", p.CompleteFeaturesCSV),
		))
}
