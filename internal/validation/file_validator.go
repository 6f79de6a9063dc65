package validation

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/files"
)

// FileValidator checks the inputs and outputs of the pipeline commands
// before any work starts.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "validation")),
	}
}

// ValidateInputDirectories checks that the raw league directories hold at
// least one season file between them. Missing directories are logged and
// skipped; the result is the number of season files found.
func (v *FileValidator) ValidateInputDirectories(dirs ...string) (int, error) {
	discovery := files.NewDiscovery("")
	total := 0
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			v.logger.Warn("Input directory does not exist",
				slog.String("directory", dir))
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to stat directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return 0, fmt.Errorf("%s is not a directory", dir)
		}

		found, err := discovery.FindCSVFiles(dir)
		if err != nil {
			return 0, err
		}
		v.logger.Debug("Input directory validated",
			slog.String("directory", dir),
			slog.Int("season_files", len(found)))
		total += len(found)
	}

	if total == 0 {
		return 0, fmt.Errorf("%w in %s", apperrors.ErrNoInputFiles, strings.Join(dirs, ", "))
	}
	return total, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVHeader checks that the CSV at path exists and that its header
// names every column in required.
func (v *FileValidator) ValidateCSVHeader(path string, required ...string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".csv" {
		return fmt.Errorf("file %s is not a CSV file (extension: %s)", path, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err == io.EOF {
		return fmt.Errorf("file %s is empty", path)
	}
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = true
	}
	for _, col := range required {
		if !present[col] {
			v.logger.Error("CSV is missing a required column",
				slog.String("file", path),
				slog.String("column", col))
			return apperrors.MissingColumn(filepath.Base(path), col)
		}
	}
	return nil
}
