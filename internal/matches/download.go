package matches

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"leagueforecast/internal/config"
	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/infrastructure"
)

// DivisionCodes maps leagues to football-data.co.uk division codes
var DivisionCodes = map[string]string{
	config.LeaguePremier:      "E0",
	config.LeagueChampionship: "E1",
}

// Download sources reported to metrics
const (
	SourceCache   = "cache"
	SourceNetwork = "network"
)

// Downloader fetches raw season CSVs into the league directories
type Downloader struct {
	client    *http.Client
	limiter   *rate.Limiter
	baseURL   string
	userAgent string
	useCache  bool
	paths     *config.Paths
	metrics   *infrastructure.PipelineMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewDownloader creates a downloader. metrics may be nil.
func NewDownloader(cfg config.DownloadConfig, paths *config.Paths, metrics *infrastructure.PipelineMetrics, logger *slog.Logger) *Downloader {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultHTTPTimeout
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return &Downloader{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RPS), burst),
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		useCache:  cfg.UseCache,
		paths:     paths,
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "downloader")),
		now:       time.Now,
	}
}

// URL returns the football-data.co.uk address of a league season
func (d *Downloader) URL(league, season string) (string, error) {
	code, ok := DivisionCodes[league]
	if !ok {
		return "", fmt.Errorf("no division code for league %q", league)
	}
	short, err := ShortCode(season)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s.csv", d.baseURL, short, code), nil
}

// FileName is the name a season file gets in its league directory
func FileName(league, season string) (string, error) {
	code, ok := DivisionCodes[league]
	if !ok {
		return "", fmt.Errorf("no division code for league %q", league)
	}
	short, err := ShortCode(season)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s.csv", code, short), nil
}

// FetchAll downloads every configured season of both leagues and returns the
// written file paths.
func (d *Downloader) FetchAll(ctx context.Context, seasons []string) ([]string, error) {
	var written []string
	for _, league := range []string{config.LeaguePremier, config.LeagueChampionship} {
		for _, season := range seasons {
			path, err := d.Fetch(ctx, league, season)
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// Fetch downloads one league season into its league directory. Completed
// seasons are served from the cache when present; the season in progress is
// always fetched again.
func (d *Downloader) Fetch(ctx context.Context, league, season string) (string, error) {
	name, err := FileName(league, season)
	if err != nil {
		return "", err
	}
	dir, err := d.paths.LeagueDir(league)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)
	cachePath := d.paths.GetCachePath(name)

	current := SeasonFor(d.now()) == season
	if d.useCache && !current && config.FileExists(cachePath) {
		data, err := os.ReadFile(cachePath)
		if err != nil {
			return "", fmt.Errorf("read cache %s: %w", cachePath, err)
		}
		if err := writeFile(dest, data); err != nil {
			return "", err
		}
		d.logger.DebugContext(ctx, "season loaded from cache",
			slog.String("league", league), slog.String("season", season))
		d.metrics.RecordDownload(ctx, league, SourceCache)
		return dest, nil
	}

	url, err := d.URL(league, season)
	if err != nil {
		return "", err
	}
	data, err := d.get(ctx, url)
	if err != nil {
		return "", err
	}
	if err := writeFile(cachePath, data); err != nil {
		return "", err
	}
	if err := writeFile(dest, data); err != nil {
		return "", err
	}

	d.logger.InfoContext(ctx, "season downloaded",
		slog.String("league", league),
		slog.String("season", season),
		slog.String("url", url),
		slog.Int("bytes", len(data)))
	d.metrics.RecordDownload(ctx, league, SourceNetwork)
	return dest, nil
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("fetch "+url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewNetworkError(
			fmt.Sprintf("fetch %s: unexpected status %d", url, resp.StatusCode), nil)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, apperrors.NewNetworkError("read "+url, err)
	}
	return data, nil
}

// decodeBody undoes the Content-Encoding of resp. Setting Accept-Encoding by
// hand disables the transport's transparent gzip handling.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return reader, nil
	case "deflate":
		return flate.NewReader(resp.Body), nil
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
