package matches

import (
	"context"
	"fmt"
	"log/slog"

	"leagueforecast/internal/config"
	apperrors "leagueforecast/internal/errors"
	"leagueforecast/internal/files"
)

// LoadResult describes what LoadLeagues read
type LoadResult struct {
	Table *Table
	Files []string
}

// LoadLeagues reads every CSV under the Premier League and Championship
// directories and merges them, Premier League first. Within a league files
// are read in name order.
func LoadLeagues(ctx context.Context, paths *config.Paths, logger *slog.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	discovery := files.NewDiscovery(paths.DataDir)

	var tables []*Table
	var read []string
	for _, league := range []string{config.LeaguePremier, config.LeagueChampionship} {
		dir, err := paths.LeagueDir(league)
		if err != nil {
			return nil, err
		}
		found, err := discovery.FindCSVFiles(dir)
		if err != nil {
			return nil, err
		}

		for _, f := range found {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			t, err := ReadFile(f.Path, league)
			if err != nil {
				return nil, err
			}
			logger.DebugContext(ctx, "read season file",
				slog.String("league", league),
				slog.String("file", f.Name),
				slog.Int("rows", len(t.Rows)))
			tables = append(tables, t)
			read = append(read, f.Path)
		}
	}

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w under %s", apperrors.ErrNoInputFiles, paths.DataDir)
	}
	return &LoadResult{Table: Merge(tables...), Files: read}, nil
}
