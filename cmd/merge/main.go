// Command merge combines the raw Premier League and Championship season
// files into data/combined_data.csv, optionally downloading them first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"leagueforecast/internal/app"
	"leagueforecast/internal/infrastructure"
	"leagueforecast/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml (defaults to the standard lookup)")
	download := flag.Bool("download", false, "fetch season files from football-data.co.uk before merging")
	seasons := flag.String("seasons", "", "comma separated seasons to download, e.g. 2023/2024,2024/2025")
	flag.Parse()

	env, err := app.Bootstrap("merge", *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(env, *download, app.SplitList(*seasons)); err != nil {
		env.Logger.Error("merge failed", slog.String("error", err.Error()))
		env.Close(context.Background())
		os.Exit(1)
	}
	env.Close(context.Background())
}

func run(env *app.Environment, download bool, seasons []string) error {
	ctx, stop := infrastructure.CommandContext()
	defer stop()

	deps := env.PipelineDeps(nil)
	if download {
		if len(seasons) > 0 {
			env.Config.Download.Seasons = seasons
		}
		deps.Fetcher = env.Downloader()
	}

	state, err := env.Run(ctx, deps, pipeline.StepIDMerge)
	if state != nil {
		app.WriteSummary(os.Stdout, state)
	}
	return err
}
