// Command xgmerge joins expected-goals figures onto the feature table and
// writes data/final_features_complete.csv.
//
// The xG source is, in order of preference: an FBref-style HTML squad table
// given with -html and -season, the CSV given with -xg (default
// data/xg_data.csv) when it exists, or the built-in dataset.
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
	xgFile := flag.String("xg", "", "xG CSV with Team, Season, xG and xGA columns")
	htmlFile := flag.String("html", "", "saved HTML page holding a squad xG table")
	season := flag.String("season", "", "season of the -html table, e.g. 2024/2025")
	flag.Parse()

	env, err := app.Bootstrap("xgmerge", *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(env, *xgFile, *htmlFile, *season); err != nil {
		env.Logger.Error("xG merge failed", slog.String("error", err.Error()))
		env.Close(context.Background())
		os.Exit(1)
	}
	env.Close(context.Background())
}

func run(env *app.Environment, xgFile, htmlFile, season string) error {
	ctx, stop := infrastructure.CommandContext()
	defer stop()

	st, err := env.OpenStore(ctx)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	deps := env.PipelineDeps(st)
	deps.XGFile = xgFile
	deps.XGHTML = htmlFile
	deps.XGSeason = season

	state, err := env.Run(ctx, deps, pipeline.StepIDXG)
	if state != nil {
		app.WriteSummary(os.Stdout, state)
	}
	return err
}
