// Command features derives the team-season feature table from
// data/combined_data.csv and writes data/final_features_with_form.csv.
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
	flag.Parse()

	env, err := app.Bootstrap("features", *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(env); err != nil {
		env.Logger.Error("feature engineering failed", slog.String("error", err.Error()))
		env.Close(context.Background())
		os.Exit(1)
	}
	env.Close(context.Background())
}

func run(env *app.Environment) error {
	ctx, stop := infrastructure.CommandContext()
	defer stop()

	st, err := env.OpenStore(ctx)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	state, err := env.Run(ctx, env.PipelineDeps(st), pipeline.StepIDFeatures)
	if state != nil {
		app.WriteSummary(os.Stdout, state)
	}
	return err
}
