// Command train fits the random forests on the complete feature table and
// prints the predicted Premier League table for the next season.
//
// Transfer impacts are asked for on the console unless -impacts names a YAML
// file mapping team to impact, or -no-prompt is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"leagueforecast/internal/app"
	"leagueforecast/internal/exporter"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/infrastructure"
	"leagueforecast/internal/pipeline"
)

type options struct {
	impacts    string
	noPrompt   bool
	evaluate   bool
	target     string
	projection string
	holdout    string
}

func main() {
	configFile := flag.String("config", "", "path to config.yaml (defaults to the standard lookup)")
	var opts options
	flag.StringVar(&opts.impacts, "impacts", "", "YAML file mapping team to transfer impact")
	flag.BoolVar(&opts.noPrompt, "no-prompt", false, "skip the console prompt; every impact is 0")
	flag.BoolVar(&opts.evaluate, "evaluate", false, "score the model on a held-out season")
	flag.StringVar(&opts.target, "target", "", "season whose rows feed the forecast (default from config)")
	flag.StringVar(&opts.projection, "projection", "", "rollforward or asis (default from config)")
	flag.StringVar(&opts.holdout, "holdout", "", "season held out by -evaluate")
	flag.Parse()

	env, err := app.Bootstrap("train", *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(env, opts, os.Stdin, os.Stdout); err != nil {
		env.Logger.Error("training failed", slog.String("error", err.Error()))
		env.Close(context.Background())
		os.Exit(1)
	}
	env.Close(context.Background())
}

// impactSource picks where transfer impacts come from
func impactSource(opts options, in io.Reader, out io.Writer) (forecast.ImpactSource, error) {
	switch {
	case opts.impacts != "":
		impacts, err := forecast.LoadImpacts(opts.impacts)
		if err != nil {
			return nil, err
		}
		return impacts, nil
	case opts.noPrompt:
		return nil, nil
	default:
		return forecast.NewPrompter(in, out), nil
	}
}

// applyOverrides copies flag values over the loaded forecast config
func applyOverrides(env *app.Environment, opts options) error {
	if opts.target != "" {
		env.Config.Forecast.TargetSeason = opts.target
	}
	if opts.projection != "" {
		env.Config.Forecast.Projection = opts.projection
	}
	if opts.holdout != "" {
		env.Config.Forecast.HoldoutSeason = opts.holdout
	}
	if err := env.Config.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func run(env *app.Environment, opts options, in io.Reader, out io.Writer) error {
	ctx, stop := infrastructure.CommandContext()
	defer stop()

	if err := applyOverrides(env, opts); err != nil {
		return err
	}
	source, err := impactSource(opts, in, out)
	if err != nil {
		return err
	}

	st, err := env.OpenStore(ctx)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	deps := env.PipelineDeps(st)
	deps.Impacts = source
	deps.Evaluate = opts.evaluate

	state, err := env.Run(ctx, deps, pipeline.StepIDTrain)
	if err != nil {
		if state != nil {
			app.WriteSummary(out, state)
		}
		return err
	}
	return printResult(out, state)
}

// printResult shows the predicted table and, when present, the evaluation
func printResult(out io.Writer, state *pipeline.State) error {
	res := state.Result
	fmt.Fprintln(out)
	if err := exporter.PrintStandings(out, res.Season, res.Standings); err != nil {
		return err
	}
	if len(res.Missing) > 0 {
		fmt.Fprintf(out, "\nNo %s data for: %v\n", res.TargetSeason, res.Missing)
	}

	if eval := state.Evaluation; eval != nil {
		fmt.Fprintf(out, "\nHold-out %s (%d training rows, %d test rows)\n",
			eval.HoldoutSeason, eval.TrainRows, eval.TestRows)
		targets := make([]string, 0, len(eval.Metrics))
		for name := range eval.Metrics {
			targets = append(targets, name)
		}
		sort.Strings(targets)
		for _, name := range targets {
			m := eval.Metrics[name]
			fmt.Fprintf(out, "  %-14s MAE %6.2f  RMSE %6.2f  R2 %5.2f\n", name, m.MAE, m.RMSE, m.R2)
		}
	}

	fmt.Fprintln(out)
	return app.WriteSummary(out, state)
}
