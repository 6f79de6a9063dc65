// Command pipeline runs merge, features, xg and train in order without
// prompting. Transfer impacts come from -impacts or default to 0.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"leagueforecast/internal/app"
	"leagueforecast/internal/exporter"
	"leagueforecast/internal/forecast"
	"leagueforecast/internal/infrastructure"
)

type options struct {
	steps    []string
	download bool
	impacts  string
	evaluate bool
	xgFile   string
	htmlFile string
	season   string
}

func main() {
	configFile := flag.String("config", "", "path to config.yaml (defaults to the standard lookup)")
	steps := flag.String("steps", "", "comma separated steps to run (merge,features,xg,train); default all")
	var opts options
	flag.BoolVar(&opts.download, "download", false, "fetch season files before merging")
	flag.StringVar(&opts.impacts, "impacts", "", "YAML file mapping team to transfer impact")
	flag.BoolVar(&opts.evaluate, "evaluate", false, "score the model on a held-out season")
	flag.StringVar(&opts.xgFile, "xg", "", "xG CSV (default data/xg_data.csv)")
	flag.StringVar(&opts.htmlFile, "html", "", "saved HTML page holding a squad xG table")
	flag.StringVar(&opts.season, "season", "", "season of the -html table")
	flag.Parse()
	opts.steps = app.SplitList(*steps)

	env, err := app.Bootstrap("pipeline", *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := run(env, opts); err != nil {
		env.Logger.Error("pipeline failed", slog.String("error", err.Error()))
		env.Close(context.Background())
		os.Exit(1)
	}
	env.Close(context.Background())
}

func run(env *app.Environment, opts options) error {
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
	if opts.download {
		deps.Fetcher = env.Downloader()
	}
	if opts.impacts != "" {
		impacts, err := forecast.LoadImpacts(opts.impacts)
		if err != nil {
			return err
		}
		deps.Impacts = impacts
	}
	deps.Evaluate = opts.evaluate
	deps.XGFile = opts.xgFile
	deps.XGHTML = opts.htmlFile
	deps.XGSeason = opts.season

	state, err := env.Run(ctx, deps, opts.steps...)
	if state == nil {
		return err
	}
	if err == nil && state.Result != nil {
		exporter.PrintStandings(os.Stdout, state.Result.Season, state.Result.Standings)
		fmt.Fprintln(os.Stdout)
	}
	app.WriteSummary(os.Stdout, state)
	return err
}
