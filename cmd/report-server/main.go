// Command report-server serves saved forecasts and stored features from the
// SQLite store over a read-only JSON API, plus Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"leagueforecast/internal/app"
	"leagueforecast/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml (defaults to the standard lookup)")
	port := flag.Int("port", 0, "listen port (default from config)")
	flag.Parse()

	env, err := app.Bootstrap("report-server", *configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port > 0 {
		env.Config.Server.Port = *port
	}
	if err := run(env); err != nil {
		env.Logger.Error("report server failed", slog.String("error", err.Error()))
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
	if st == nil {
		return errors.New("the report server needs the store; set store.enabled")
	}
	defer st.Close()

	srv, err := app.NewServer(env, st)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
