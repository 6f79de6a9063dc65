// Package app wires configuration, logging, telemetry and storage together
// for the command line tools and the report server.
//
// Every command starts the same way:
//
//	env, err := app.Bootstrap("train", *configFile)
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	    os.Exit(1)
//	}
//	defer env.Close(context.Background())
//
// Bootstrap loads the configuration, resolves and creates the data
// directories, initializes the slog logger with a per-command log file and
// sets up OpenTelemetry. Close writes the Prometheus metrics snapshot,
// flushes traces and closes the log file.
//
// Server hosts the read-only report API on top of the SQLite store and
// shuts down gracefully when its context is cancelled.
//
// Initialization errors are returned to the caller; nothing in this package
// calls os.Exit.
package app
