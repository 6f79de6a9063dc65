// Package http serves saved forecasts and engineered features over a small
// read-only JSON API.
//
// Handlers stay thin: they parse query parameters, call the store and
// render the result in the standard envelope
//
//	{"status": "success", "data": ..., "count": n}
//
// Failures go through errors.ErrorHandler so every error response shares
// one JSON shape. The router is assembled by NewRouter:
//
//	GET /healthz                  liveness and store reachability
//	GET /api/v1/runs              saved forecast runs, newest first
//	GET /api/v1/standings         latest predicted table, or ?run=<id>
//	GET /api/v1/seasons           seasons with stored features
//	GET /api/v1/features?season=  feature rows for one season
//	GET /metrics                  Prometheus exposition
package http
