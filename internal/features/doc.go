// Package features turns match results into the team-season feature table
// the forecasting models train on.
//
// Build runs the full derivation: per team-season counting stats and form,
// league positions, lagged previous-season values, the rolling Premier
// League average, a synthetic transfer impact and the promotion flag. Each
// step is also exported so callers can recompute a single column.
package features
