// Package forecast trains the points and goals models on historical Premier
// League team-seasons and predicts the next season's table.
//
// Three random forests share one feature vector: previous goal
// difference, the promotion flag, previous xG difference, previous form,
// the average of recent Premier League points, and previous points
// adjusted by a per-team transfer impact. Transfer impacts come from an
// ImpactSource, either the console Prompter or a YAML file.
package forecast
