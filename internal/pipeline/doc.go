// Package pipeline runs the league forecast stages as one operation.
//
// A Runner executes the steps of a Registry in registration order:
//
//   - merge: raw season CSVs into data/combined_data.csv
//   - features: team-season features into data/final_features_with_form.csv
//   - xg: expected-goals merge into data/final_features_complete.csv
//   - train: model fit, next-season table and hold-out evaluation
//
// Each step reads what the previous step left in the State, or falls back to
// the previous step's output file so a run can start from any step. Every
// step gets its own span and is counted and timed in PipelineMetrics. The
// first failure stops the run; later steps are marked skipped.
//
// Example usage:
//
//	registry := pipeline.NewRegistry()
//	for _, step := range pipeline.DefaultSteps(deps) {
//		registry.Register(step)
//	}
//	runner := pipeline.NewRunner(registry, pipeline.NewConfig(), metrics, logger)
//	resp, err := runner.Run(ctx, pipeline.Request{})
package pipeline
