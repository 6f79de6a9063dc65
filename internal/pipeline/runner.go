package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"leagueforecast/internal/infrastructure"
)

// TracerName names the pipeline instrumentation scope
const TracerName = "leagueforecast.pipeline"

// Runner executes registered steps in order
type Runner struct {
	registry *Registry
	config   *Config
	metrics  *infrastructure.PipelineMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// RunnerOption customises a Runner
type RunnerOption func(*Runner)

// WithTracer replaces the global tracer
func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// NewRunner creates a runner. A nil config uses NewConfig(), nil metrics
// records nothing and a nil logger uses slog.Default().
func NewRunner(registry *Registry, config *Config, metrics *infrastructure.PipelineMetrics, logger *slog.Logger, opts ...RunnerOption) *Runner {
	if registry == nil {
		registry = NewRegistry()
	}
	if config == nil {
		config = NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		registry: registry,
		config:   config,
		metrics:  metrics,
		tracer:   otel.Tracer(TracerName),
		logger:   logger.With(slog.String("component", "pipeline")),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the runner's step registry
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Run executes the requested steps and returns the final state. The first
// failing step stops the run; the error is a *StepError.
func (r *Runner) Run(ctx context.Context, req Request) (*State, error) {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	state := NewState(req.ID)

	steps, err := r.registry.Select(req.Steps)
	if err != nil {
		state.Fail(err)
		return state, err
	}
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.id", req.ID),
			attribute.Int("pipeline.step_count", len(steps)),
		),
	)
	defer span.End()

	r.logger.InfoContext(ctx, "pipeline_start",
		slog.String("pipeline_id", req.ID),
		slog.Int("step_count", len(steps)))
	state.Start()

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			stepErr := NewCancellationError(step.ID(), err)
			r.skipRemaining(state, steps[i:], "pipeline cancelled")
			state.Cancel(stepErr)
			r.finishSpan(span, stepErr)
			return state, stepErr
		}

		r.logger.InfoContext(ctx, "executing_step",
			slog.String("pipeline_id", req.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := r.executeStep(ctx, state, step); err != nil {
			r.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s failed", step.ID()))
			if GetErrorType(err) == ErrorTypeCancellation {
				state.Cancel(err)
			} else {
				state.Fail(err)
			}
			r.logger.ErrorContext(ctx, "pipeline_failed",
				slog.String("pipeline_id", req.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			r.finishSpan(span, err)
			return state, err
		}
	}

	state.MarkCompleted()
	r.finishSpan(span, nil)
	r.logger.InfoContext(ctx, "pipeline_complete",
		slog.String("pipeline_id", req.ID),
		slog.Duration("duration", state.Duration()))
	return state, nil
}

// executeStep validates and runs one step under its own span and timeout
func (r *Runner) executeStep(ctx context.Context, state *State, step Step) error {
	stepState := state.GetStep(step.ID())

	ctx, span := r.tracer.Start(ctx, "pipeline.step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.id", state.ID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
	defer span.End()

	stepState.Start()
	start := time.Now()

	if err := step.Validate(state); err != nil {
		stepErr := NewValidationError(step.ID(), err)
		stepState.Fail(stepErr)
		r.metrics.RecordStep(ctx, step.ID(), time.Since(start), stepErr)
		r.finishSpan(span, stepErr)
		return stepErr
	}

	timeout := r.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	r.metrics.RecordStep(ctx, step.ID(), duration, err)
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))

	if err != nil {
		var stepErr *StepError
		switch {
		case ctx.Err() != nil:
			stepErr = NewCancellationError(step.ID(), err)
		case errors.Is(stepCtx.Err(), context.DeadlineExceeded):
			stepErr = NewTimeoutError(step.ID(), timeout.String(), err)
		default:
			stepErr = NewExecutionError(step.ID(), err)
		}
		stepState.Fail(stepErr)
		r.finishSpan(span, stepErr)
		return stepErr
	}

	stepState.Complete("step completed successfully")
	r.finishSpan(span, nil)
	r.logger.InfoContext(ctx, "step_complete",
		slog.String("pipeline_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

func (r *Runner) skipRemaining(state *State, steps []Step, reason string) {
	for _, step := range steps {
		if st := state.GetStep(step.ID()); st != nil && st.CurrentStatus() == StepStatusPending {
			st.Skip(reason)
		}
	}
}

func (r *Runner) finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
