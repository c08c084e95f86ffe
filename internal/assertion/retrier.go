package assertion

import (
	"context"
	"fmt"
	"time"

	"ui-harness/internal/entity"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"
	"ui-harness/pkg/tracing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	retrierName   = "AssertionRetry"
	retrierTracer = "assertion.retrier"
)

// Retrier re-evaluates a comparison a bounded number of times, pausing a
// fixed delay between attempts, before reporting an assertion failure.
type Retrier struct {
	policy entity.RetryPolicy
	logger *zap.Logger
	tracer trace.Tracer
}

type Params struct {
	fx.In

	Policy entity.RetryPolicy
	Logger *zap.Logger
}

func NewRetrier(params Params) *Retrier {
	return &Retrier{
		policy: params.Policy,
		logger: params.Logger.With(zap.String(logg.Layer, retrierName)),
		tracer: otel.Tracer(retrierTracer),
	}
}

// Value adapts an already captured value to the re-evaluable form Equals takes.
func Value[T any](v T) func() (T, error) {
	return func() (T, error) {
		return v, nil
	}
}

// Equals passes once actual() equals expected. A non-positive maxAttempts
// falls back to the retrier's default policy.
func Equals[T any](ctx context.Context, r *Retrier, actual func() (T, error), expected T, message string, maxAttempts int) error {
	return r.run(ctx, "Equals", message, maxAttempts, expected, fmt.Sprintf("%v", expected), func() (any, bool, error) {
		v, err := actual()
		if err != nil {
			return nil, false, err
		}

		return v, cmp.Equal(v, expected), nil
	})
}

// NotEquals passes once actual() differs from unexpected.
func NotEquals[T any](ctx context.Context, r *Retrier, actual func() (T, error), unexpected T, message string, maxAttempts int) error {
	return r.run(ctx, "NotEquals", message, maxAttempts, unexpected, fmt.Sprintf("anything but %v", unexpected), func() (any, bool, error) {
		v, err := actual()
		if err != nil {
			return nil, false, err
		}

		return v, !cmp.Equal(v, unexpected), nil
	})
}

// True passes once cond reports true. cond is evaluated afresh on every attempt.
func (r *Retrier) True(ctx context.Context, cond func() (bool, error), message string, maxAttempts int) error {
	return r.run(ctx, "True", message, maxAttempts, true, "true", func() (any, bool, error) {
		ok, err := cond()
		if err != nil {
			return nil, false, err
		}

		return ok, ok, nil
	})
}

func (r *Retrier) run(ctx context.Context, op, message string, maxAttempts int, expected any, want string, eval func() (any, bool, error)) (err error) {
	logger := r.logger.With(zap.String(logg.Operation, op), zap.String(logg.Expected, want))

	policy := r.policy
	if maxAttempts > 0 {
		policy.MaxAttempts = maxAttempts
	}

	attempts := policy.Attempts()

	ctx, step := tracing.StartSpan(ctx, r.tracer, logger, op,
		attribute.String("message", message),
		attribute.Int("max_attempts", attempts),
	)
	defer func() {
		step.End(err)
	}()

	var (
		record  entity.AssertionRecord
		evalErr error
	)

	for attempt := 1; attempt <= attempts; attempt++ {
		var observed any
		var passed bool
		observed, passed, evalErr = eval()

		record = entity.AssertionRecord{Attempt: attempt, Observed: observed, Expected: expected, Passed: passed}
		if record.Passed {
			logger.Debug("Assertion passed", zap.Int(logg.Attempt, attempt))

			return nil
		}

		logger.Debug("Assertion attempt failed",
			zap.Int(logg.Attempt, attempt),
			zap.Any(logg.Actual, observed),
			zap.NamedError("evaluation_error", evalErr))

		if attempt == attempts {
			break
		}

		if err = sleep(ctx, policy.Delay); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason:   "context_done",
				apperr.MetaStage:    apperr.StageAssertion,
				apperr.MetaAttempts: attempt,
			})
		}
	}

	var cause error
	if evalErr != nil {
		cause = fmt.Errorf("%s: expected [%s] but evaluation failed: %w", message, want, evalErr)
	} else {
		cause = fmt.Errorf("%s: expected [%s] but found [%v]", message, want, record.Observed)
	}

	logger.Error("Assertion failed",
		zap.Any(logg.Actual, record.Observed),
		zap.Int(logg.Attempt, record.Attempt),
		zap.String("diff", cmp.Diff(record.Expected, record.Observed)),
		zap.Error(cause))

	return apperr.Wrap(op, apperr.CodeAssertionFailed, cause, map[string]any{
		apperr.MetaReason:   "mismatch",
		apperr.MetaStage:    apperr.StageAssertion,
		apperr.MetaExpected: want,
		apperr.MetaActual:   fmt.Sprintf("%v", record.Observed),
		apperr.MetaAttempts: record.Attempt,
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
