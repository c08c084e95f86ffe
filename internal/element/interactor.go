package element

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"
	"ui-harness/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	interactorName   = "ElementInteractor"
	interactorTracer = "element.interactor"
)

var (
	errWaitTimeout = errors.New("condition not met before timeout")
	errNotVisible  = errors.New("element is not visible")
	errNotEnabled  = errors.New("element is not enabled")
)

// Interactor wraps every element interaction with a visibility precondition
// and a single stale-reference retry. It never keeps a handle between calls.
type Interactor struct {
	driver ports.Driver
	policy entity.WaitPolicy
	logger *zap.Logger
	tracer trace.Tracer
}

type Params struct {
	fx.In

	Driver ports.Driver
	Policy entity.WaitPolicy
	Logger *zap.Logger
}

func NewInteractor(params Params) *Interactor {
	return &Interactor{
		driver: params.Driver,
		policy: params.Policy.Normalize(),
		logger: params.Logger.With(zap.String(logg.Layer, interactorName)),
		tracer: otel.Tracer(interactorTracer),
	}
}

// readyFunc decides whether a resolved element satisfies a wait.
// A nil error with false means "not yet".
type readyFunc func(el ports.Element) (bool, error)

func displayed(el ports.Element) (bool, error) {
	ok, err := el.IsDisplayed()
	if err == nil && !ok {
		return false, errNotVisible
	}

	return ok, err
}

func clickable(el ports.Element) (bool, error) {
	ok, err := displayed(el)
	if !ok || err != nil {
		return false, err
	}

	enabled, err := el.IsEnabled()
	if err == nil && !enabled {
		return false, errNotEnabled
	}

	return enabled, err
}

// EnsureVisible waits until loc resolves to a visible node and returns a
// fresh handle to it.
func (i *Interactor) EnsureVisible(ctx context.Context, loc entity.Locator) (el ports.Element, err error) {
	const op = "EnsureVisible"
	logger := i.opLogger(op, loc)

	ctx, step := tracing.StartSpan(ctx, i.tracer, logger, op, tracing.Locator(loc))
	defer func() {
		step.End(err)
	}()

	el, err = i.ensure(ctx, logger, op, loc, displayed)
	if err != nil {
		logger.Error("Element did not become visible", zap.Error(err))

		return nil, err
	}

	return el, nil
}

// ensure runs the wait, restarting it once from a fresh lookup when the
// first wait observes a stale node.
func (i *Interactor) ensure(ctx context.Context, logger *zap.Logger, op string, loc entity.Locator, ready readyFunc) (ports.Element, error) {
	if err := loc.Validate(); err != nil {
		return nil, apperr.InvalidReqError(op, "locator", err)
	}

	el, err := i.waitFor(ctx, loc, false, ready)
	if errors.Is(err, ports.ErrStaleElement) {
		logger.Warn("Stale element reference encountered, re-resolving and retrying")

		el, err = i.waitFor(ctx, loc, true, ready)
	}

	if err != nil {
		return nil, i.classifyWait(op, loc, err)
	}

	return el, nil
}

// waitFor polls Find + ready until ready holds or the policy deadline passes.
// With tolerateStale unset a stale node ends the wait immediately.
func (i *Interactor) waitFor(ctx context.Context, loc entity.Locator, tolerateStale bool, ready readyFunc) (ports.Element, error) {
	deadline := i.policy.Deadline(time.Now())

	var lastErr error
	for {
		el, err := i.driver.Find(ctx, loc)
		if err == nil {
			var ok bool
			ok, err = ready(el)
			if ok && err == nil {
				return el, nil
			}

			if err == nil {
				err = errNotVisible
			}
		}

		switch {
		case errors.Is(err, ports.ErrStaleElement):
			if !tolerateStale {
				return nil, err
			}
		case errors.Is(err, ports.ErrNoSuchElement), errors.Is(err, errNotVisible), errors.Is(err, errNotEnabled):
		default:
			return nil, err
		}

		lastErr = err

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w within %s: %w", errWaitTimeout, i.policy.Timeout, lastErr)
		}

		if err := sleep(ctx, min(i.policy.PollInterval, remaining)); err != nil {
			return nil, err
		}
	}
}

func (i *Interactor) classifyWait(op string, loc entity.Locator, err error) error {
	meta := map[string]any{
		apperr.MetaLocator: loc.String(),
		apperr.MetaStage:   apperr.StageWait,
	}

	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, errWaitTimeout):
		meta[apperr.MetaReason] = "not_visible"
		meta[apperr.MetaTimeout] = i.policy.Timeout.String()

		return apperr.Wrap(op, apperr.CodeTimeout, err, meta)
	case errors.Is(err, ports.ErrStaleElement):
		meta[apperr.MetaReason] = "stale_after_retry"

		return apperr.Wrap(op, apperr.CodeStale, err, meta)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		meta[apperr.MetaReason] = "context_done"

		return apperr.Wrap(op, apperr.CodeInternal, err, meta)
	default:
		meta[apperr.MetaReason] = "driver_error"

		return apperr.Wrap(op, apperr.CodeActionFailed, err, meta)
	}
}

// withElement resolves loc, runs fn on the fresh handle and, if fn reports a
// stale node, resolves again and runs fn one more time.
func (i *Interactor) withElement(ctx context.Context, logger *zap.Logger, op string, loc entity.Locator, fn func(el ports.Element) error) error {
	for attempt := 1; ; attempt++ {
		el, err := i.ensure(ctx, logger, op, loc, displayed)
		if err != nil {
			return err
		}

		err = fn(el)
		if err == nil {
			return nil
		}

		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return err
		}

		meta := map[string]any{
			apperr.MetaLocator: loc.String(),
			apperr.MetaStage:   apperr.StageInteraction,
		}

		if errors.Is(err, ports.ErrActionTimeout) {
			meta[apperr.MetaReason] = "action_timeout"
			meta[apperr.MetaTimeout] = i.policy.Timeout.String()

			return apperr.Wrap(op, apperr.CodeTimeout, err, meta)
		}

		if !errors.Is(err, ports.ErrStaleElement) {
			meta[apperr.MetaReason] = "driver_error"

			return apperr.Wrap(op, apperr.CodeActionFailed, err, meta)
		}

		if attempt > 1 {
			meta[apperr.MetaReason] = "stale_after_retry"

			return apperr.Wrap(op, apperr.CodeStale, err, meta)
		}

		logger.Warn("Element went stale during interaction, re-resolving", zap.Int(logg.Attempt, attempt))
	}
}

// Do runs fn against a freshly resolved, visible element with the same
// stale-retry guarantee as the built-in actions.
func (i *Interactor) Do(ctx context.Context, op string, loc entity.Locator, fn func(el ports.Element) error) (err error) {
	logger := i.opLogger(op, loc)

	ctx, step := tracing.StartSpan(ctx, i.tracer, logger, op, tracing.Locator(loc))
	defer func() {
		step.End(err)
	}()

	err = i.withElement(ctx, logger, op, loc, fn)
	if err != nil {
		logger.Error("Interaction failed", zap.Error(err))
	}

	return err
}

func (i *Interactor) opLogger(op string, loc entity.Locator) *zap.Logger {
	return i.logger.With(zap.String(logg.Operation, op), zap.Stringer(logg.Selector, loc))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
