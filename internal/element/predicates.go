package element

import (
	"context"
	"strings"
	"time"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/pkg/logg"
	"ui-harness/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func (i *Interactor) IsEnabled(ctx context.Context, loc entity.Locator) (bool, error) {
	return i.query(ctx, "IsEnabled", loc, ports.Element.IsEnabled)
}

func (i *Interactor) IsDisplayed(ctx context.Context, loc entity.Locator) (bool, error) {
	return i.query(ctx, "IsDisplayed", loc, ports.Element.IsDisplayed)
}

func (i *Interactor) IsChecked(ctx context.Context, loc entity.Locator) (bool, error) {
	return i.query(ctx, "IsChecked", loc, ports.Element.IsSelected)
}

func (i *Interactor) query(ctx context.Context, op string, loc entity.Locator, fn func(ports.Element) (bool, error)) (result bool, err error) {
	err = i.Do(ctx, op, loc, func(el ports.Element) error {
		result, err = fn(el)

		return err
	})
	if err != nil {
		return false, err
	}

	return result, nil
}

// IsClickable reports whether loc becomes visible and enabled within the wait
// policy. It never fails: every error degrades to false.
func (i *Interactor) IsClickable(ctx context.Context, loc entity.Locator) (clickableNow bool) {
	const op = "IsClickable"
	logger := i.opLogger(op, loc)

	ctx, step := tracing.StartSpan(ctx, i.tracer, logger, op, tracing.Locator(loc))
	defer func() {
		step.SetAttributes(attribute.Bool("clickable", clickableNow))
		step.End(nil)
	}()

	if _, err := i.ensure(ctx, logger, op, loc, clickable); err != nil {
		logger.Info("Element is not clickable", zap.Error(err))

		return false
	}

	return true
}

// IsCurrentURLEqualTo waits for the browser location to equal expected exactly.
// On timeout it logs both URLs and returns false.
func (i *Interactor) IsCurrentURLEqualTo(ctx context.Context, expected string) (matched bool) {
	const op = "IsCurrentURLEqualTo"
	logger := i.logger.With(zap.String(logg.Operation, op), zap.String(logg.Expected, expected))

	ctx, step := tracing.StartSpan(ctx, i.tracer, logger, op, attribute.String("expected_url", expected))
	defer func() {
		step.SetAttributes(attribute.Bool("matched", matched))
		step.End(nil)
	}()

	deadline := i.policy.Deadline(time.Now())

	var (
		actual  string
		lastErr error
	)
	for {
		url, err := i.driver.CurrentURL(ctx)
		if err == nil {
			actual = url
			if url == expected {
				return true
			}
		} else {
			lastErr = err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}

		if err := sleep(ctx, min(i.policy.PollInterval, remaining)); err != nil {
			lastErr = err

			break
		}
	}

	fields := []zap.Field{zap.String(logg.Actual, actual), zap.Duration("timeout", i.policy.Timeout)}
	if lastErr != nil {
		fields = append(fields, zap.Error(lastErr))
	}

	logger.Warn("Current URL did not match the expected URL", fields...)

	return false
}

// IsTextPresentInElement reports whether the element's text contains text.
func (i *Interactor) IsTextPresentInElement(ctx context.Context, loc entity.Locator, text string) (bool, error) {
	content, err := i.ReadText(ctx, loc)
	if err != nil {
		return false, err
	}

	return strings.Contains(content, text), nil
}

// IsOptionPresentInDropdown reports whether the select control has an option
// whose visible text equals optionText exactly, case included.
func (i *Interactor) IsOptionPresentInDropdown(ctx context.Context, loc entity.Locator, optionText string) (present bool, err error) {
	err = i.Do(ctx, "IsOptionPresentInDropdown", loc, func(el ports.Element) error {
		options, err := el.Options()
		if err != nil {
			return err
		}

		_, present = entity.MatchText(options, optionText)

		return nil
	})
	if err != nil {
		return false, err
	}

	return present, nil
}
