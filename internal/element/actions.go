package element

import (
	"context"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"
	"ui-harness/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	scrollIntoViewScript = "el => el.scrollIntoView(true)"
	scrollToTopScript    = "() => window.scrollTo(0, 0)"
)

// Click waits for loc to be visible and clicks it. A wait that runs out is
// returned as a timeout with reason not_clickable.
func (i *Interactor) Click(ctx context.Context, loc entity.Locator) error {
	const op = "Click"

	err := i.Do(ctx, op, loc, func(el ports.Element) error {
		return el.Click()
	})
	if apperr.HasCode(err, apperr.CodeTimeout) {
		return apperr.Wrap(op, apperr.CodeTimeout, err, map[string]any{
			apperr.MetaReason:  "not_clickable",
			apperr.MetaLocator: loc.String(),
			apperr.MetaStage:   apperr.StageInteraction,
		})
	}

	return err
}

func (i *Interactor) Submit(ctx context.Context, loc entity.Locator) error {
	return i.Do(ctx, "Submit", loc, func(el ports.Element) error {
		return el.Submit()
	})
}

func (i *Interactor) Clear(ctx context.Context, loc entity.Locator) error {
	return i.Do(ctx, "Clear", loc, func(el ports.Element) error {
		return el.Clear()
	})
}

func (i *Interactor) TypeText(ctx context.Context, loc entity.Locator, text string) error {
	return i.Do(ctx, "TypeText", loc, func(el ports.Element) error {
		return el.SendKeys(text)
	})
}

func (i *Interactor) ReadText(ctx context.Context, loc entity.Locator) (text string, err error) {
	err = i.Do(ctx, "ReadText", loc, func(el ports.Element) error {
		text, err = el.Text()

		return err
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

func (i *Interactor) DoubleClick(ctx context.Context, loc entity.Locator) error {
	return i.Do(ctx, "DoubleClick", loc, func(el ports.Element) error {
		return el.DoubleClick()
	})
}

func (i *Interactor) RightClick(ctx context.Context, loc entity.Locator) error {
	return i.Do(ctx, "RightClick", loc, func(el ports.Element) error {
		return el.ContextClick()
	})
}

func (i *Interactor) Hover(ctx context.Context, loc entity.Locator) error {
	return i.Do(ctx, "Hover", loc, func(el ports.Element) error {
		return el.Hover()
	})
}

func (i *Interactor) ClickAndHold(ctx context.Context, loc entity.Locator) error {
	return i.Do(ctx, "ClickAndHold", loc, func(el ports.Element) error {
		return el.ClickAndHold()
	})
}

// DragAndDrop waits for both ends to be visible and drags source onto target.
// A stale node on either end restarts both lookups once.
func (i *Interactor) DragAndDrop(ctx context.Context, source, target entity.Locator) (err error) {
	const op = "DragAndDrop"
	logger := i.opLogger(op, source).With(zap.Stringer("target", target))

	ctx, step := tracing.StartSpan(ctx, i.tracer, logger, op,
		attribute.String("source", source.String()),
		attribute.String("target", target.String()))
	defer func() {
		step.End(err)
	}()

	err = i.withElement(ctx, logger, op, source, func(src ports.Element) error {
		dst, err := i.ensure(ctx, logger, op, target, displayed)
		if err != nil {
			return err
		}

		return src.DragTo(dst)
	})
	if err != nil {
		logger.Error("Drag and drop failed", zap.Error(err))
	}

	return err
}

// PressKeyCombo waits for loc to be visible, then holds modifier while typing text.
// The modifier is always released once it was pressed.
func (i *Interactor) PressKeyCombo(ctx context.Context, loc entity.Locator, modifier entity.Key, text string) error {
	keyboard := i.driver.Keyboard()

	return i.Do(ctx, "PressKeyCombo", loc, func(ports.Element) (err error) {
		if err := keyboard.Down(modifier); err != nil {
			return err
		}

		defer func() {
			if upErr := keyboard.Up(modifier); upErr != nil && err == nil {
				err = upErr
			}
		}()

		return keyboard.Type(text)
	})
}

func (i *Interactor) ScrollIntoView(ctx context.Context, loc entity.Locator) error {
	return i.Do(ctx, "ScrollIntoView", loc, func(el ports.Element) error {
		_, err := i.driver.ExecuteScript(ctx, scrollIntoViewScript, el)

		return err
	})
}

func (i *Interactor) ScrollToTop(ctx context.Context) error {
	const op = "ScrollToTop"
	logger := i.logger.With(zap.String(logg.Operation, op))

	if _, err := i.driver.ExecuteScript(ctx, scrollToTopScript, nil); err != nil {
		err = apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "script_failed",
			apperr.MetaStage:  apperr.StageInteraction,
		})
		logger.Error("Scroll to top failed", zap.Error(err))

		return err
	}

	return nil
}
