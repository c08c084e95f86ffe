package frame

import (
	"context"
	"errors"
	"fmt"

	"ui-harness/internal/element"
	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const navigatorName = "FrameNavigator"

// Navigator moves the driver's interaction context between frames. A frame
// that cannot be found is logged and leaves the context unchanged.
type Navigator struct {
	driver   ports.Driver
	elements *element.Interactor
	logger   *zap.Logger
}

type Params struct {
	fx.In

	Driver   ports.Driver
	Elements *element.Interactor
	Logger   *zap.Logger
}

func NewNavigator(params Params) *Navigator {
	return &Navigator{
		driver:   params.Driver,
		elements: params.Elements,
		logger:   params.Logger.With(zap.String(logg.Layer, navigatorName)),
	}
}

func (n *Navigator) EnterByIndex(ctx context.Context, index int) error {
	return n.enter("EnterByIndex", fmt.Sprintf("index %d", index), func() error {
		return n.driver.SwitchToFrameByIndex(ctx, index)
	})
}

func (n *Navigator) EnterByName(ctx context.Context, name string) error {
	return n.enter("EnterByName", fmt.Sprintf("name %q", name), func() error {
		return n.driver.SwitchToFrameByName(ctx, name)
	})
}

// EnterByHandle switches into the iframe element found at loc. The element is
// resolved at call time; a frame element that never shows up counts as absent.
func (n *Navigator) EnterByHandle(ctx context.Context, loc entity.Locator) error {
	const op = "EnterByHandle"

	el, err := n.elements.EnsureVisible(ctx, loc)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeTimeout) {
			n.logger.Error("Frame element not found",
				zap.String(logg.Operation, op),
				zap.Stringer(logg.Frame, loc),
				zap.Error(err))

			return nil
		}

		return err
	}

	return n.enter(op, loc.String(), func() error {
		return n.driver.SwitchToFrameByElement(ctx, el)
	})
}

func (n *Navigator) ExitToDefaultContent(ctx context.Context) error {
	const op = "ExitToDefaultContent"
	logger := n.logger.With(zap.String(logg.Operation, op))

	if err := n.driver.SwitchToDefaultContent(ctx); err != nil {
		err = apperr.WrapWithReason(op, apperr.CodeActionFailed, err, "switch_default_failed")
		logger.Error("Failed to switch to default content", zap.Error(err))

		return err
	}

	logger.Info("Switched to default content")

	return nil
}

func (n *Navigator) enter(op, target string, switchFn func() error) error {
	logger := n.logger.With(zap.String(logg.Operation, op), zap.String(logg.Frame, target))

	err := switchFn()
	switch {
	case err == nil:
		logger.Info("Switched to frame")

		return nil
	case errors.Is(err, ports.ErrNoSuchFrame):
		logger.Error("Frame not found", zap.Error(err))

		return nil
	default:
		err = apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "switch_frame_failed",
			apperr.MetaFrame:  target,
		})
		logger.Error("Failed to switch frame", zap.Error(err))

		return err
	}
}
