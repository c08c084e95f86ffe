package dropdown

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

const selectorName = "DropdownSelector"

// Selector performs selections on native select controls. Options are matched
// here and the driver is only asked to select a position.
type Selector struct {
	elements *element.Interactor
	logger   *zap.Logger
}

type Params struct {
	fx.In

	Elements *element.Interactor
	Logger   *zap.Logger
}

func NewSelector(params Params) *Selector {
	return &Selector{
		elements: params.Elements,
		logger:   params.Logger.With(zap.String(logg.Layer, selectorName)),
	}
}

func (s *Selector) SelectByVisibleText(ctx context.Context, dropdown entity.Locator, text string) error {
	return s.selectWith(ctx, "SelectByVisibleText", dropdown, text, func(options []entity.Option) (entity.Option, bool) {
		return entity.MatchText(options, text)
	})
}

func (s *Selector) SelectByValue(ctx context.Context, dropdown entity.Locator, value string) error {
	return s.selectWith(ctx, "SelectByValue", dropdown, value, func(options []entity.Option) (entity.Option, bool) {
		return entity.MatchValue(options, value)
	})
}

func (s *Selector) SelectByIndex(ctx context.Context, dropdown entity.Locator, index int) error {
	return s.selectWith(ctx, "SelectByIndex", dropdown, index, func(options []entity.Option) (entity.Option, bool) {
		return entity.MatchIndex(options, index)
	})
}

// Options lists the options of the dropdown after it became visible.
func (s *Selector) Options(ctx context.Context, dropdown entity.Locator) (options []entity.Option, err error) {
	err = s.elements.Do(ctx, "Options", dropdown, func(el ports.Element) error {
		options, err = el.Options()

		return err
	})
	if err != nil {
		return nil, err
	}

	return options, nil
}

// HasOption reports whether an option's visible text equals text exactly.
func (s *Selector) HasOption(ctx context.Context, dropdown entity.Locator, text string) (bool, error) {
	return s.elements.IsOptionPresentInDropdown(ctx, dropdown, text)
}

// selectWith resolves the dropdown, matches an option and selects it. A
// missing option is a selection failure naming the attempted value; every
// other fault is logged and returned unchanged.
func (s *Selector) selectWith(ctx context.Context, op string, dropdown entity.Locator, attempted any, match func([]entity.Option) (entity.Option, bool)) error {
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.Stringer(logg.Selector, dropdown),
		zap.Any(apperr.MetaOption, attempted),
	)

	err := s.elements.Do(ctx, op, dropdown, func(el ports.Element) error {
		options, err := el.Options()
		if err != nil {
			return err
		}

		option, ok := match(options)
		if !ok {
			return ports.ErrNoSuchOption
		}

		return el.SelectIndex(option.Index)
	})

	switch {
	case err == nil:
		logger.Debug("Option selected")

		return nil
	case errors.Is(err, ports.ErrNoSuchOption):
		logger.Error("Option not found in the dropdown", zap.Error(err))

		return apperr.Wrap(op, apperr.CodeSelectionFailed, fmt.Errorf("failed to select option %v: %w", attempted, ports.ErrNoSuchOption), map[string]any{
			apperr.MetaReason:  "option_not_found",
			apperr.MetaStage:   apperr.StageSelection,
			apperr.MetaLocator: dropdown.String(),
			apperr.MetaOption:  attempted,
		})
	default:
		logger.Error("An unexpected error occurred while selecting an option", zap.Error(err))

		return err
	}
}
