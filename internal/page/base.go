package page

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ui-harness/internal/alert"
	"ui-harness/internal/dropdown"
	"ui-harness/internal/element"
	"ui-harness/internal/entity"
	"ui-harness/internal/frame"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// LocatorSet names the controls of one page.
type LocatorSet map[string]entity.Locator

// Validate checks every locator and reports all invalid keys at once.
func (s LocatorSet) Validate() error {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		if err := s[key].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}

	return errors.Join(errs...)
}

func (s LocatorSet) Get(key string) (entity.Locator, error) {
	loc, ok := s[key]
	if !ok {
		return entity.Locator{}, apperr.NotFoundError("LocatorSet.Get", fmt.Errorf("no locator named %q", key))
	}

	return loc, nil
}

// Page is implemented by every concrete page object.
type Page interface {
	Name() string
	URL() string
	Locators() LocatorSet
}

// Base bundles the interaction capabilities a page object composes.
type Base struct {
	Elements  *element.Interactor
	Dropdowns *dropdown.Selector
	Frames    *frame.Navigator
	Alerts    *alert.Handler

	logger *zap.Logger
}

type Params struct {
	fx.In

	Elements  *element.Interactor
	Dropdowns *dropdown.Selector
	Frames    *frame.Navigator
	Alerts    *alert.Handler
	Logger    *zap.Logger
}

func NewBase(params Params) *Base {
	return &Base{
		Elements:  params.Elements,
		Dropdowns: params.Dropdowns,
		Frames:    params.Frames,
		Alerts:    params.Alerts,
		logger:    params.Logger.With(zap.String(logg.Layer, "Page")),
	}
}

// Open validates the page's locators and navigates to its URL.
func (b *Base) Open(ctx context.Context, p Page) error {
	const op = "Page.Open"
	logger := b.logger.With(zap.String(logg.Operation, op), zap.String("page", p.Name()))

	if err := p.Locators().Validate(); err != nil {
		logger.Error("Page has invalid locators", zap.Error(err))

		return apperr.InvalidReqError(op, "locators", err)
	}

	if err := b.Elements.Open(ctx, p.URL()); err != nil {
		return err
	}

	logger.Info("Page opened", zap.String(logg.URL, p.URL()))

	return nil
}

// IsAt reports whether the browser settled on the page's URL.
func (b *Base) IsAt(ctx context.Context, p Page) bool {
	return b.Elements.IsCurrentURLEqualTo(ctx, p.URL())
}
