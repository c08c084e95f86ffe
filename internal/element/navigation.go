package element

import (
	"context"

	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"
	"ui-harness/pkg/tracing"

	"go.uber.org/zap"
)

func (i *Interactor) Open(ctx context.Context, url string) (err error) {
	const op = "Open"
	logger := i.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, i.tracer, logger, op, tracing.URL(url))
	defer func() {
		step.End(err)
	}()

	if url == "" {
		return apperr.WrapErrorWithReason(op, apperr.CodeInvalidArgument, "empty_url")
	}

	return i.navigate(logger, op, url, func() error {
		return i.driver.Open(ctx, url)
	})
}

func (i *Interactor) Refresh(ctx context.Context) error {
	return i.navigate(i.logger.With(zap.String(logg.Operation, "Refresh")), "Refresh", "", func() error {
		return i.driver.Refresh(ctx)
	})
}

func (i *Interactor) Back(ctx context.Context) error {
	return i.navigate(i.logger.With(zap.String(logg.Operation, "Back")), "Back", "", func() error {
		return i.driver.Back(ctx)
	})
}

func (i *Interactor) Forward(ctx context.Context) error {
	return i.navigate(i.logger.With(zap.String(logg.Operation, "Forward")), "Forward", "", func() error {
		return i.driver.Forward(ctx)
	})
}

func (i *Interactor) navigate(logger *zap.Logger, op, url string, fn func() error) error {
	if err := fn(); err != nil {
		meta := map[string]any{
			apperr.MetaReason: "navigation_failed",
			apperr.MetaStage:  apperr.StageNavigation,
		}
		if url != "" {
			meta[apperr.MetaURL] = url
		}

		err = apperr.Wrap(op, apperr.CodeActionFailed, err, meta)
		logger.Error("Navigation failed", zap.Error(err))

		return err
	}

	return nil
}

func (i *Interactor) CurrentURL(ctx context.Context) (string, error) {
	return i.read(ctx, "CurrentURL", "current_url_failed", i.driver.CurrentURL)
}

func (i *Interactor) Title(ctx context.Context) (string, error) {
	return i.read(ctx, "Title", "title_failed", i.driver.Title)
}

func (i *Interactor) PageSource(ctx context.Context) (string, error) {
	return i.read(ctx, "PageSource", "page_source_failed", i.driver.PageSource)
}

func (i *Interactor) read(ctx context.Context, op, reason string, fn func(context.Context) (string, error)) (string, error) {
	value, err := fn(ctx)
	if err != nil {
		err = apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: reason,
			apperr.MetaStage:  apperr.StageNavigation,
		})
		i.logger.Error("Page query failed", zap.String(logg.Operation, op), zap.Error(err))

		return "", err
	}

	return value, nil
}
