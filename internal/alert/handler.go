package alert

import (
	"context"

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
	handlerName   = "AlertHandler"
	handlerTracer = "alert.handler"
)

// Handler operates on the currently open native dialog. Every failure comes
// back as a dialog failure.
type Handler struct {
	driver ports.Driver
	logger *zap.Logger
	tracer trace.Tracer
}

type Params struct {
	fx.In

	Driver ports.Driver
	Logger *zap.Logger
}

func NewHandler(params Params) *Handler {
	return &Handler{
		driver: params.Driver,
		logger: params.Logger.With(zap.String(logg.Layer, handlerName)),
		tracer: otel.Tracer(handlerTracer),
	}
}

func (h *Handler) ReadText(ctx context.Context) (text string, err error) {
	err = h.with(ctx, "ReadText", func(a ports.Alert) error {
		text, err = a.Text()

		return err
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

func (h *Handler) Accept(ctx context.Context) error {
	return h.with(ctx, "Accept", ports.Alert.Accept)
}

func (h *Handler) Dismiss(ctx context.Context) error {
	return h.with(ctx, "Dismiss", ports.Alert.Dismiss)
}

func (h *Handler) SendKeys(ctx context.Context, text string) error {
	return h.with(ctx, "SendKeys", func(a ports.Alert) error {
		return a.SendKeys(text)
	})
}

// IsPresent reports whether a dialog is currently open.
func (h *Handler) IsPresent(ctx context.Context) bool {
	_, err := h.driver.Alert(ctx)

	return err == nil
}

func (h *Handler) with(ctx context.Context, op string, fn func(a ports.Alert) error) (err error) {
	logger := h.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, h.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	a, err := h.driver.Alert(ctx)
	if err != nil {
		logger.Error("No dialog is open", zap.Error(err))

		return apperr.Wrap(op, apperr.CodeDialogFailure, err, map[string]any{
			apperr.MetaReason: "no_dialog",
			apperr.MetaStage:  apperr.StageDialog,
		})
	}

	if err = fn(a); err != nil {
		logger.Error("Dialog operation failed", zap.Error(err))

		return apperr.Wrap(op, apperr.CodeDialogFailure, err, map[string]any{
			apperr.MetaReason: "dialog_rejected",
			apperr.MetaStage:  apperr.StageDialog,
		})
	}

	logger.Debug("Dialog operation completed")

	return nil
}
