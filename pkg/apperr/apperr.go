package apperr

import (
	"errors"
	"fmt"
)

const (
	MetaReason   = "reason"
	MetaStage    = "stage"
	MetaField    = "field"
	MetaLocator  = "locator"
	MetaURL      = "url"
	MetaFrame    = "frame"
	MetaOption   = "option"
	MetaExpected = "expected"
	MetaActual   = "actual"
	MetaAttempts = "attempts"
	MetaTimeout  = "timeout"

	StageBrowser     = "browser"
	StageNavigation  = "navigation"
	StageWait        = "wait"
	StageInteraction = "interaction"
	StageSelection   = "selection"
	StageDialog      = "dialog"
	StageAssertion   = "assertion"
	StageScenario    = "scenario"
	StageScreenshot  = "screenshot"

	// Failure kinds of the interaction and assertion layers.
	CodeTimeout         = "timeout"
	CodeStale           = "stale"
	CodeNotFound        = "not_found"
	CodeSelectionFailed = "selection_failed"
	CodeDialogFailure   = "dialog_failure"
	CodeAssertionFailed = "assertion_failed"

	// Infrastructure codes.
	CodeInternal        = "internal"
	CodeInvalidArgument = "invalid_argument"
	CodeBrowserNotReady = "browser_not_ready"
	CodeActionFailed    = "action_failed"
)

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapWithReason(op, code string, err error, reason string) error {
	return Wrap(op, code, err, map[string]any{
		MetaReason: reason,
	})
}

func WrapErrorWithReason(op, code, reason string) error {
	return Wrap(op, code, errors.New(reason), map[string]any{
		MetaReason: reason,
	})
}

func InvalidReqError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_request",
	})
}

func NotFoundError(op string, err error) error {
	return Wrap(op, CodeNotFound, err, map[string]any{
		MetaReason: "not_found",
	})
}

// CodeOf returns the code of the outermost *Error in the chain, or "".
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ""
}

// HasCode reports whether the outermost *Error in the chain carries code.
func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// Meta returns a metadata value of the outermost *Error in the chain.
func Meta(err error, key string) (any, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return nil, false
	}

	v, ok := appErr.Metadata[key]

	return v, ok
}
