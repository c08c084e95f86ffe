// Package pagetest assembles a page.Base over the in-memory driver.
package pagetest

import (
	"testing"
	"time"

	"ui-harness/internal/alert"
	"ui-harness/internal/dropdown"
	"ui-harness/internal/element"
	"ui-harness/internal/entity"
	"ui-harness/internal/frame"
	"ui-harness/internal/page"
	"ui-harness/internal/ports/portstest"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Policy keeps waits short enough for unit tests.
var Policy = entity.WaitPolicy{Timeout: 60 * time.Millisecond, PollInterval: 5 * time.Millisecond}

func New(t *testing.T, driver *portstest.Driver) (*page.Base, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	elements := element.NewInteractor(element.Params{Driver: driver, Policy: Policy, Logger: logger})

	return page.NewBase(page.Params{
		Elements:  elements,
		Dropdowns: dropdown.NewSelector(dropdown.Params{Elements: elements, Logger: logger}),
		Frames:    frame.NewNavigator(frame.Params{Driver: driver, Elements: elements, Logger: logger}),
		Alerts:    alert.NewHandler(alert.Params{Driver: driver, Logger: logger}),
		Logger:    logger,
	}), logs
}
