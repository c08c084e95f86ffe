package element

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/internal/ports/portstest"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testPolicy = entity.WaitPolicy{Timeout: 150 * time.Millisecond, PollInterval: 5 * time.Millisecond}

var submitButton = entity.ByID("submit")

func newTestInteractor(t *testing.T) (*Interactor, *portstest.Driver, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)
	driver := portstest.NewDriver()

	return NewInteractor(Params{Driver: driver, Policy: testPolicy, Logger: zap.New(core)}), driver, logs
}

func TestEnsureVisibleWaitsForElementToAppear(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	driver.Add(submitButton, &portstest.Node{HiddenChecks: 5})

	el, err := interactor.EnsureVisible(context.Background(), submitButton)
	require.NoError(t, err)
	require.NotNil(t, el)
	assert.GreaterOrEqual(t, driver.FindCalls, 6)
}

func TestEnsureVisibleRetriesOnceAfterStaleNode(t *testing.T) {
	interactor, driver, logs := newTestInteractor(t)
	node := driver.Add(submitButton, &portstest.Node{StaleResolutions: 1})

	require.NoError(t, interactor.Click(context.Background(), submitButton))

	assert.Equal(t, []string{"click"}, node.Calls)
	assert.Equal(t, 2, driver.FindCalls)
	assert.Equal(t, 1, logs.FilterMessage("Stale element reference encountered, re-resolving and retrying").Len())
}

func TestEnsureVisiblePerpetuallyStaleTimesOut(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	node := driver.Add(submitButton, &portstest.Node{StaleResolutions: -1})

	start := time.Now()
	err := interactor.Click(context.Background(), submitButton)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeTimeout))
	assert.ErrorIs(t, err, ports.ErrStaleElement)
	assert.Empty(t, node.Calls)
	assert.Less(t, elapsed, 2*time.Second)

	reason, _ := apperr.Meta(err, apperr.MetaReason)
	assert.Equal(t, "not_clickable", reason)
}

func TestEnsureVisiblePerpetuallyHiddenTimesOut(t *testing.T) {
	interactor, driver, logs := newTestInteractor(t)
	driver.Add(submitButton, &portstest.Node{Hidden: true})

	start := time.Now()
	_, err := interactor.ReadText(context.Background(), submitButton)

	require.Error(t, err)
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
	assert.GreaterOrEqual(t, time.Since(start), testPolicy.Timeout)
	assert.Less(t, time.Since(start), testPolicy.Timeout+time.Second)
	assert.Equal(t, 1, logs.FilterMessage("Interaction failed").Len())
}

func TestEnsureVisibleMissingElement(t *testing.T) {
	interactor, _, _ := newTestInteractor(t)

	_, err := interactor.EnsureVisible(context.Background(), entity.ByXPath("//nothing"))

	require.Error(t, err)
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
	assert.ErrorIs(t, err, ports.ErrNoSuchElement)
}

func TestEnsureVisibleRejectsInvalidLocator(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)

	_, err := interactor.EnsureVisible(context.Background(), entity.Locator{Strategy: "shadow", Value: "x"})

	require.Error(t, err)
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
	assert.Zero(t, driver.FindCalls)
}

func TestEnsureVisibleStopsOnCancelledContext(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	driver.Add(submitButton, &portstest.Node{Hidden: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := interactor.EnsureVisible(ctx, submitButton)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestActionRetriesOnceWhenElementGoesStale(t *testing.T) {
	interactor, driver, logs := newTestInteractor(t)
	node := driver.Add(submitButton, &portstest.Node{StaleActions: 1})

	require.NoError(t, interactor.Click(context.Background(), submitButton))

	assert.Equal(t, []string{"click"}, node.Calls)
	assert.Equal(t, 2, driver.FindCalls)
	assert.Equal(t, 1, logs.FilterMessage("Element went stale during interaction, re-resolving").Len())
}

func TestActionFailsAsStaleAfterSecondStaleNode(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	node := driver.Add(submitButton, &portstest.Node{StaleActions: 2})

	err := interactor.Submit(context.Background(), submitButton)

	require.Error(t, err)
	assert.Equal(t, apperr.CodeStale, apperr.CodeOf(err))
	assert.ErrorIs(t, err, ports.ErrStaleElement)
	assert.Empty(t, node.Calls)
}

func TestActionDriverErrorIsNotRetried(t *testing.T) {
	interactor, driver, logs := newTestInteractor(t)
	boom := errors.New("element click intercepted")
	driver.Add(submitButton, &portstest.Node{ActionErr: boom})

	err := interactor.Click(context.Background(), submitButton)

	require.Error(t, err)
	assert.Equal(t, apperr.CodeActionFailed, apperr.CodeOf(err))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, driver.FindCalls)
	assert.Equal(t, 1, logs.FilterMessage("Interaction failed").Len())
}

func TestActionTimeoutIsReportedAsTimeout(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	obstructed := fmt.Errorf("%w: element is covered by another element", ports.ErrActionTimeout)
	driver.Add(submitButton, &portstest.Node{ActionErr: obstructed})

	err := interactor.Click(context.Background(), submitButton)

	require.Error(t, err)
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
	assert.ErrorIs(t, err, ports.ErrActionTimeout)
	reason, _ := apperr.Meta(err, apperr.MetaReason)
	assert.Equal(t, "not_clickable", reason)
	assert.Equal(t, 1, driver.FindCalls)

	field := entity.ByID("userName")
	driver.Add(field, &portstest.Node{ActionErr: obstructed})

	err = interactor.TypeText(context.Background(), field, "John")

	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
	reason, _ = apperr.Meta(err, apperr.MetaReason)
	assert.Equal(t, "action_timeout", reason)
}

func TestActionsInvokeDriver(t *testing.T) {
	tests := []struct {
		name string
		call func(*Interactor, context.Context, entity.Locator) error
		want string
	}{
		{"submit", (*Interactor).Submit, "submit"},
		{"clear", (*Interactor).Clear, "clear"},
		{"double click", (*Interactor).DoubleClick, "double_click"},
		{"right click", (*Interactor).RightClick, "context_click"},
		{"hover", (*Interactor).Hover, "hover"},
		{"click and hold", (*Interactor).ClickAndHold, "click_and_hold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interactor, driver, _ := newTestInteractor(t)
			node := driver.Add(submitButton, &portstest.Node{HiddenChecks: 2})

			require.NoError(t, tt.call(interactor, context.Background(), submitButton))
			assert.Equal(t, []string{tt.want}, node.Calls)
		})
	}
}

func TestTypeAndReadText(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	input := entity.ByID("userName")
	output := entity.ByCSS("#output #name")
	node := driver.Add(input, nil)
	driver.Add(output, &portstest.Node{Text: "Name:Ana"})

	require.NoError(t, interactor.TypeText(context.Background(), input, "Ana"))
	assert.Equal(t, "Ana", node.Typed)

	text, err := interactor.ReadText(context.Background(), output)
	require.NoError(t, err)
	assert.Equal(t, "Name:Ana", text)
}

func TestDragAndDrop(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	source := entity.ByID("draggable")
	target := entity.ByID("droppable")
	node := driver.Add(source, nil)
	driver.Add(target, &portstest.Node{StaleResolutions: 1})

	require.NoError(t, interactor.DragAndDrop(context.Background(), source, target))
	assert.Equal(t, []string{"drag"}, node.Calls)
}

func TestDragAndDropMissingTarget(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	source := entity.ByID("draggable")
	node := driver.Add(source, nil)

	err := interactor.DragAndDrop(context.Background(), source, entity.ByID("droppable"))

	require.Error(t, err)
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
	assert.Empty(t, node.Calls)
}

func TestPressKeyComboReleasesModifier(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	driver.Add(submitButton, nil)

	require.NoError(t, interactor.PressKeyCombo(context.Background(), submitButton, entity.KeyControl, "a"))
	assert.Equal(t, []string{"down:Control", "type:a", "up:Control"}, driver.Keys())
}

func TestScroll(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	driver.Add(submitButton, nil)

	require.NoError(t, interactor.ScrollIntoView(context.Background(), submitButton))
	require.NoError(t, interactor.ScrollToTop(context.Background()))

	assert.Equal(t, []string{scrollIntoViewScript, scrollToTopScript}, driver.Scripts())
}

func TestNavigation(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	ctx := context.Background()

	require.NoError(t, interactor.Open(ctx, "https://demoqa.com/elements"))
	require.NoError(t, interactor.Refresh(ctx))
	require.NoError(t, interactor.Back(ctx))
	require.NoError(t, interactor.Forward(ctx))

	assert.Equal(t, []string{"open https://demoqa.com/elements", "refresh", "back", "forward"}, driver.History())

	url, err := interactor.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://demoqa.com/elements", url)

	title, err := interactor.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DEMOQA", title)

	err = interactor.Open(ctx, "")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestPageQueryFailuresAreLogged(t *testing.T) {
	interactor, driver, logs := newTestInteractor(t)
	ctx := context.Background()
	driver.PageErr = errors.New("target closed")

	queries := map[string]func(context.Context) (string, error){
		"CurrentURL": interactor.CurrentURL,
		"Title":      interactor.Title,
		"PageSource": interactor.PageSource,
	}

	for op, query := range queries {
		t.Run(op, func(t *testing.T) {
			value, err := query(ctx)

			assert.Empty(t, value)
			assert.Equal(t, apperr.CodeActionFailed, apperr.CodeOf(err))
			assert.ErrorIs(t, err, driver.PageErr)
		})
	}

	failed := logs.FilterMessage("Page query failed")
	require.Equal(t, 3, failed.Len())
	for _, entry := range failed.All() {
		assert.Contains(t, entry.ContextMap(), logg.Operation)
	}
}
