package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ui-harness/internal/config"
	"ui-harness/internal/entity"
	"ui-harness/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type scenariosMock struct {
	mock.Mock
}

func (s *scenariosMock) List() []entity.ScenarioInfo {
	return s.Called().Get(0).([]entity.ScenarioInfo)
}

func (s *scenariosMock) Run(ctx context.Context, selector string) ([]*entity.Run, error) {
	args := s.Called(ctx, selector)

	runs, _ := args.Get(0).([]*entity.Run)

	return runs, args.Error(1)
}

func (s *scenariosMock) Stop() {
	s.Called()
}

type browserStub struct {
	ready bool
}

func (b *browserStub) Launch(context.Context) error { return nil }
func (b *browserStub) Close(context.Context) error  { return nil }
func (b *browserStub) IsReady() bool                { return b.ready }

func newConsole(t *testing.T, input string) (*Interface, *scenariosMock, *bytes.Buffer) {
	t.Helper()

	return newConsoleWithBrowser(t, input, &browserStub{ready: true})
}

func newConsoleWithBrowser(t *testing.T, input string, browser *browserStub) (*Interface, *scenariosMock, *bytes.Buffer) {
	t.Helper()

	scenarios := &scenariosMock{}
	out := &bytes.Buffer{}

	console := NewInterface(Params{
		Config:  &config.Config{HarnessConfig: &config.HarnessConfig{BaseURL: "https://demoqa.com"}},
		Logger:  zap.NewNop(),
		Usecase: &usecase.Service{Scenarios: scenarios, Browser: browser},
		Input:   strings.NewReader(input),
		Output:  out,
	})

	return console, scenarios, out
}

func finished(name string, status entity.RunStatus, steps int) *entity.Run {
	created := time.Now()
	completed := created.Add(1500 * time.Millisecond)

	return &entity.Run{
		ID:          uuid.New(),
		Scenario:    name,
		Status:      status,
		CreatedAt:   created,
		CompletedAt: &completed,
		Steps:       make([]entity.Step, steps),
	}
}

func TestListCommand(t *testing.T) {
	console, scenarios, out := newConsole(t, "list\nexit\n")
	scenarios.On("List").Return([]entity.ScenarioInfo{
		{Name: "radio-button-yes", Description: "Selecting Yes reports Yes", Tags: []string{"radio", "smoke"}},
	})

	require.NoError(t, console.Start())

	assert.Contains(t, out.String(), "radio-button-yes")
	assert.Contains(t, out.String(), "radio,smoke")
	assert.Contains(t, out.String(), "Shutting down...")
	scenarios.AssertExpectations(t)
}

func TestRunCommandPrintsSummary(t *testing.T) {
	console, scenarios, out := newConsole(t, "run smoke\n")

	failed := finished("check-box-select", entity.RunStatusFailed, 4)
	failed.Error = "Execute: Equals: check box selection: expected [a] but found [b]"
	failed.Screenshot = "screenshots/check-box-select.jpg"

	scenarios.On("Run", mock.Anything, "smoke").Return([]*entity.Run{
		failed,
		finished("radio-button-yes", entity.RunStatusPassed, 5),
	}, errors.New("check-box-select failed"))

	require.NoError(t, console.Start())

	text := out.String()
	assert.Contains(t, text, "FAIL check-box-select (4 steps, 1.5s)")
	assert.Contains(t, text, "expected [a] but found [b]")
	assert.Contains(t, text, "screenshot: screenshots/check-box-select.jpg")
	assert.Contains(t, text, "PASS radio-button-yes (5 steps, 1.5s)")
	assert.Contains(t, text, "1/2 passed")
}

func TestRunWithoutSelector(t *testing.T) {
	console, scenarios, out := newConsole(t, "run\nfly\n")

	require.NoError(t, console.Start())

	assert.Contains(t, out.String(), "Usage: run <scenario|tag|all>")
	assert.Contains(t, out.String(), `Unknown command "fly"`)
	scenarios.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestRunBatchExitCode(t *testing.T) {
	console, scenarios, out := newConsole(t, "")

	scenarios.On("Run", mock.Anything, "smoke").Return([]*entity.Run{finished("text-box", entity.RunStatusPassed, 3)}, nil)
	scenarios.On("Run", mock.Anything, "frames").Return(nil, errors.New("no scenario named or tagged \"frames\""))

	assert.Equal(t, ExitOK, console.RunBatch([]string{"smoke"}))
	assert.Equal(t, ExitFailed, console.RunBatch([]string{"smoke", " frames "}))
	assert.Contains(t, out.String(), "Error: no scenario named or tagged")
}

func TestStopCancelsAndEndsLoop(t *testing.T) {
	console, scenarios, _ := newConsole(t, "list\n")
	scenarios.On("Stop").Return().Once()

	console.Stop()
	console.Stop()

	require.NoError(t, console.Start())

	assert.Error(t, console.ctx.Err())
	assert.Equal(t, ExitFailed, console.RunBatch([]string{"smoke"}))
	scenarios.AssertExpectations(t)
	scenarios.AssertNotCalled(t, "List")
}

func TestRunRefusedBeforeBrowserLaunch(t *testing.T) {
	browser := &browserStub{}
	console, scenarios, out := newConsoleWithBrowser(t, "run smoke\n", browser)

	require.NoError(t, console.Start())

	assert.Contains(t, out.String(), "Error: browser is not ready, nothing was run")
	assert.Equal(t, ExitFailed, console.RunBatch([]string{"smoke"}))
	scenarios.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)

	browser.ready = true
	scenarios.On("Run", mock.Anything, "smoke").Return([]*entity.Run{finished("text-box", entity.RunStatusPassed, 3)}, nil)

	assert.Equal(t, ExitOK, console.RunBatch([]string{"smoke"}))
}
