package demoqa

import (
	"context"
	"testing"
	"time"

	"ui-harness/internal/assertion"
	"ui-harness/internal/config"
	"ui-harness/internal/entity"
	"ui-harness/internal/page/pagetest"
	"ui-harness/internal/ports/portstest"
	"ui-harness/internal/usecase"
	"ui-harness/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const baseURL = "https://demoqa.test/"

type readySession struct{}

func (readySession) Launch(context.Context) error { return nil }
func (readySession) Close(context.Context) error  { return nil }
func (readySession) IsReady() bool                { return true }

func newRunner(t *testing.T, driver *portstest.Driver) *usecase.Runner {
	t.Helper()

	base, _ := pagetest.New(t, driver)
	logger := zaptest.NewLogger(t)
	cfg := &config.Config{
		BrowserConfig: &config.BrowserConfig{ScreenshotDir: "shots"},
		HarnessConfig: &config.HarnessConfig{BaseURL: baseURL},
	}

	retrier := assertion.NewRetrier(assertion.Params{
		Policy: entity.RetryPolicy{MaxAttempts: 2, Delay: 5 * time.Millisecond},
		Logger: logger,
	})

	return usecase.NewRunner(usecase.RunnerParams{
		Config:    cfg,
		Logger:    logger,
		Session:   readySession{},
		Driver:    driver,
		Scenarios: Scenarios(Params{Base: base, Retrier: retrier, Config: cfg}),
	})
}

func TestScenarioCatalogue(t *testing.T) {
	runner := newRunner(t, portstest.NewDriver())

	names := make([]string, 0)
	for _, info := range runner.List() {
		names = append(names, info.Name)
	}

	assert.Equal(t, []string{
		"check-box-expand-collapse",
		"check-box-select",
		"navigate-elements",
		"radio-button-impressive",
		"radio-button-yes",
		"text-box-special-chars",
		"text-box-valid-submission",
	}, names)

	assert.Len(t, runner.Select(TagSmoke), 4)
}

func radioDriver(message string) *portstest.Driver {
	driver := portstest.NewDriver()
	driver.Add(radioButtonLocators["yes"], nil)
	driver.Add(radioButtonLocators["impressive"], nil)
	driver.Add(radioButtonLocators["no"], &portstest.Node{Disabled: true})
	driver.Add(radioButtonLocators["yesInput"], &portstest.Node{Selected: true})
	driver.Add(radioButtonLocators["successMessage"], &portstest.Node{Text: message})

	return driver
}

func TestRadioButtonYes(t *testing.T) {
	driver := radioDriver("Yes")
	runner := newRunner(t, driver)

	run, err := runner.Execute(context.Background(), "radio-button-yes")

	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusPassed, run.Status)
	assert.Len(t, run.Steps, 5)
	assert.Equal(t, []string{"open https://demoqa.test/radio-button"}, driver.History())
	assert.Equal(t, []string{"click"}, driver.Node(radioButtonLocators["yes"]).Calls)
}

func TestRadioButtonImpressive(t *testing.T) {
	driver := radioDriver("Impressive")

	run, err := newRunner(t, driver).Execute(context.Background(), "radio-button-impressive")

	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusPassed, run.Status)
}

func TestRadioButtonMismatchFailsRun(t *testing.T) {
	driver := radioDriver("Impressive")

	run, err := newRunner(t, driver).Execute(context.Background(), "radio-button-yes")

	require.Error(t, err)
	assert.Equal(t, apperr.CodeAssertionFailed, apperr.CodeOf(err))
	assert.Equal(t, entity.RunStatusFailed, run.Status)
	assert.Contains(t, run.Error, "expected [Yes] but found [Impressive]")

	last := run.Steps[len(run.Steps)-1]
	assert.False(t, last.Success)
	assert.Equal(t, "success message reads Yes", last.Description)
	assert.Contains(t, driver.History(), "screenshot shots/radio-button-yes-"+run.ID.String()+".jpg")
}

func TestTextBoxSubmission(t *testing.T) {
	driver := portstest.NewDriver()
	for _, key := range []string{"fullName", "email", "currentAddress", "permanentAddress", "submit"} {
		driver.Add(textBoxLocators[key], nil)
	}

	driver.Add(textBoxLocators["outputName"], &portstest.Node{Text: "Name:John Doe"})
	driver.Add(textBoxLocators["outputEmail"], &portstest.Node{Text: "Email:john.doe@example.com"})
	driver.Add(textBoxLocators["outputCurrent"], &portstest.Node{Text: "Current Address :221B Baker Street, London"})
	driver.Add(textBoxLocators["outputPermanent"], &portstest.Node{Text: "Permananet Address :742 Evergreen Terrace, Springfield"})

	run, err := newRunner(t, driver).Execute(context.Background(), "text-box-valid-submission")

	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusPassed, run.Status)
	assert.Equal(t, "John Doe", driver.Node(textBoxLocators["fullName"]).Typed)
	assert.Equal(t, []string{"clear", "send_keys"}, driver.Node(textBoxLocators["email"]).Calls)
}

func TestCheckBoxSelect(t *testing.T) {
	driver := portstest.NewDriver()
	driver.Add(checkBoxLocators["expandAll"], nil)
	for _, title := range []string{"Commands", "Angular", "Classified"} {
		driver.Add(checkboxLabel(title), nil)
	}

	driver.Add(checkBoxLocators["result"], &portstest.Node{Text: "You have selected :\ncommands\nangular\nclassified"})

	run, err := newRunner(t, driver).Execute(context.Background(), "check-box-select")

	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusPassed, run.Status)
	assert.Equal(t, []string{"click"}, driver.Node(checkboxLabel("Angular")).Calls)
}

func TestCheckboxLabelQuoting(t *testing.T) {
	assert.Equal(t, entity.ByXPath("//span[@class='rct-title' and text()='Notes']"), checkboxLabel("Notes"))
	assert.Equal(t, entity.ByXPath(`//span[@class='rct-title' and text()="Don't"]`), checkboxLabel("Don't"))
}

func TestOutputUnknownField(t *testing.T) {
	base, _ := pagetest.New(t, portstest.NewDriver())

	_, err := NewSite(base, baseURL).TextBox().Output(context.Background(), "phone")

	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
