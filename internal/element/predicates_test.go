package element

import (
	"context"
	"testing"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/internal/ports/portstest"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePredicatesWaitForVisibility(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	radio := entity.ByXPath("//input[@id='noRadio']")
	driver.Add(radio, &portstest.Node{HiddenChecks: 3, Disabled: true, Selected: true})

	enabled, err := interactor.IsEnabled(context.Background(), radio)
	require.NoError(t, err)
	assert.False(t, enabled)

	displayed, err := interactor.IsDisplayed(context.Background(), radio)
	require.NoError(t, err)
	assert.True(t, displayed)

	checked, err := interactor.IsChecked(context.Background(), radio)
	require.NoError(t, err)
	assert.True(t, checked)
}

func TestStatePredicateFailsWhenNeverVisible(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	driver.Add(submitButton, &portstest.Node{Hidden: true})

	_, err := interactor.IsEnabled(context.Background(), submitButton)

	assert.True(t, apperr.HasCode(err, apperr.CodeTimeout))
}

func TestIsClickable(t *testing.T) {
	t.Run("visible and enabled", func(t *testing.T) {
		interactor, driver, _ := newTestInteractor(t)
		driver.Add(submitButton, &portstest.Node{HiddenChecks: 2})

		assert.True(t, interactor.IsClickable(context.Background(), submitButton))
	})

	t.Run("disabled never becomes clickable", func(t *testing.T) {
		interactor, driver, logs := newTestInteractor(t)
		driver.Add(submitButton, &portstest.Node{Disabled: true})

		assert.False(t, interactor.IsClickable(context.Background(), submitButton))
		assert.Equal(t, 1, logs.FilterMessage("Element is not clickable").Len())
	})

	t.Run("missing element", func(t *testing.T) {
		interactor, _, _ := newTestInteractor(t)

		assert.NotPanics(t, func() {
			assert.False(t, interactor.IsClickable(context.Background(), entity.ByID("missing")))
		})
	})

	t.Run("perpetually stale", func(t *testing.T) {
		interactor, driver, _ := newTestInteractor(t)
		driver.Add(submitButton, &portstest.Node{StaleResolutions: -1})

		assert.False(t, interactor.IsClickable(context.Background(), submitButton))
	})
}

func TestIsCurrentURLEqualToIsExact(t *testing.T) {
	tests := []struct {
		name   string
		actual string
		want   bool
	}{
		{"exact", "https://x/y", true},
		{"trailing slash", "https://x/y/", false},
		{"query", "https://x/y?z", false},
		{"prefix", "https://x/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interactor, driver, _ := newTestInteractor(t)
			driver.SetURLs(tt.actual)

			assert.Equal(t, tt.want, interactor.IsCurrentURLEqualTo(context.Background(), "https://x/y"))
		})
	}
}

func TestIsCurrentURLEqualToWaitsForNavigation(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	driver.SetURLs("https://demoqa.com/", "https://demoqa.com/", "https://demoqa.com/radio-button")

	assert.True(t, interactor.IsCurrentURLEqualTo(context.Background(), "https://demoqa.com/radio-button"))
}

func TestIsCurrentURLEqualToLogsBothURLs(t *testing.T) {
	interactor, driver, logs := newTestInteractor(t)
	driver.SetURLs("https://x/y/")

	require.False(t, interactor.IsCurrentURLEqualTo(context.Background(), "https://x/y"))

	entries := logs.FilterMessage("Current URL did not match the expected URL").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "https://x/y", fields[logg.Expected])
	assert.Equal(t, "https://x/y/", fields[logg.Actual])
}

func TestIsTextPresentInElement(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	message := entity.ByCSS("p.mt-3")
	driver.Add(message, &portstest.Node{Text: "You have selected Impressive"})

	present, err := interactor.IsTextPresentInElement(context.Background(), message, "Impressive")
	require.NoError(t, err)
	assert.True(t, present)

	present, err = interactor.IsTextPresentInElement(context.Background(), message, "impressive")
	require.NoError(t, err)
	assert.False(t, present)
}

func TestIsOptionPresentInDropdown(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	countries := entity.ByID("country")
	driver.Add(countries, &portstest.Node{Options: []entity.Option{
		{Index: 0, Text: "North Macedonia", Value: "mk"},
		{Index: 1, Text: "Canada", Value: "ca"},
	}})

	for text, want := range map[string]bool{
		"North Macedonia":  true,
		"Canada":           true,
		"north macedonia":  false,
		" North Macedonia": false,
		"mk":               false,
	} {
		present, err := interactor.IsOptionPresentInDropdown(context.Background(), countries, text)
		require.NoError(t, err)
		assert.Equal(t, want, present, text)
	}
}

func TestIsOptionPresentInDropdownOnNonSelect(t *testing.T) {
	interactor, driver, _ := newTestInteractor(t)
	driver.Add(submitButton, nil)

	_, err := interactor.IsOptionPresentInDropdown(context.Background(), submitButton, "Canada")

	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrNotSelect)
	assert.Equal(t, apperr.CodeActionFailed, apperr.CodeOf(err))
}
