package demoqa

import (
	"context"

	"ui-harness/internal/assertion"
	"ui-harness/internal/config"
	"ui-harness/internal/page"
	"ui-harness/internal/usecase"

	"go.uber.org/fx"
)

const (
	TagSmoke    = "smoke"
	TagTextBox  = "text-box"
	TagRadio    = "radio"
	TagCheckBox = "check-box"
	TagNav      = "navigation"

	// attempts for every value comparison; the page settles within one retry
	attempts = 2
)

type Params struct {
	fx.In

	Base    *page.Base
	Retrier *assertion.Retrier
	Config  *config.Config
}

// Scenarios returns the demoqa elements-section checks.
func Scenarios(params Params) []usecase.Scenario {
	s := &suite{
		site:    NewSite(params.Base, params.Config.HarnessConfig.BaseURL),
		retrier: params.Retrier,
	}

	return []usecase.Scenario{
		{
			Name:        "navigate-elements",
			Description: "Home page card leads to the elements section",
			Tags:        []string{TagNav, TagSmoke},
			Run:         s.navigateElements,
		},
		{
			Name:        "radio-button-yes",
			Description: "Selecting Yes reports Yes",
			Tags:        []string{TagRadio, TagSmoke},
			Run:         s.radioYes,
		},
		{
			Name:        "radio-button-impressive",
			Description: "Selecting Impressive reports Impressive while No stays disabled",
			Tags:        []string{TagRadio},
			Run:         s.radioImpressive,
		},
		{
			Name:        "text-box-valid-submission",
			Description: "A complete form is echoed in the output block",
			Tags:        []string{TagTextBox, TagSmoke},
			Run: s.textBox(Form{
				FullName:         "John Doe",
				Email:            "john.doe@example.com",
				CurrentAddress:   "221B Baker Street, London",
				PermanentAddress: "742 Evergreen Terrace, Springfield",
			}),
		},
		{
			Name:        "text-box-special-chars",
			Description: "Accented and punctuated input survives the round trip",
			Tags:        []string{TagTextBox},
			Run: s.textBox(Form{
				FullName:         "Émile O'Brien-Ünal",
				Email:            "emile.obrien@example.com",
				CurrentAddress:   "#42, Rue de l'Église & Co. (3rd floor)",
				PermanentAddress: "Straße 7/9 ; \"Haus B\"",
			}),
		},
		{
			Name:        "check-box-expand-collapse",
			Description: "Expand all reveals nested nodes and collapse all hides them",
			Tags:        []string{TagCheckBox},
			Run:         s.checkBoxExpandCollapse,
		},
		{
			Name:        "check-box-select",
			Description: "Ticking leaf nodes lists them in the result line",
			Tags:        []string{TagCheckBox, TagSmoke},
			Run:         s.checkBoxSelect,
		},
	}
}

type suite struct {
	site    *Site
	retrier *assertion.Retrier
}

func (s *suite) navigateElements(ctx context.Context, rec *usecase.Recorder) error {
	home := s.site.Home()

	if err := rec.Step("open home page", func() error { return home.Open(ctx) }); err != nil {
		return err
	}

	if err := rec.Step("click the Elements card", func() error { return home.ClickElementsCard(ctx) }); err != nil {
		return err
	}

	return rec.Step("land on the elements section", func() error {
		return s.retrier.True(ctx, func() (bool, error) {
			return home.IsOnElements(ctx), nil
		}, "elements section url", attempts)
	})
}

func (s *suite) radioYes(ctx context.Context, rec *usecase.Recorder) error {
	radio := s.site.RadioButton()

	if err := s.openRadio(ctx, rec, radio); err != nil {
		return err
	}

	if err := rec.Step("select Yes", func() error { return radio.ClickYes(ctx) }); err != nil {
		return err
	}

	if err := rec.Step("Yes is checked", func() error {
		return s.retrier.True(ctx, func() (bool, error) {
			return radio.IsYesChecked(ctx)
		}, "yes radio state", attempts)
	}); err != nil {
		return err
	}

	return rec.Step("success message reads Yes", func() error {
		return assertion.Equals(ctx, s.retrier, func() (string, error) {
			return radio.SuccessMessage(ctx)
		}, "Yes", "radio success message", attempts)
	})
}

func (s *suite) radioImpressive(ctx context.Context, rec *usecase.Recorder) error {
	radio := s.site.RadioButton()

	if err := s.openRadio(ctx, rec, radio); err != nil {
		return err
	}

	if err := rec.Step("select Impressive", func() error { return radio.ClickImpressive(ctx) }); err != nil {
		return err
	}

	if err := rec.Step("success message reads Impressive", func() error {
		return assertion.Equals(ctx, s.retrier, func() (string, error) {
			return radio.SuccessMessage(ctx)
		}, "Impressive", "radio success message", attempts)
	}); err != nil {
		return err
	}

	return rec.Step("No stays disabled", func() error {
		return assertion.Equals(ctx, s.retrier, func() (bool, error) {
			return radio.IsNoEnabled(ctx)
		}, false, "no radio enabled", attempts)
	})
}

func (s *suite) openRadio(ctx context.Context, rec *usecase.Recorder, radio *RadioButtonPage) error {
	if err := rec.Step("open radio button page", func() error { return radio.Open(ctx) }); err != nil {
		return err
	}

	return rec.Step("radio button page is shown", func() error {
		return s.retrier.True(ctx, func() (bool, error) {
			return radio.IsOpen(ctx), nil
		}, "radio button page url", attempts)
	})
}

func (s *suite) textBox(form Form) func(ctx context.Context, rec *usecase.Recorder) error {
	return func(ctx context.Context, rec *usecase.Recorder) error {
		textBox := s.site.TextBox()

		if err := rec.Step("open text box page", func() error { return textBox.Open(ctx) }); err != nil {
			return err
		}

		if err := rec.Step("fill the form", func() error { return textBox.Fill(ctx, form) }); err != nil {
			return err
		}

		if err := rec.Step("submit the form", func() error { return textBox.Submit(ctx) }); err != nil {
			return err
		}

		outputs := []struct {
			field string
			want  string
		}{
			{"name", "Name:" + form.FullName},
			{"email", "Email:" + form.Email},
			{"current", "Current Address :" + form.CurrentAddress},
			// the site spells the label this way
			{"permanent", "Permananet Address :" + form.PermanentAddress},
		}

		for _, out := range outputs {
			if err := rec.Step("output shows "+out.field, func() error {
				return assertion.Equals(ctx, s.retrier, func() (string, error) {
					return textBox.Output(ctx, out.field)
				}, out.want, "text box "+out.field+" output", attempts)
			}); err != nil {
				return err
			}
		}

		return nil
	}
}

func (s *suite) checkBoxExpandCollapse(ctx context.Context, rec *usecase.Recorder) error {
	checkBox := s.site.CheckBox()

	if err := rec.Step("open check box page", func() error { return checkBox.Open(ctx) }); err != nil {
		return err
	}

	if err := rec.Step("expand all", func() error { return checkBox.ExpandAll(ctx) }); err != nil {
		return err
	}

	if err := rec.Step("nested node is shown", func() error {
		return s.retrier.True(ctx, func() (bool, error) {
			return checkBox.IsNodeVisible(ctx, "Commands"), nil
		}, "Commands node visible", attempts)
	}); err != nil {
		return err
	}

	if err := rec.Step("collapse all", func() error { return checkBox.CollapseAll(ctx) }); err != nil {
		return err
	}

	return rec.Step("nested node is hidden", func() error {
		return s.retrier.True(ctx, func() (bool, error) {
			return !checkBox.IsNodeVisible(ctx, "Commands"), nil
		}, "Commands node hidden", attempts)
	})
}

func (s *suite) checkBoxSelect(ctx context.Context, rec *usecase.Recorder) error {
	checkBox := s.site.CheckBox()

	if err := rec.Step("open check box page", func() error { return checkBox.Open(ctx) }); err != nil {
		return err
	}

	if err := rec.Step("expand all", func() error { return checkBox.ExpandAll(ctx) }); err != nil {
		return err
	}

	for _, title := range []string{"Commands", "Angular", "Classified"} {
		if err := rec.Step("tick "+title, func() error { return checkBox.Toggle(ctx, title) }); err != nil {
			return err
		}
	}

	return rec.Step("result lists the ticked nodes", func() error {
		return assertion.Equals(ctx, s.retrier, func() (string, error) {
			return checkBox.Selection(ctx)
		}, "You have selected : commands angular classified", "check box selection", attempts)
	})
}
