// Package demoqa holds page objects for the demoqa.com elements section.
package demoqa

import (
	"context"
	"fmt"
	"strings"

	"ui-harness/internal/entity"
	"ui-harness/internal/page"
)

const (
	HomePath        = "/"
	ElementsPath    = "/elements"
	TextBoxPath     = "/text-box"
	CheckBoxPath    = "/checkbox"
	RadioButtonPath = "/radio-button"
)

// Site resolves page URLs against one base URL.
type Site struct {
	*page.Base

	baseURL string
}

func NewSite(base *page.Base, baseURL string) *Site {
	return &Site{Base: base, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Site) URL(path string) string {
	return s.baseURL + path
}

type HomePage struct {
	site *Site
}

var homeLocators = page.LocatorSet{
	"elementsCard": entity.ByXPath("//h5[text()='Elements']"),
}

func (s *Site) Home() *HomePage { return &HomePage{site: s} }

func (p *HomePage) Name() string              { return "home" }
func (p *HomePage) URL() string               { return p.site.URL(HomePath) }
func (p *HomePage) Locators() page.LocatorSet { return homeLocators }

func (p *HomePage) Open(ctx context.Context) error {
	return p.site.Open(ctx, p)
}

func (p *HomePage) ClickElementsCard(ctx context.Context) error {
	if err := p.site.Elements.ScrollIntoView(ctx, homeLocators["elementsCard"]); err != nil {
		return err
	}

	return p.site.Elements.Click(ctx, homeLocators["elementsCard"])
}

// IsOnElements reports whether the browser landed on the elements section.
func (p *HomePage) IsOnElements(ctx context.Context) bool {
	return p.site.Elements.IsCurrentURLEqualTo(ctx, p.site.URL(ElementsPath))
}

type TextBoxPage struct {
	site *Site
}

var textBoxLocators = page.LocatorSet{
	"sectionLink":      entity.ByXPath("//span[text()='Text Box']"),
	"fullName":         entity.ByID("userName"),
	"email":            entity.ByID("userEmail"),
	"currentAddress":   entity.ByID("currentAddress"),
	"permanentAddress": entity.ByID("permanentAddress"),
	"submit":           entity.ByID("submit"),
	"output":           entity.ByID("output"),
	"outputName":       entity.ByCSS("#output #name"),
	"outputEmail":      entity.ByCSS("#output #email"),
	"outputCurrent":    entity.ByCSS("#output #currentAddress"),
	"outputPermanent":  entity.ByCSS("#output #permanentAddress"),
}

func (s *Site) TextBox() *TextBoxPage { return &TextBoxPage{site: s} }

func (p *TextBoxPage) Name() string              { return "text-box" }
func (p *TextBoxPage) URL() string               { return p.site.URL(TextBoxPath) }
func (p *TextBoxPage) Locators() page.LocatorSet { return textBoxLocators }

func (p *TextBoxPage) Open(ctx context.Context) error {
	return p.site.Open(ctx, p)
}

func (p *TextBoxPage) IsOpen(ctx context.Context) bool {
	return p.site.IsAt(ctx, p)
}

// Form is the data entered into the text box form. Empty fields are left untouched.
type Form struct {
	FullName         string
	Email            string
	CurrentAddress   string
	PermanentAddress string
}

func (p *TextBoxPage) Fill(ctx context.Context, form Form) error {
	fields := []struct {
		key   string
		value string
	}{
		{"fullName", form.FullName},
		{"email", form.Email},
		{"currentAddress", form.CurrentAddress},
		{"permanentAddress", form.PermanentAddress},
	}

	for _, field := range fields {
		if field.value == "" {
			continue
		}

		loc := textBoxLocators[field.key]
		if err := p.site.Elements.Clear(ctx, loc); err != nil {
			return err
		}

		if err := p.site.Elements.TypeText(ctx, loc, field.value); err != nil {
			return err
		}
	}

	return nil
}

func (p *TextBoxPage) Submit(ctx context.Context) error {
	if err := p.site.Elements.ScrollIntoView(ctx, textBoxLocators["submit"]); err != nil {
		return err
	}

	return p.site.Elements.Click(ctx, textBoxLocators["submit"])
}

// Output reads one line of the output block: "name", "email", "current" or "permanent".
func (p *TextBoxPage) Output(ctx context.Context, field string) (string, error) {
	key := "output" + strings.ToUpper(field[:1]) + field[1:]

	loc, err := textBoxLocators.Get(key)
	if err != nil {
		return "", err
	}

	return p.site.Elements.ReadText(ctx, loc)
}

type RadioButtonPage struct {
	site *Site
}

var radioButtonLocators = page.LocatorSet{
	"sectionLink":    entity.ByID("item-2"),
	"yes":            entity.ByXPath("//label[@for='yesRadio']"),
	"impressive":     entity.ByXPath("//label[@for='impressiveRadio']"),
	"no":             entity.ByXPath("//input[@id='noRadio']"),
	"yesInput":       entity.ByXPath("//input[@id='yesRadio']"),
	"successMessage": entity.ByCSS("span.text-success"),
}

func (s *Site) RadioButton() *RadioButtonPage { return &RadioButtonPage{site: s} }

func (p *RadioButtonPage) Name() string              { return "radio-button" }
func (p *RadioButtonPage) URL() string               { return p.site.URL(RadioButtonPath) }
func (p *RadioButtonPage) Locators() page.LocatorSet { return radioButtonLocators }

func (p *RadioButtonPage) Open(ctx context.Context) error {
	return p.site.Open(ctx, p)
}

func (p *RadioButtonPage) IsOpen(ctx context.Context) bool {
	return p.site.IsAt(ctx, p)
}

func (p *RadioButtonPage) ClickYes(ctx context.Context) error {
	return p.site.Elements.Click(ctx, radioButtonLocators["yes"])
}

func (p *RadioButtonPage) ClickImpressive(ctx context.Context) error {
	return p.site.Elements.Click(ctx, radioButtonLocators["impressive"])
}

func (p *RadioButtonPage) IsNoEnabled(ctx context.Context) (bool, error) {
	return p.site.Elements.IsEnabled(ctx, radioButtonLocators["no"])
}

func (p *RadioButtonPage) IsYesChecked(ctx context.Context) (bool, error) {
	return p.site.Elements.IsChecked(ctx, radioButtonLocators["yesInput"])
}

func (p *RadioButtonPage) SuccessMessage(ctx context.Context) (string, error) {
	return p.site.Elements.ReadText(ctx, radioButtonLocators["successMessage"])
}

type CheckBoxPage struct {
	site *Site
}

var checkBoxLocators = page.LocatorSet{
	"expandAll":   entity.ByCSS("button[title='Expand all']"),
	"collapseAll": entity.ByCSS("button[title='Collapse all']"),
	"result":      entity.ByID("result"),
}

func (s *Site) CheckBox() *CheckBoxPage { return &CheckBoxPage{site: s} }

func (p *CheckBoxPage) Name() string              { return "check-box" }
func (p *CheckBoxPage) URL() string               { return p.site.URL(CheckBoxPath) }
func (p *CheckBoxPage) Locators() page.LocatorSet { return checkBoxLocators }

func (p *CheckBoxPage) Open(ctx context.Context) error {
	return p.site.Open(ctx, p)
}

func (p *CheckBoxPage) ExpandAll(ctx context.Context) error {
	return p.site.Elements.Click(ctx, checkBoxLocators["expandAll"])
}

func (p *CheckBoxPage) CollapseAll(ctx context.Context) error {
	return p.site.Elements.Click(ctx, checkBoxLocators["collapseAll"])
}

// Toggle clicks the checkbox whose tree label reads title.
func (p *CheckBoxPage) Toggle(ctx context.Context, title string) error {
	return p.site.Elements.Click(ctx, checkboxLabel(title))
}

// IsNodeVisible reports whether the tree node titled title is shown. The
// wait for a collapsed node runs to the policy timeout.
func (p *CheckBoxPage) IsNodeVisible(ctx context.Context, title string) bool {
	visible, err := p.site.Elements.IsDisplayed(ctx, checkboxLabel(title))

	return err == nil && visible
}

// Selection returns the result line with whitespace collapsed.
func (p *CheckBoxPage) Selection(ctx context.Context) (string, error) {
	text, err := p.site.Elements.ReadText(ctx, checkBoxLocators["result"])
	if err != nil {
		return "", err
	}

	return strings.Join(strings.Fields(text), " "), nil
}

func checkboxLabel(title string) entity.Locator {
	return entity.ByXPath(fmt.Sprintf("//span[@class='rct-title' and text()=%s]", xpathLiteral(title)))
}

func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	return `"` + s + `"`
}
