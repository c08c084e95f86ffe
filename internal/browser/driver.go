package browser

import (
	"context"
	"errors"
	"fmt"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
	"ui-harness/pkg/apperr"
	"ui-harness/pkg/logg"
	"ui-harness/pkg/tracing"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var (
	_ ports.Driver  = (*Manager)(nil)
	_ ports.Session = (*Manager)(nil)
	_ ports.Element = (*element)(nil)
	_ ports.Alert   = (*dialog)(nil)
)

func (m *Manager) Find(_ context.Context, loc entity.Locator) (ports.Element, error) {
	const op = "Find"

	if _, err := m.active(op); err != nil {
		return nil, err
	}

	selector, err := selectorFor(loc)
	if err != nil {
		return nil, apperr.InvalidReqError(op, "locator", err)
	}

	handle, err := m.current.QuerySelector(selector)
	if err != nil {
		return nil, classify(err)
	}

	if handle == nil {
		return nil, fmt.Errorf("%s: %w", loc, ports.ErrNoSuchElement)
	}

	return &element{manager: m, handle: handle}, nil
}

func (m *Manager) Open(ctx context.Context, url string) (err error) {
	const op = "Navigate"
	logger := m.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	_, step := tracing.StartSpan(ctx, m.tracer, logger, op, tracing.URL(url))
	defer func() {
		step.End(err)
	}()

	page, err := m.active(op)
	if err != nil {
		return err
	}

	_, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return err
	}

	m.current = page.MainFrame()

	return nil
}

func (m *Manager) Refresh(context.Context) error {
	return m.history("Refresh", func(page playwright.Page) error {
		_, err := page.Reload(playwright.PageReloadOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded})

		return err
	})
}

func (m *Manager) Back(context.Context) error {
	return m.history("Back", func(page playwright.Page) error {
		_, err := page.GoBack(playwright.PageGoBackOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded})

		return err
	})
}

func (m *Manager) Forward(context.Context) error {
	return m.history("Forward", func(page playwright.Page) error {
		_, err := page.GoForward(playwright.PageGoForwardOptions{WaitUntil: playwright.WaitUntilStateDomcontentloaded})

		return err
	})
}

func (m *Manager) history(op string, fn func(page playwright.Page) error) error {
	page, err := m.active(op)
	if err != nil {
		return err
	}

	if err := fn(page); err != nil {
		return err
	}

	m.current = page.MainFrame()

	return nil
}

func (m *Manager) CurrentURL(context.Context) (string, error) {
	page, err := m.active("CurrentURL")
	if err != nil {
		return "", err
	}

	return page.URL(), nil
}

func (m *Manager) Title(context.Context) (string, error) {
	page, err := m.active("Title")
	if err != nil {
		return "", err
	}

	return page.Title()
}

func (m *Manager) PageSource(context.Context) (string, error) {
	page, err := m.active("PageSource")
	if err != nil {
		return "", err
	}

	return page.Content()
}

// ExecuteScript evaluates script in the current frame, or against target
// when one is given.
func (m *Manager) ExecuteScript(_ context.Context, script string, target ports.Element) (any, error) {
	if _, err := m.active("ExecuteScript"); err != nil {
		return nil, err
	}

	if target == nil {
		result, err := m.current.Evaluate(script)

		return result, classify(err)
	}

	el, ok := target.(*element)
	if !ok {
		return nil, fmt.Errorf("element of type %T does not belong to this driver", target)
	}

	result, err := el.handle.Evaluate(script)

	return result, classify(err)
}

func (m *Manager) Keyboard() ports.Keyboard {
	return keyboard{manager: m}
}

func (m *Manager) SwitchToFrameByIndex(_ context.Context, index int) error {
	if _, err := m.active("SwitchToFrameByIndex"); err != nil {
		return err
	}

	children := m.current.ChildFrames()
	if index < 0 || index >= len(children) {
		return fmt.Errorf("index %d of %d: %w", index, len(children), ports.ErrNoSuchFrame)
	}

	m.current = children[index]

	return nil
}

// SwitchToFrameByName matches the frame's name or id attribute.
func (m *Manager) SwitchToFrameByName(_ context.Context, name string) error {
	if _, err := m.active("SwitchToFrameByName"); err != nil {
		return err
	}

	for _, child := range m.current.ChildFrames() {
		if child.Name() == name {
			m.current = child

			return nil
		}
	}

	handle, err := m.current.QuerySelector(fmt.Sprintf("iframe[id=%q], frame[id=%q]", name, name))
	if err == nil && handle != nil {
		if frame, err := handle.ContentFrame(); err == nil && frame != nil {
			m.current = frame

			return nil
		}
	}

	return fmt.Errorf("name %q: %w", name, ports.ErrNoSuchFrame)
}

func (m *Manager) SwitchToFrameByElement(_ context.Context, target ports.Element) error {
	if _, err := m.active("SwitchToFrameByElement"); err != nil {
		return err
	}

	el, ok := target.(*element)
	if !ok {
		return ports.ErrNoSuchFrame
	}

	frame, err := el.handle.ContentFrame()
	if err != nil {
		return classify(err)
	}

	if frame == nil {
		return fmt.Errorf("element is not a frame: %w", ports.ErrNoSuchFrame)
	}

	m.current = frame

	return nil
}

func (m *Manager) SwitchToDefaultContent(context.Context) error {
	page, err := m.active("SwitchToDefaultContent")
	if err != nil {
		return err
	}

	m.current = page.MainFrame()

	return nil
}

func (m *Manager) Alert(context.Context) (ports.Alert, error) {
	if _, err := m.active("Alert"); err != nil {
		return nil, err
	}

	m.dialogMu.Lock()
	defer m.dialogMu.Unlock()

	if m.dialog == nil {
		return nil, ports.ErrNoAlert
	}

	return &dialog{manager: m, dialog: m.dialog}, nil
}

var errNotPrompt = errors.New("dialog does not accept text input")

// dialog resolves the pending playwright dialog. Keys sent to a prompt are
// buffered and submitted on Accept.
type dialog struct {
	manager *Manager
	dialog  playwright.Dialog
}

func (d *dialog) Text() (string, error) {
	return d.dialog.Message(), nil
}

func (d *dialog) Accept() error {
	d.manager.dialogMu.Lock()
	text := d.manager.promptText
	d.manager.dialogMu.Unlock()

	var err error
	if d.dialog.Type() == "prompt" && text != "" {
		err = d.dialog.Accept(text)
	} else {
		err = d.dialog.Accept()
	}

	if err != nil {
		return err
	}

	d.release()

	return nil
}

func (d *dialog) Dismiss() error {
	if err := d.dialog.Dismiss(); err != nil {
		return err
	}

	d.release()

	return nil
}

func (d *dialog) SendKeys(text string) error {
	if d.dialog.Type() != "prompt" {
		return errNotPrompt
	}

	d.manager.dialogMu.Lock()
	defer d.manager.dialogMu.Unlock()

	d.manager.promptText += text

	return nil
}

func (d *dialog) release() {
	d.manager.dialogMu.Lock()
	defer d.manager.dialogMu.Unlock()

	if d.manager.dialog == d.dialog {
		d.manager.dialog = nil
		d.manager.promptText = ""
	}
}

type keyboard struct {
	manager *Manager
}

func (k keyboard) Down(key entity.Key) error {
	return k.press("KeyDown", func(kb playwright.Keyboard) error { return kb.Down(string(key)) })
}

func (k keyboard) Type(text string) error {
	return k.press("KeyType", func(kb playwright.Keyboard) error { return kb.Type(text) })
}

func (k keyboard) Up(key entity.Key) error {
	return k.press("KeyUp", func(kb playwright.Keyboard) error { return kb.Up(string(key)) })
}

func (k keyboard) press(op string, fn func(kb playwright.Keyboard) error) error {
	page, err := k.manager.active(op)
	if err != nil {
		return err
	}

	return fn(page.Keyboard())
}
