package browser

import (
	"fmt"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"

	"github.com/playwright-community/playwright-go"
)

// element adapts a playwright element handle. Every error passes through
// classify so detached nodes surface as ports.ErrStaleElement.
type element struct {
	manager *Manager
	handle  playwright.ElementHandle
}

func (e *element) IsDisplayed() (bool, error) {
	ok, err := e.handle.IsVisible()

	return ok, classify(err)
}

func (e *element) IsEnabled() (bool, error) {
	ok, err := e.handle.IsEnabled()

	return ok, classify(err)
}

func (e *element) IsSelected() (bool, error) {
	result, err := e.handle.Evaluate(selectedScript)
	if err != nil {
		return false, classify(err)
	}

	selected, _ := result.(bool)

	return selected, nil
}

func (e *element) Click() error {
	return classify(e.handle.Click(playwright.ElementHandleClickOptions{Timeout: e.manager.actionTimeout()}))
}

func (e *element) Submit() error {
	_, err := e.handle.Evaluate(submitScript)

	return classify(err)
}

func (e *element) Clear() error {
	return classify(e.handle.Fill("", playwright.ElementHandleFillOptions{Timeout: e.manager.actionTimeout()}))
}

func (e *element) SendKeys(text string) error {
	return classify(e.handle.Type(text, playwright.ElementHandleTypeOptions{Timeout: e.manager.actionTimeout()}))
}

// Text returns the rendered text of the node.
func (e *element) Text() (string, error) {
	text, err := e.handle.InnerText()

	return text, classify(err)
}

func (e *element) DoubleClick() error {
	return classify(e.handle.Dblclick(playwright.ElementHandleDblclickOptions{Timeout: e.manager.actionTimeout()}))
}

func (e *element) ContextClick() error {
	return classify(e.handle.Click(playwright.ElementHandleClickOptions{
		Button:  playwright.MouseButtonRight,
		Timeout: e.manager.actionTimeout(),
	}))
}

func (e *element) Hover() error {
	return classify(e.handle.Hover(playwright.ElementHandleHoverOptions{Timeout: e.manager.actionTimeout()}))
}

func (e *element) ClickAndHold() error {
	if err := e.handle.Hover(playwright.ElementHandleHoverOptions{Timeout: e.manager.actionTimeout()}); err != nil {
		return classify(err)
	}

	return e.manager.page.Mouse().Down()
}

func (e *element) DragTo(target ports.Element) error {
	to, ok := target.(*element)
	if !ok {
		return fmt.Errorf("element of type %T does not belong to this driver", target)
	}

	from, err := e.box()
	if err != nil {
		return err
	}

	dest, err := to.box()
	if err != nil {
		return err
	}

	mouse := e.manager.page.Mouse()
	fromX, fromY := center(from)
	destX, destY := center(dest)

	if err := mouse.Move(fromX, fromY); err != nil {
		return err
	}

	if err := mouse.Down(); err != nil {
		return err
	}

	if err := mouse.Move(destX, destY, playwright.MouseMoveOptions{Steps: playwright.Int(10)}); err != nil {
		return err
	}

	return mouse.Up()
}

func (e *element) box() (*playwright.Rect, error) {
	box, err := e.handle.BoundingBox()
	if err != nil {
		return nil, classify(err)
	}

	if box == nil {
		return nil, fmt.Errorf("element has no bounding box: %w", ports.ErrStaleElement)
	}

	return box, nil
}

func (e *element) Options() ([]entity.Option, error) {
	result, err := e.handle.Evaluate(optionsScript)
	if err != nil {
		return nil, classify(err)
	}

	return parseOptions(result)
}

func (e *element) SelectIndex(index int) error {
	_, err := e.handle.SelectOption(playwright.SelectOptionValues{
		Indexes: &[]int{index},
	}, playwright.ElementHandleSelectOptionOptions{Timeout: e.manager.actionTimeout()})

	return classify(err)
}
