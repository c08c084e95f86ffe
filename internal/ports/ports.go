package ports

import (
	"context"
	"errors"

	"ui-harness/internal/entity"
)

var (
	ErrNoSuchElement = errors.New("no such element")
	ErrStaleElement  = errors.New("stale element reference: node is detached from the document")
	ErrNoSuchFrame   = errors.New("no such frame")
	ErrNoAlert       = errors.New("no alert present")
	ErrNotSelect     = errors.New("element is not a select control")
	ErrNoSuchOption  = errors.New("no such option")
	ErrActionTimeout = errors.New("action did not complete within the wait timeout")
)

// Session is the lifecycle of the underlying browser.
type Session interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	IsReady() bool
}

// Driver is the browser-driver collaborator consumed by the interaction layer.
// Find resolves a locator against the active frame and returns ErrNoSuchElement
// when nothing matches; it does not wait.
type Driver interface {
	Find(ctx context.Context, locator entity.Locator) (Element, error)

	Open(ctx context.Context, url string) error
	Refresh(ctx context.Context) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)

	// ExecuteScript evaluates a JS function expression. When target is not nil
	// it is passed as the function's first argument.
	ExecuteScript(ctx context.Context, script string, target Element) (any, error)
	Keyboard() Keyboard

	SwitchToFrameByIndex(ctx context.Context, index int) error
	SwitchToFrameByName(ctx context.Context, name string) error
	SwitchToFrameByElement(ctx context.Context, frame Element) error
	SwitchToDefaultContent(ctx context.Context) error

	Alert(ctx context.Context) (Alert, error)
	Screenshot(ctx context.Context, path string) error
}

// Element is a transient handle to a resolved node. Any method may return
// ErrStaleElement once the node has been detached.
type Element interface {
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	IsSelected() (bool, error)

	Click() error
	Submit() error
	Clear() error
	SendKeys(text string) error
	Text() (string, error)

	DoubleClick() error
	ContextClick() error
	Hover() error
	ClickAndHold() error
	DragTo(target Element) error

	// Options lists the options of a select control, ErrNotSelect otherwise.
	Options() ([]entity.Option, error)
	SelectIndex(index int) error
}

type Keyboard interface {
	Down(key entity.Key) error
	Type(text string) error
	Up(key entity.Key) error
}

type Alert interface {
	Text() (string, error)
	Accept() error
	Dismiss() error
	SendKeys(text string) error
}
