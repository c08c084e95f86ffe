// Package portstest provides an in-memory ports.Driver for tests.
package portstest

import (
	"context"
	"fmt"
	"sync"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"
)

// Node is a scripted DOM node. The zero value is a visible, enabled node in
// the default content.
type Node struct {
	Frame    string
	Text     string
	Disabled bool
	Selected bool
	Options  []entity.Option
	IsFrame  bool

	// HiddenChecks is the number of visibility checks answered false before the node shows up.
	HiddenChecks int

	// Hidden keeps the node invisible forever.
	Hidden bool

	// StaleResolutions is the number of resolved handles that are stale on first use. -1 means always.
	StaleResolutions int

	// StaleActions is the number of mutating calls that fail as stale.
	StaleActions int

	// ActionErr is returned by every mutating call once set.
	ActionErr error

	Calls         []string
	Typed         string
	SelectedIndex int

	resolved int
}

type Driver struct {
	mu sync.Mutex

	nodes   map[entity.Locator]*Node
	frames  []string
	current string

	urls    []string
	urlIdx  int
	title   string
	history []string

	alert   *Alert
	keys    []string
	scripts []string

	FindCalls int

	// PageErr fails CurrentURL, Title and PageSource once set.
	PageErr error
}

func NewDriver() *Driver {
	return &Driver{
		nodes: make(map[entity.Locator]*Node),
		title: "DEMOQA",
		urls:  []string{"about:blank"},
	}
}

// Add registers a node under loc.
func (d *Driver) Add(loc entity.Locator, node *Node) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	if node == nil {
		node = &Node{}
	}

	node.SelectedIndex = -1
	d.nodes[loc] = node

	return node
}

func (d *Driver) Node(loc entity.Locator) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.nodes[loc]
}

// AddFrame registers a child frame of the default content.
func (d *Driver) AddFrame(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.frames = append(d.frames, name)
}

func (d *Driver) CurrentFrame() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.current
}

// SetURLs scripts successive CurrentURL answers; the last one repeats.
func (d *Driver) SetURLs(urls ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.urls = urls
	d.urlIdx = 0
}

func (d *Driver) SetAlert(alert *Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.alert = alert
}

func (d *Driver) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.keys...)
}

func (d *Driver) Scripts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.scripts...)
}

func (d *Driver) History() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]string(nil), d.history...)
}

func (d *Driver) Find(_ context.Context, loc entity.Locator) (ports.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.FindCalls++

	node, ok := d.nodes[loc]
	if !ok || node.Frame != d.current {
		return nil, fmt.Errorf("%s: %w", loc, ports.ErrNoSuchElement)
	}

	node.resolved++
	stale := node.StaleResolutions < 0 || node.resolved <= node.StaleResolutions

	return &element{driver: d, node: node, stale: stale}, nil
}

func (d *Driver) Open(_ context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.history = append(d.history, "open "+url)
	d.urls = []string{url}
	d.urlIdx = 0

	return nil
}

func (d *Driver) Refresh(context.Context) error { return d.record("refresh") }
func (d *Driver) Back(context.Context) error    { return d.record("back") }
func (d *Driver) Forward(context.Context) error { return d.record("forward") }

func (d *Driver) record(entry string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.history = append(d.history, entry)

	return nil
}

func (d *Driver) CurrentURL(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.PageErr != nil {
		return "", d.PageErr
	}

	url := d.urls[d.urlIdx]
	if d.urlIdx < len(d.urls)-1 {
		d.urlIdx++
	}

	return url, nil
}

func (d *Driver) Title(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.PageErr != nil {
		return "", d.PageErr
	}

	return d.title, nil
}

func (d *Driver) PageSource(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.PageErr != nil {
		return "", d.PageErr
	}

	return "<html></html>", nil
}

func (d *Driver) ExecuteScript(_ context.Context, script string, target ports.Element) (any, error) {
	if el, ok := target.(*element); ok && el.stale {
		return nil, ports.ErrStaleElement
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.scripts = append(d.scripts, script)

	return nil, nil
}

func (d *Driver) Keyboard() ports.Keyboard {
	return keyboard{driver: d}
}

func (d *Driver) SwitchToFrameByIndex(_ context.Context, index int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current != "" || index < 0 || index >= len(d.frames) {
		return fmt.Errorf("index %d: %w", index, ports.ErrNoSuchFrame)
	}

	d.current = d.frames[index]

	return nil
}

func (d *Driver) SwitchToFrameByName(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current == "" {
		for _, frame := range d.frames {
			if frame == name {
				d.current = name

				return nil
			}
		}
	}

	return fmt.Errorf("name %q: %w", name, ports.ErrNoSuchFrame)
}

func (d *Driver) SwitchToFrameByElement(_ context.Context, frame ports.Element) error {
	el, ok := frame.(*element)
	if !ok || !el.node.IsFrame {
		return ports.ErrNoSuchFrame
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.current = el.node.Text

	return nil
}

func (d *Driver) SwitchToDefaultContent(context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.current = ""

	return nil
}

func (d *Driver) Alert(context.Context) (ports.Alert, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.alert == nil || d.alert.closed {
		return nil, ports.ErrNoAlert
	}

	return d.alert, nil
}

func (d *Driver) Screenshot(_ context.Context, path string) error {
	return d.record("screenshot " + path)
}

type keyboard struct {
	driver *Driver
}

func (k keyboard) Down(key entity.Key) error { return k.press("down:" + string(key)) }
func (k keyboard) Type(text string) error    { return k.press("type:" + text) }
func (k keyboard) Up(key entity.Key) error   { return k.press("up:" + string(key)) }

func (k keyboard) press(entry string) error {
	k.driver.mu.Lock()
	defer k.driver.mu.Unlock()

	k.driver.keys = append(k.driver.keys, entry)

	return nil
}

type element struct {
	driver *Driver
	node   *Node
	stale  bool
}

func (e *element) IsDisplayed() (bool, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	if e.stale {
		return false, ports.ErrStaleElement
	}

	if e.node.Hidden {
		return false, nil
	}

	if e.node.HiddenChecks > 0 {
		e.node.HiddenChecks--

		return false, nil
	}

	return true, nil
}

func (e *element) IsEnabled() (bool, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	if e.stale {
		return false, ports.ErrStaleElement
	}

	return !e.node.Disabled, nil
}

func (e *element) IsSelected() (bool, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	if e.stale {
		return false, ports.ErrStaleElement
	}

	return e.node.Selected, nil
}

func (e *element) Text() (string, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	if e.stale {
		return "", ports.ErrStaleElement
	}

	return e.node.Text, nil
}

func (e *element) Click() error        { return e.act("click") }
func (e *element) Submit() error       { return e.act("submit") }
func (e *element) Clear() error        { return e.act("clear") }
func (e *element) DoubleClick() error  { return e.act("double_click") }
func (e *element) ContextClick() error { return e.act("context_click") }
func (e *element) Hover() error        { return e.act("hover") }
func (e *element) ClickAndHold() error { return e.act("click_and_hold") }

func (e *element) SendKeys(text string) error {
	if err := e.act("send_keys"); err != nil {
		return err
	}

	e.driver.mu.Lock()
	e.node.Typed += text
	e.driver.mu.Unlock()

	return nil
}

func (e *element) DragTo(target ports.Element) error {
	if t, ok := target.(*element); ok && t.stale {
		return ports.ErrStaleElement
	}

	return e.act("drag")
}

func (e *element) Options() ([]entity.Option, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	if e.stale {
		return nil, ports.ErrStaleElement
	}

	if e.node.Options == nil {
		return nil, ports.ErrNotSelect
	}

	return append([]entity.Option(nil), e.node.Options...), nil
}

func (e *element) SelectIndex(index int) error {
	if err := e.act(fmt.Sprintf("select:%d", index)); err != nil {
		return err
	}

	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	if index < 0 || index >= len(e.node.Options) {
		return ports.ErrNoSuchOption
	}

	e.node.SelectedIndex = index

	return nil
}

func (e *element) act(name string) error {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()

	if e.stale {
		return ports.ErrStaleElement
	}

	if e.node.StaleActions > 0 {
		e.node.StaleActions--

		return ports.ErrStaleElement
	}

	if e.node.ActionErr != nil {
		return e.node.ActionErr
	}

	e.node.Calls = append(e.node.Calls, name)

	return nil
}

// Alert is a scripted native dialog.
type Alert struct {
	Message string
	Err     error

	Accepted  bool
	Dismissed bool
	Keys      string

	closed bool
}

func (a *Alert) Text() (string, error) {
	if a.Err != nil {
		return "", a.Err
	}

	return a.Message, nil
}

func (a *Alert) Accept() error {
	if a.Err != nil {
		return a.Err
	}

	a.Accepted = true
	a.closed = true

	return nil
}

func (a *Alert) Dismiss() error {
	if a.Err != nil {
		return a.Err
	}

	a.Dismissed = true
	a.closed = true

	return nil
}

func (a *Alert) SendKeys(text string) error {
	if a.Err != nil {
		return a.Err
	}

	a.Keys += text

	return nil
}
