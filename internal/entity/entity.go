package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Strategy string

const (
	StrategyID       Strategy = "id"
	StrategyName     Strategy = "name"
	StrategyXPath    Strategy = "xpath"
	StrategyCSS      Strategy = "css"
	StrategyClass    Strategy = "class"
	StrategyTag      Strategy = "tag"
	StrategyLinkText Strategy = "link_text"
)

// Locator is a declarative reference to a node in the live document.
type Locator struct {
	Strategy Strategy
	Value    string
}

func ByID(id string) Locator         { return Locator{Strategy: StrategyID, Value: id} }
func ByName(name string) Locator     { return Locator{Strategy: StrategyName, Value: name} }
func ByXPath(xpath string) Locator   { return Locator{Strategy: StrategyXPath, Value: xpath} }
func ByCSS(css string) Locator       { return Locator{Strategy: StrategyCSS, Value: css} }
func ByClass(class string) Locator   { return Locator{Strategy: StrategyClass, Value: class} }
func ByTag(tag string) Locator       { return Locator{Strategy: StrategyTag, Value: tag} }
func ByLinkText(text string) Locator { return Locator{Strategy: StrategyLinkText, Value: text} }

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

func (l Locator) Validate() error {
	if l.Value == "" {
		return errors.New("locator value is empty")
	}

	switch l.Strategy {
	case StrategyID, StrategyName, StrategyXPath, StrategyCSS, StrategyClass, StrategyTag, StrategyLinkText:
		return nil
	default:
		return fmt.Errorf("unknown locator strategy %q", l.Strategy)
	}
}

const (
	DefaultWaitTimeout  = 10 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// WaitPolicy bounds how long and how often a condition is re-checked.
type WaitPolicy struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{Timeout: DefaultWaitTimeout, PollInterval: DefaultPollInterval}
}

// Normalize fills zero fields with defaults.
func (p WaitPolicy) Normalize() WaitPolicy {
	if p.Timeout <= 0 {
		p.Timeout = DefaultWaitTimeout
	}

	if p.PollInterval <= 0 {
		p.PollInterval = DefaultPollInterval
	}

	return p
}

func (p WaitPolicy) Deadline(now time.Time) time.Time {
	return now.Add(p.Timeout)
}

type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}

	return p.MaxAttempts
}

// AssertionRecord is the outcome of one assertion attempt.
type AssertionRecord struct {
	Attempt  int
	Observed any
	Expected any
	Passed   bool
}

type Option struct {
	Index int
	Text  string
	Value string
}

type Key string

const (
	KeyControl   Key = "Control"
	KeyShift     Key = "Shift"
	KeyAlt       Key = "Alt"
	KeyMeta      Key = "Meta"
	KeyEnter     Key = "Enter"
	KeyTab       Key = "Tab"
	KeyEscape    Key = "Escape"
	KeyBackspace Key = "Backspace"
)

type Run struct {
	ID          uuid.UUID
	Scenario    string
	Status      RunStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	Steps       []Step
	Error       string
	Screenshot  string
}

// ScenarioInfo describes a registered scenario.
type ScenarioInfo struct {
	Name        string
	Description string
	Tags        []string
}

type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusPassed     RunStatus = "passed"
	RunStatusFailed     RunStatus = "failed"
)

type Step struct {
	ID          uuid.UUID
	Description string
	Timestamp   time.Time
	Success     bool
	Error       string
}

// MatchText returns the first option whose visible text equals text exactly.
func MatchText(options []Option, text string) (Option, bool) {
	for _, option := range options {
		if option.Text == text {
			return option, true
		}
	}

	return Option{}, false
}

func MatchValue(options []Option, value string) (Option, bool) {
	for _, option := range options {
		if option.Value == value {
			return option, true
		}
	}

	return Option{}, false
}

func MatchIndex(options []Option, index int) (Option, bool) {
	for _, option := range options {
		if option.Index == index {
			return option, true
		}
	}

	return Option{}, false
}
