package browser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ui-harness/internal/entity"
	"ui-harness/internal/ports"

	"github.com/playwright-community/playwright-go"
)

// selectorFor renders a locator in playwright's selector syntax.
func selectorFor(loc entity.Locator) (string, error) {
	if err := loc.Validate(); err != nil {
		return "", err
	}

	switch loc.Strategy {
	case entity.StrategyID:
		return fmt.Sprintf("[id=%s]", strconv.Quote(loc.Value)), nil
	case entity.StrategyName:
		return fmt.Sprintf("[name=%s]", strconv.Quote(loc.Value)), nil
	case entity.StrategyXPath:
		return "xpath=" + loc.Value, nil
	case entity.StrategyCSS:
		return "css=" + loc.Value, nil
	case entity.StrategyClass:
		return "css=." + loc.Value, nil
	case entity.StrategyTag:
		return "css=" + loc.Value, nil
	case entity.StrategyLinkText:
		return fmt.Sprintf("a:text-is(%s)", strconv.Quote(loc.Value)), nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %q", loc.Strategy)
	}
}

var staleMarkers = []string{
	"not attached to the dom",
	"element is detached",
	"jshandle is disposed",
	"execution context was destroyed",
	"frame was detached",
}

// classify maps playwright failures onto the driver sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", ports.ErrActionTimeout, err)
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range staleMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %w", ports.ErrStaleElement, err)
		}
	}

	return err
}

func center(box *playwright.Rect) (float64, float64) {
	return box.X + box.Width/2, box.Y + box.Height/2
}

// parseOptions decodes the result of optionsScript.
func parseOptions(result any) ([]entity.Option, error) {
	if result == nil {
		return nil, ports.ErrNotSelect
	}

	items, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected options result %T", result)
	}

	options := make([]entity.Option, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}

		options = append(options, entity.Option{
			Index: getInt(fields, "index"),
			Text:  getString(fields, "text"),
			Value: getString(fields, "value"),
		})
	}

	return options, nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}

	return ""
}

func getInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}

	return 0
}
