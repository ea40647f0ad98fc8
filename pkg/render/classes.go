package render

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ChromeClass is a typed identifier for the CSS classes the renderer and the
// client script agree on.
type ChromeClass string

const (
	ClassForm     ChromeClass = "webform"
	ClassError    ChromeClass = "webform-error"
	ClassDate     ChromeClass = "webform-date"
	ClassSelect   ChromeClass = "webform-select2"
	ClassMessage  ChromeClass = "webform-message"
	ClassMessages ChromeClass = "webform-messages"
	ClassHoneypot ChromeClass = "webform-hp"
)

// Theme token keys that restyle the matching chrome class. Error, date and
// select overrides are added next to the chrome class, which the client script
// keeps selecting on.
const (
	TokenForm     = "webform.form"
	TokenError    = "webform.error"
	TokenDate     = "webform.date"
	TokenSelect   = "webform.select"
	TokenMessage  = "webform.message"
	TokenMessages = "webform.messages"
)

// Classes holds the resolved class names for one render pass.
type Classes struct {
	Form     string
	Error    string
	Date     string
	Select   string
	Message  string
	Messages string
}

// DefaultClasses returns the classes the bundled script expects.
func DefaultClasses() Classes {
	return Classes{
		Form:     string(ClassForm),
		Error:    string(ClassError),
		Date:     string(ClassDate),
		Select:   string(ClassSelect),
		Message:  string(ClassMessage),
		Messages: string(ClassMessages),
	}
}

// Merge fills empty members of c from fallback.
func (c Classes) Merge(fallback Classes) Classes {
	pick := func(value, alt string) string {
		if strings.TrimSpace(value) == "" {
			return alt
		}
		return value
	}
	return Classes{
		Form:     pick(c.Form, fallback.Form),
		Error:    pick(c.Error, fallback.Error),
		Date:     pick(c.Date, fallback.Date),
		Select:   pick(c.Select, fallback.Select),
		Message:  pick(c.Message, fallback.Message),
		Messages: pick(c.Messages, fallback.Messages),
	}
}

// WithTokens applies theme tokens over c.
func (c Classes) WithTokens(tokens map[string]string) Classes {
	override := Classes{
		Form:     tokens[TokenForm],
		Error:    tokens[TokenError],
		Date:     tokens[TokenDate],
		Select:   tokens[TokenSelect],
		Message:  tokens[TokenMessage],
		Messages: tokens[TokenMessages],
	}
	return override.Merge(c)
}

// ThemeTokens flattens a selection's tokens; variant tokens override the
// manifest's.
func ThemeTokens(selection *theme.Selection) map[string]string {
	tokens := map[string]string{}
	if selection == nil || selection.Manifest == nil {
		return tokens
	}
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return tokens
}

type themeChoice struct {
	selector theme.ThemeSelector
	name     string
	variant  string
}

func (c *themeChoice) tokens() (map[string]string, error) {
	if c == nil || c.selector == nil {
		return nil, nil
	}
	selection, err := c.selector.Select(c.name, c.variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q/%q: %w", c.name, c.variant, err)
	}
	return ThemeTokens(selection), nil
}

// StaticSelector serves a single manifest. It suits hosts that load one
// theme file at startup.
type StaticSelector struct {
	Manifest *theme.Manifest
}

// Select implements theme.ThemeSelector.
func (s StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.Manifest == nil {
		return nil, fmt.Errorf("render: no theme manifest configured")
	}
	if name == "" {
		name = s.Manifest.Name
	}
	if name != s.Manifest.Name {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: s.Manifest}, nil
}

// joinClasses merges class lists, keeping the first occurrence of each name.
func joinClasses(classes ...string) string {
	parts := make([]string, 0, len(classes))
	seen := make(map[string]struct{}, len(classes))
	for _, class := range classes {
		for _, name := range strings.Fields(class) {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " ")
}
