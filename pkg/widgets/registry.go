package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-webform/pkg/model"
)

// Built-in enhancement widgets understood by the bundled client script.
const (
	WidgetDatepicker = "datepicker"
	WidgetSelect2    = "select2"
)

// Matcher decides whether a widget should enhance the supplied field.
type Matcher func(field model.FieldDef) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Option configures a Registry.
type Option func(*Registry)

// WithSearchableThreshold enhances selects with at least n options even when
// the schema did not ask for it. Zero disables the matcher.
func WithSearchableThreshold(n int) Option {
	return func(r *Registry) {
		r.threshold = n
	}
}

// Registry picks client-side enhancement widgets for fields. Explicit widget
// names win, then matchers by descending priority, ties broken by
// registration order.
type Registry struct {
	mu        sync.RWMutex
	rules     []rule
	threshold int
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry(opts ...Option) *Registry {
	reg := &Registry{}
	for _, opt := range opts {
		if opt != nil {
			opt(reg)
		}
	}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher. The latest registration of a name wins
// only through priority; names are not deduplicated.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget for a field, if any.
func (r *Registry) Resolve(field model.FieldDef) (string, bool) {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator. Resolved fields get their Widget set
// and are marked Enhanced.
func (r *Registry) Decorate(schema *model.FormSchema) error {
	if r == nil || schema == nil {
		return nil
	}
	for idx := range schema.Fields {
		field := &schema.Fields[idx]
		if widget, ok := r.Resolve(*field); ok {
			field.Widget = widget
			field.Enhanced = true
		}
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetDatepicker, 90, func(field model.FieldDef) bool {
		return field.Kind == model.KindDate && field.Enhanced
	})

	r.Register(WidgetSelect2, 80, func(field model.FieldDef) bool {
		return field.Kind == model.KindSelect && field.Enhanced
	})

	if r.threshold > 0 {
		threshold := r.threshold
		r.Register(WidgetSelect2, 70, func(field model.FieldDef) bool {
			return field.Kind == model.KindSelect && len(field.Options) >= threshold
		})
	}
}
