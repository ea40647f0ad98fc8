package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Input is what a rule sees for one field.
type Input struct {
	Field string
	// Value is trimmed of surrounding whitespace.
	Value string
	// Present is false when the field was absent from the submission.
	Present bool
	Param   string
}

// Func reports whether the input passes. When it does not, the returned
// message is used unless the schema declared a custom one.
type Func func(in Input) (ok bool, message string)

// ParamCheck validates a rule parameter at schema registration time.
type ParamCheck func(param string) error

// Rule couples an implementation with its optional parameter check.
type Rule struct {
	Name  string
	Func  Func
	Check ParamCheck
}

// Registry stores rules by name.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Default returns a registry pre-populated with the built-in rules.
func Default() *Registry {
	reg := NewRegistry()
	for _, rule := range builtins() {
		reg.MustRegister(rule)
	}
	return reg
}

// Register adds or replaces a rule.
func (r *Registry) Register(rule Rule) error {
	name := strings.TrimSpace(rule.Name)
	if name == "" {
		return fmt.Errorf("rules: rule name is required")
	}
	if rule.Func == nil {
		return fmt.Errorf("rules: rule %q has no function", name)
	}
	rule.Name = name

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[name] = rule
	return nil
}

// RegisterFunc is shorthand for rules without a parameter check.
func (r *Registry) RegisterFunc(name string, fn Func) error {
	return r.Register(Rule{Name: name, Func: fn})
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(rule Rule) {
	if err := r.Register(rule); err != nil {
		panic(err)
	}
}

// Get retrieves a rule by name.
func (r *Registry) Get(name string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// Has reports whether a rule is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the sorted rule names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check verifies that name is registered and param is acceptable to it.
func (r *Registry) Check(name, param string) error {
	rule, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("rules: unknown rule %q", name)
	}
	if rule.Check == nil {
		return nil
	}
	if err := rule.Check(param); err != nil {
		return fmt.Errorf("rules: rule %q: %w", name, err)
	}
	return nil
}
