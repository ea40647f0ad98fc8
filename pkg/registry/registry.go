package registry

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/rules"
)

// Option configures a Registry.
type Option func(*Registry)

// WithStrict rejects re-registration of an existing slug instead of
// replacing it.
func WithStrict(strict bool) Option {
	return func(r *Registry) {
		r.strict = strict
	}
}

// WithRules sets the rule registry used to check rule references.
func WithRules(reg *rules.Registry) Option {
	return func(r *Registry) {
		if reg != nil {
			r.rules = reg
		}
	}
}

// WithLogger sets the logger used for registration events.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDecorators runs decorators on every schema before it is checked and
// stored.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(r *Registry) {
		r.decorators = append(r.decorators, decorators...)
	}
}

// WithReservedNames adds field names schemas may not use, typically the
// anti-forgery token field.
func WithReservedNames(names ...string) Option {
	return func(r *Registry) {
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				r.reserved[trimmed] = struct{}{}
			}
		}
	}
}

// Registry holds form schemas keyed by slug. Registration happens during
// startup; after Freeze the registry is read-only and safe for concurrent
// lookups from request handlers.
type Registry struct {
	mu         sync.RWMutex
	schemas    map[string]model.FormSchema
	frozen     bool
	strict     bool
	rules      *rules.Registry
	decorators []model.Decorator
	reserved   map[string]struct{}
	logger     *zap.Logger
}

// New constructs an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		schemas: make(map[string]model.FormSchema),
		rules:   rules.Default(),
		reserved: map[string]struct{}{
			model.MarkerField:   {},
			model.HoneypotField: {},
			model.ActionField:   {},
			model.DataField:     {},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Rules exposes the rule registry schemas are checked against.
func (r *Registry) Rules() *rules.Registry {
	return r.rules
}

// Register checks schema and stores a copy under its slug.
func (r *Registry) Register(schema model.FormSchema) error {
	schema = schema.Clone()
	schema.Slug = strings.TrimSpace(schema.Slug)
	for _, decorator := range r.decorators {
		if err := decorator.Decorate(&schema); err != nil {
			return &SchemaError{Slug: schema.Slug, Reason: "decorator failed", Err: err}
		}
	}
	if err := r.check(schema); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	_, exists := r.schemas[schema.Slug]
	if exists && r.strict {
		return &DuplicateSchemaError{Slug: schema.Slug}
	}
	r.schemas[schema.Slug] = schema
	r.logger.Debug("schema registered",
		zap.String("slug", schema.Slug),
		zap.Int("fields", len(schema.Fields)),
		zap.Bool("replaced", exists),
	)
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(schema model.FormSchema) {
	if err := r.Register(schema); err != nil {
		panic(err)
	}
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns a copy of the schema registered under slug. A missing slug
// is a normal outcome.
func (r *Registry) Lookup(slug string) (model.FormSchema, bool) {
	r.mu.RLock()
	schema, ok := r.schemas[slug]
	r.mu.RUnlock()
	if !ok {
		return model.FormSchema{}, false
	}
	return schema.Clone(), true
}

// Get is Lookup returning an error wrapping ErrNotFound.
func (r *Registry) Get(slug string) (model.FormSchema, error) {
	schema, ok := r.Lookup(slug)
	if !ok {
		return model.FormSchema{}, &SchemaError{Slug: slug, Err: ErrNotFound}
	}
	return schema, nil
}

// MustLookup panics with a *SchemaError when slug is unknown.
func (r *Registry) MustLookup(slug string) model.FormSchema {
	schema, err := r.Get(slug)
	if err != nil {
		panic(err)
	}
	return schema
}

// Slugs returns the registered slugs sorted.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slugs := make([]string, 0, len(r.schemas))
	for slug := range r.schemas {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Check validates a schema without registering it.
func (r *Registry) Check(schema model.FormSchema) error {
	return r.check(schema)
}

func (r *Registry) check(schema model.FormSchema) error {
	slug := schema.Slug
	if strings.TrimSpace(slug) == "" {
		return &SchemaError{Reason: "slug is required"}
	}
	if method := strings.ToUpper(strings.TrimSpace(schema.Method)); method != "" && method != model.MethodGet && method != model.MethodPost {
		return &SchemaError{Slug: slug, Reason: fmt.Sprintf("unsupported method %q", schema.Method)}
	}
	if enc := strings.TrimSpace(schema.Enctype); enc != "" && enc != model.EnctypeURLEncoded && enc != model.EnctypeMultipart {
		return &SchemaError{Slug: slug, Reason: fmt.Sprintf("unsupported enctype %q", schema.Enctype)}
	}
	if err := checkWrap(slug, "", schema.Wrap); err != nil {
		return err
	}
	for key, def := range schema.Fieldsets {
		if def.Slug != "" && def.Slug != key {
			return &SchemaError{Slug: slug, Reason: fmt.Sprintf("fieldset key %q does not match slug %q", key, def.Slug)}
		}
	}

	seen := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		name := field.Name
		if strings.TrimSpace(name) == "" {
			return &SchemaError{Slug: slug, Reason: "field name is required"}
		}
		if _, dup := seen[name]; dup {
			return &SchemaError{Slug: slug, Field: name, Reason: "duplicate field name"}
		}
		seen[name] = struct{}{}
		if _, reserved := r.reserved[name]; reserved {
			return &SchemaError{Slug: slug, Field: name, Reason: "field name is reserved"}
		}
		if err := checkWrap(slug, name, field.Wrap); err != nil {
			return err
		}
		if field.Fieldset != "" {
			if _, ok := schema.Fieldsets[field.Fieldset]; !ok {
				return &SchemaError{Slug: slug, Field: name, Reason: fmt.Sprintf("unknown fieldset %q", field.Fieldset)}
			}
		}
		if (field.Kind == model.KindSelect || field.Kind == model.KindRadio) && len(field.Options) == 0 {
			return &SchemaError{Slug: slug, Field: name, Reason: "options are required for " + string(field.Kind)}
		}
		for _, call := range field.Rules {
			if err := r.rules.Check(call.Name, call.Param); err != nil {
				return &SchemaError{Slug: slug, Field: name, Reason: "invalid rule", Err: err}
			}
		}
	}
	return nil
}

var tagName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// checkWrap rejects wrap tags that are not plain element names, since the tag
// is written into markup unescaped.
func checkWrap(slug, field string, wrap model.Wrap) error {
	if wrap.Tag == "" || tagName.MatchString(wrap.Tag) {
		return nil
	}
	return &SchemaError{Slug: slug, Field: field, Reason: fmt.Sprintf("invalid wrap tag %q", wrap.Tag)}
}
