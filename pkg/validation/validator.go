package validation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-webform/pkg/csrf"
	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/rules"
)

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for rejected submissions.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithSkipEmptyOptional makes empty fields without a "required" rule pass
// without running the rest of their chain. By default every rule runs, so an
// optional email field left blank still fails the email rule.
func WithSkipEmptyOptional() Option {
	return func(v *Validator) {
		v.skipEmptyOptional = true
	}
}

// Validator runs schemas against submissions.
type Validator struct {
	rules             *rules.Registry
	verifier          csrf.Verifier
	logger            *zap.Logger
	skipEmptyOptional bool
}

// New constructs a validator. A nil rule registry falls back to the
// built-ins; a nil verifier disables token checks.
func New(reg *rules.Registry, verifier csrf.Verifier, opts ...Option) *Validator {
	if reg == nil {
		reg = rules.Default()
	}
	v := &Validator{
		rules:    reg,
		verifier: verifier,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Validate checks sub against schema. The result is memoized on sub: later
// calls for the same schema return the same *Result without running rules.
func (v *Validator) Validate(ctx context.Context, schema model.FormSchema, sub *Submission) (*Result, error) {
	if sub == nil {
		return &Result{State: NotSubmitted}, nil
	}
	if cached, ok := sub.cached(schema.Slug); ok {
		return cached, nil
	}

	if !Belongs(schema, sub) {
		return sub.store(schema.Slug, &Result{State: NotSubmitted}), nil
	}

	if v.verifier != nil {
		if err := v.verifier.Verify(ctx, schema.Slug, sub.Token()); err != nil {
			v.logger.Warn("submission token rejected", zap.String("slug", schema.Slug), zap.Error(err))
			return nil, &SecurityError{Slug: schema.Slug, Err: err}
		}
	}

	result := &Result{State: Valid, Errors: make(map[string]string)}
	for _, field := range schema.Fields {
		if !field.Kind.Validates() {
			continue
		}
		message, failed, err := v.field(field, sub)
		if err != nil {
			return nil, fmt.Errorf("validation: schema %q: %w", schema.Slug, err)
		}
		if failed {
			result.Errors[field.Name] = message
		}
	}
	if len(result.Errors) > 0 {
		result.State = Invalid
	}
	return sub.store(schema.Slug, result), nil
}

// Belongs reports whether the marker field carries the schema slug and the
// honeypot, when enabled, is empty.
func Belongs(schema model.FormSchema, sub *Submission) bool {
	marker, ok := sub.Value(model.MarkerField)
	if !ok || marker != schema.Slug {
		return false
	}
	if schema.HoneypotEnabled() {
		if trap, _ := sub.Value(model.HoneypotField); trap != "" {
			return false
		}
	}
	return true
}

func (v *Validator) field(field model.FieldDef, sub *Submission) (string, bool, error) {
	value, present := sub.Value(field.Name)
	return v.CheckField(field, value, present)
}

// CheckField runs one field's rule chain against a single value and returns
// the first failure message. It lets interactive collectors report errors
// per field before a whole submission exists.
func (v *Validator) CheckField(field model.FieldDef, value string, present bool) (string, bool, error) {
	chain, required := Chain(field.Rules)
	if v.skipEmptyOptional && !required && value == "" {
		return "", false, nil
	}
	for _, call := range chain {
		rule, ok := v.rules.Get(call.Name)
		if !ok {
			return "", false, fmt.Errorf("field %q: unknown rule %q", field.Name, call.Name)
		}
		valid, message := rule.Func(rules.Input{
			Field:   field.Name,
			Value:   value,
			Present: present,
			Param:   call.Param,
		})
		if valid {
			continue
		}
		if call.Message != "" {
			message = call.Message
		}
		return message, true, nil
	}
	return "", false, nil
}

// Chain orders a field's rule calls with "required" first, the remaining
// calls keeping their declared order. It also reports whether the field is
// required.
func Chain(calls []model.RuleCall) ([]model.RuleCall, bool) {
	ordered := make([]model.RuleCall, 0, len(calls))
	required := false
	for _, call := range calls {
		if call.Name == rules.Required && !required {
			ordered = append(ordered, call)
			required = true
		}
	}
	for _, call := range calls {
		if call.Name != rules.Required {
			ordered = append(ordered, call)
		}
	}
	return ordered, required
}

// Values returns the trimmed submitted values for the schema's fields only.
// Literal markup and buttons are left out.
func Values(schema model.FormSchema, sub *Submission) map[string]string {
	out := make(map[string]string, len(schema.Fields))
	for _, field := range schema.Fields {
		if !field.Kind.Validates() {
			continue
		}
		if value, ok := sub.Value(field.Name); ok {
			out[field.Name] = value
		}
	}
	return out
}
