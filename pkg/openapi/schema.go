package openapi

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/rules"
)

// Option configures how submissions are described.
type Option func(*options)

type options struct {
	tokenField string
	pathFor    func(slug string) string
}

// WithTokenField adds the anti-forgery field to every described body.
func WithTokenField(name string) Option {
	return func(o *options) {
		o.tokenField = strings.TrimSpace(name)
	}
}

// WithPath sets the endpoint path used for each schema in Document.
func WithPath(fn func(slug string) string) Option {
	return func(o *options) {
		if fn != nil {
			o.pathFor = fn
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		pathFor: func(slug string) string { return "/forms/" + slug },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// SubmissionSchema returns the object schema of a submission to schema.
// Field rules map onto schema constraints; non-submitting kinds (literal
// markup and buttons) are left out.
func SubmissionSchema(schema model.FormSchema, opts ...Option) *openapi3.Schema {
	o := newOptions(opts)

	obj := openapi3.NewObjectSchema()
	required := []string{model.MarkerField}
	obj.WithProperty(model.MarkerField, openapi3.NewStringSchema().WithEnum(schema.Slug))

	if o.tokenField != "" {
		obj.WithProperty(o.tokenField, openapi3.NewStringSchema())
		required = append(required, o.tokenField)
	}
	if schema.HoneypotEnabled() {
		trap := openapi3.NewStringSchema().WithMaxLength(0)
		trap.Description = "Must be left empty."
		obj.WithProperty(model.HoneypotField, trap)
	}

	for _, field := range schema.Fields {
		if !field.Kind.Validates() {
			continue
		}
		prop, isRequired := fieldSchema(field)
		obj.WithProperty(field.Name, prop)
		if isRequired {
			required = append(required, field.Name)
		}
	}
	return obj.WithRequired(required)
}

func fieldSchema(field model.FieldDef) (*openapi3.Schema, bool) {
	prop := openapi3.NewStringSchema()
	prop.Title = field.Label

	switch field.Kind {
	case model.KindSelect, model.KindRadio:
		values := make([]any, 0, len(field.Options))
		for _, opt := range field.Options {
			values = append(values, opt.Value)
		}
		prop.WithEnum(values...)
	case model.KindCheckbox:
		value := field.Value
		if value == "" {
			value = "1"
		}
		prop.WithEnum(value)
	case model.KindDate:
		if !field.Enhanced {
			prop.WithFormat("date")
		}
	case model.KindPassword:
		prop.WithFormat("password")
	case model.KindHidden:
		if field.Value != "" {
			prop.Default = field.Value
		}
	}

	required := false
	var notes []string
	for _, call := range field.Rules {
		switch call.Name {
		case rules.Required:
			required = true
			if prop.MinLength == 0 {
				prop.WithMinLength(1)
			}
		case rules.Email:
			prop.WithFormat("email")
		case rules.MinLength:
			// Bounds are exclusive.
			if n, err := strconv.ParseInt(strings.TrimSpace(call.Param), 10, 64); err == nil {
				prop.WithMinLength(n + 1)
			}
		case rules.MaxLength:
			if n, err := strconv.ParseInt(strings.TrimSpace(call.Param), 10, 64); err == nil {
				prop.WithMaxLength(max(n-1, 0))
			}
		case rules.Number:
			prop.WithPattern("[0-9]")
		case rules.Pattern:
			prop.WithPattern(call.Param)
		case rules.MinDate:
			notes = append(notes, "after "+call.Param)
		case rules.MaxDate:
			notes = append(notes, "before "+call.Param)
		default:
			notes = append(notes, "rule "+call.Name)
		}
	}
	if len(notes) > 0 {
		prop.Description = "Must be " + strings.Join(notes, ", ") + "."
	}
	return prop, required
}

// RequestBody wraps SubmissionSchema in a request body for the schema's
// encoding type.
func RequestBody(schema model.FormSchema, opts ...Option) *openapi3.RequestBody {
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithSchema(SubmissionSchema(schema, opts...), []string{schema.FormEnctype()})
	body.Description = "Submission of form " + strconv.Quote(schema.Slug) + "."
	return body
}
