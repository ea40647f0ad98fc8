package model

import (
	"fmt"
	"strings"
)

// Builder assembles a FormSchema fluently. Field helpers append in call order;
// the returned FieldRef lets callers decorate the field just added.
type Builder struct {
	schema   FormSchema
	fieldset string
	literals int
}

// NewBuilder starts a schema with the provided slug and the default POST
// method and URL encoding.
func NewBuilder(slug string) *Builder {
	return &Builder{
		schema: FormSchema{
			Slug:    strings.TrimSpace(slug),
			Method:  MethodPost,
			Enctype: EnctypeURLEncoded,
		},
	}
}

// Method sets the form method.
func (b *Builder) Method(method string) *Builder {
	b.schema.Method = strings.ToUpper(strings.TrimSpace(method))
	return b
}

// Action sets the form action URL.
func (b *Builder) Action(action string) *Builder {
	b.schema.Action = action
	return b
}

// Multipart switches the encoding type to multipart/form-data.
func (b *Builder) Multipart() *Builder {
	b.schema.Enctype = EnctypeMultipart
	return b
}

// Attributes sets the form element id and class.
func (b *Builder) Attributes(id, class string) *Builder {
	b.schema.ID = id
	b.schema.Class = class
	return b
}

// Async flags the form for client-side submission.
func (b *Builder) Async(enabled bool) *Builder {
	b.schema.Async = enabled
	return b
}

// Honeypot toggles the decoy field.
func (b *Builder) Honeypot(enabled bool) *Builder {
	b.schema.Honeypot = &enabled
	return b
}

// NoValidate disables native browser validation.
func (b *Builder) NoValidate() *Builder {
	b.schema.NoValidate = true
	return b
}

// Wrap sets the form-level wrapper defaults.
func (b *Builder) Wrap(wrap Wrap) *Builder {
	b.schema.Wrap = wrap
	return b
}

// Fieldset declares a fieldset and makes it current: fields added afterwards
// belong to it until EndFieldset or another Fieldset call.
func (b *Builder) Fieldset(def FieldsetDef) *Builder {
	if def.Slug == "" {
		return b
	}
	if b.schema.Fieldsets == nil {
		b.schema.Fieldsets = make(map[string]FieldsetDef)
	}
	b.schema.Fieldsets[def.Slug] = def
	b.fieldset = def.Slug
	return b
}

// EndFieldset stops assigning new fields to the current fieldset.
func (b *Builder) EndFieldset() *Builder {
	b.fieldset = ""
	return b
}

// Field appends a fully specified definition. The current fieldset is applied
// when the definition does not name one.
func (b *Builder) Field(def FieldDef) *FieldRef {
	if def.Kind == "" {
		def.Kind = KindText
	}
	if def.Fieldset == "" {
		def.Fieldset = b.fieldset
	}
	b.schema.Fields = append(b.schema.Fields, def)
	return &FieldRef{builder: b, index: len(b.schema.Fields) - 1}
}

func (b *Builder) add(kind FieldKind, name, label string) *FieldRef {
	return b.Field(FieldDef{Name: name, Kind: kind, Label: label})
}

// Text appends a text input.
func (b *Builder) Text(name, label string) *FieldRef { return b.add(KindText, name, label) }

// Email appends an email input.
func (b *Builder) Email(name, label string) *FieldRef { return b.add(KindEmail, name, label) }

// Tel appends a telephone input.
func (b *Builder) Tel(name, label string) *FieldRef { return b.add(KindTel, name, label) }

// Number appends a numeric input.
func (b *Builder) Number(name, label string) *FieldRef { return b.add(KindNumber, name, label) }

// Password appends a password input. Its value is never rendered back.
func (b *Builder) Password(name, label string) *FieldRef { return b.add(KindPassword, name, label) }

// Textarea appends a textarea.
func (b *Builder) Textarea(name, label string) *FieldRef { return b.add(KindTextarea, name, label) }

// Hidden appends a hidden input with a fixed value.
func (b *Builder) Hidden(name, value string) *FieldRef {
	return b.Field(FieldDef{Name: name, Kind: KindHidden, Value: value})
}

// Checkbox appends a checkbox whose label wraps the control.
func (b *Builder) Checkbox(name, label, value string) *FieldRef {
	return b.Field(FieldDef{Name: name, Kind: KindCheckbox, Label: label, Value: value})
}

// Radio appends a radio group.
func (b *Builder) Radio(name, label string, options ...Option) *FieldRef {
	return b.Field(FieldDef{Name: name, Kind: KindRadio, Label: label, Options: options})
}

// Select appends a select element.
func (b *Builder) Select(name, label string, options ...Option) *FieldRef {
	return b.Field(FieldDef{Name: name, Kind: KindSelect, Label: label, Options: options})
}

// Date appends a date input.
func (b *Builder) Date(name, label string) *FieldRef { return b.add(KindDate, name, label) }

// Button appends a plain button.
func (b *Builder) Button(name, text string) *FieldRef {
	return b.Field(FieldDef{Name: name, Kind: KindButton, Value: text})
}

// Submit appends a submit button.
func (b *Builder) Submit(text string) *FieldRef {
	return b.Field(FieldDef{Name: "submit", Kind: KindSubmit, Value: text})
}

// HTML appends literal markup under an invented html_N name.
func (b *Builder) HTML(content string) *FieldRef {
	b.literals++
	return b.Field(FieldDef{Name: fmt.Sprintf("html_%d", b.literals), Kind: KindHTML, Content: content})
}

// Build returns a copy of the assembled schema.
func (b *Builder) Build() FormSchema {
	return b.schema.Clone()
}

// FieldRef decorates the most recently added field.
type FieldRef struct {
	builder *Builder
	index   int
}

func (r *FieldRef) field() *FieldDef {
	return &r.builder.schema.Fields[r.index]
}

// Rule appends a validation rule with its default message.
func (r *FieldRef) Rule(name string, param ...string) *FieldRef {
	call := RuleCall{Name: name}
	if len(param) > 0 {
		call.Param = param[0]
	}
	r.field().Rules = append(r.field().Rules, call)
	return r
}

// RuleMessage appends a validation rule with a custom message.
func (r *FieldRef) RuleMessage(name, param, message string) *FieldRef {
	r.field().Rules = append(r.field().Rules, RuleCall{Name: name, Param: param, Message: message})
	return r
}

// Required appends the required rule and sets the native attribute.
func (r *FieldRef) Required() *FieldRef {
	r.field().Required = true
	return r.Rule("required")
}

// Placeholder sets the placeholder text.
func (r *FieldRef) Placeholder(text string) *FieldRef {
	r.field().Placeholder = text
	return r
}

// Value sets the explicit value, which wins over submitted values.
func (r *FieldRef) Value(value string) *FieldRef {
	r.field().Value = value
	return r
}

// Attributes sets the control id and class.
func (r *FieldRef) Attributes(id, class string) *FieldRef {
	r.field().ID = id
	r.field().Class = class
	return r
}

// Wrap overrides the wrapper for this field.
func (r *FieldRef) Wrap(wrap Wrap) *FieldRef {
	r.field().Wrap = wrap
	return r
}

// Enhanced requests the client-side widget for the field kind.
func (r *FieldRef) Enhanced() *FieldRef {
	r.field().Enhanced = true
	return r
}

// Empty prefixes a select with a placeholder option.
func (r *FieldRef) Empty(label string) *FieldRef {
	r.field().EmptyOption = &label
	return r
}

// Bounds sets min and max attributes, passed through verbatim.
func (r *FieldRef) Bounds(minimum, maximum string) *FieldRef {
	r.field().Min = minimum
	r.field().Max = maximum
	return r
}

// Autofocus marks the control as autofocused.
func (r *FieldRef) Autofocus() *FieldRef {
	r.field().Autofocus = true
	return r
}

// In moves the field into the named fieldset.
func (r *FieldRef) In(fieldset string) *FieldRef {
	r.field().Fieldset = fieldset
	return r
}

// Builder returns the owning builder to continue the chain.
func (r *FieldRef) Builder() *Builder {
	return r.builder
}
