package model

import (
	"slices"
	"strings"
)

// FieldKind is the closed set of renderable field types.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindNumber   FieldKind = "number"
	KindPassword FieldKind = "password"
	KindTextarea FieldKind = "textarea"
	KindHidden   FieldKind = "hidden"
	KindCheckbox FieldKind = "checkbox"
	KindRadio    FieldKind = "radio"
	KindSelect   FieldKind = "select"
	KindDate     FieldKind = "date"
	KindHTML     FieldKind = "html"
	KindButton   FieldKind = "button"
	KindSubmit   FieldKind = "submit"
)

// Kinds lists every known field kind in declaration order.
var Kinds = []FieldKind{
	KindText, KindEmail, KindTel, KindNumber, KindPassword, KindTextarea,
	KindHidden, KindCheckbox, KindRadio, KindSelect, KindDate, KindHTML,
	KindButton, KindSubmit,
}

// Known reports whether k belongs to the closed kind set.
func (k FieldKind) Known() bool {
	return slices.Contains(Kinds, k)
}

// ParseFieldKind normalises a kind string. An empty string maps to KindText;
// unrecognised values are returned as-is so renderers can apply their
// fallback.
func ParseFieldKind(raw string) FieldKind {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return KindText
	}
	if trimmed == "html-literal" {
		return KindHTML
	}
	return FieldKind(trimmed)
}

// Validates reports whether fields of this kind take part in validation.
// Literal markup and buttons never carry submitted data worth checking.
func (k FieldKind) Validates() bool {
	switch k {
	case KindHTML, KindButton, KindSubmit:
		return false
	default:
		return true
	}
}

// Form methods accepted by FormSchema.
const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Encoding types accepted by FormSchema.
const (
	EnctypeURLEncoded = "application/x-www-form-urlencoded"
	EnctypeMultipart  = "multipart/form-data"
)

// Names reserved by the pipeline. Schemas cannot declare fields with these
// names.
const (
	MarkerField   = "webform"
	HoneypotField = "webform_hp"
	// ActionField and DataField carry async submissions: the target slug and
	// the URL-encoded form payload.
	ActionField = "action"
	DataField   = "data"
)

// Wrap describes the element wrapping a rendered field. Empty members fall
// back to the form-level Wrap and then to the built-in defaults.
type Wrap struct {
	Tag   string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
}

// Merge returns w with empty members filled from fallback.
func (w Wrap) Merge(fallback Wrap) Wrap {
	if w.Tag == "" {
		w.Tag = fallback.Tag
	}
	if w.Class == "" {
		w.Class = fallback.Class
	}
	if w.ID == "" {
		w.ID = fallback.ID
	}
	if w.Style == "" {
		w.Style = fallback.Style
	}
	return w
}

// Option is a single value/label pair for select and radio fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// RuleCall references a validation rule by name with its parameter and an
// optional custom error message.
type RuleCall struct {
	Name    string `json:"name" yaml:"name"`
	Param   string `json:"param,omitempty" yaml:"param,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// FieldsetDef groups fields under a bounding fieldset element. It has no
// validation semantics.
type FieldsetDef struct {
	Slug     string `json:"slug" yaml:"slug"`
	Legend   string `json:"legend,omitempty" yaml:"legend,omitempty"`
	Disabled bool   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Class    string `json:"class,omitempty" yaml:"class,omitempty"`
	Style    string `json:"style,omitempty" yaml:"style,omitempty"`
}

// FieldDef describes one field. Name is the wire name used in submitted
// payloads and must be unique within its schema.
type FieldDef struct {
	Name        string    `json:"name" yaml:"name"`
	Kind        FieldKind `json:"kind" yaml:"kind"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	// Value is rendered in preference to any submitted value.
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	Class     string `json:"class,omitempty" yaml:"class,omitempty"`
	Style     string `json:"style,omitempty" yaml:"style,omitempty"`
	Autofocus bool   `json:"autofocus,omitempty" yaml:"autofocus,omitempty"`
	// Required emits the native required attribute. It is independent of the
	// "required" validation rule.
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Min      string `json:"min,omitempty" yaml:"min,omitempty"`
	Max      string `json:"max,omitempty" yaml:"max,omitempty"`
	// Enhanced requests the client-side widget for the kind (date picker,
	// searchable select).
	Enhanced bool `json:"enhanced,omitempty" yaml:"enhanced,omitempty"`
	// Widget names the enhancement explicitly. The widgets registry fills it
	// for enhanced fields that leave it empty.
	Widget      string     `json:"widget,omitempty" yaml:"widget,omitempty"`
	DateFormat  string     `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	EmptyOption *string    `json:"emptyOption,omitempty" yaml:"emptyOption,omitempty"`
	Options     []Option   `json:"options,omitempty" yaml:"options,omitempty"`
	Content     string     `json:"content,omitempty" yaml:"content,omitempty"`
	Wrap        Wrap       `json:"wrap,omitempty" yaml:"wrap,omitempty"`
	Rules       []RuleCall `json:"rules,omitempty" yaml:"rules,omitempty"`
	Fieldset    string     `json:"fieldset,omitempty" yaml:"fieldset,omitempty"`
}

// Rule returns the first rule call with the provided name.
func (f FieldDef) Rule(name string) (RuleCall, bool) {
	for _, call := range f.Rules {
		if call.Name == name {
			return call, true
		}
	}
	return RuleCall{}, false
}

// FormSchema is the registered definition of a form.
type FormSchema struct {
	Slug       string                 `json:"slug" yaml:"slug"`
	Method     string                 `json:"method,omitempty" yaml:"method,omitempty"`
	Action     string                 `json:"action,omitempty" yaml:"action,omitempty"`
	Enctype    string                 `json:"enctype,omitempty" yaml:"enctype,omitempty"`
	ID         string                 `json:"id,omitempty" yaml:"id,omitempty"`
	Class      string                 `json:"class,omitempty" yaml:"class,omitempty"`
	Honeypot   *bool                  `json:"honeypot,omitempty" yaml:"honeypot,omitempty"`
	Async      bool                   `json:"async,omitempty" yaml:"async,omitempty"`
	NoValidate bool                   `json:"novalidate,omitempty" yaml:"novalidate,omitempty"`
	Wrap       Wrap                   `json:"wrap,omitempty" yaml:"wrap,omitempty"`
	Fields     []FieldDef             `json:"fields" yaml:"fields"`
	Fieldsets  map[string]FieldsetDef `json:"fieldsets,omitempty" yaml:"fieldsets,omitempty"`
}

// HoneypotEnabled reports whether the decoy field is rendered and checked.
// Schemas default to having one.
func (s FormSchema) HoneypotEnabled() bool {
	return s.Honeypot == nil || *s.Honeypot
}

// FormMethod returns the upper-cased method, defaulting to POST.
func (s FormSchema) FormMethod() string {
	if strings.EqualFold(strings.TrimSpace(s.Method), MethodGet) {
		return MethodGet
	}
	return MethodPost
}

// FormEnctype returns the encoding type, defaulting to URL encoding.
func (s FormSchema) FormEnctype() string {
	if strings.TrimSpace(s.Enctype) == EnctypeMultipart {
		return EnctypeMultipart
	}
	return EnctypeURLEncoded
}

// Field looks up a field definition by name.
func (s FormSchema) Field(name string) (FieldDef, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldDef{}, false
}

// Fieldset looks up a fieldset definition by slug.
func (s FormSchema) Fieldset(slug string) (FieldsetDef, bool) {
	if slug == "" || s.Fieldsets == nil {
		return FieldsetDef{}, false
	}
	def, ok := s.Fieldsets[slug]
	if ok && def.Slug == "" {
		def.Slug = slug
	}
	return def, ok
}

// Names returns the wire names of every field in declared order.
func (s FormSchema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, field := range s.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy so registries can hand out schemas without
// sharing slices or maps with callers.
func (s FormSchema) Clone() FormSchema {
	out := s
	if s.Honeypot != nil {
		v := *s.Honeypot
		out.Honeypot = &v
	}
	if s.Fields != nil {
		out.Fields = make([]FieldDef, len(s.Fields))
		for idx, field := range s.Fields {
			out.Fields[idx] = field.Clone()
		}
	}
	if s.Fieldsets != nil {
		out.Fieldsets = make(map[string]FieldsetDef, len(s.Fieldsets))
		for slug, def := range s.Fieldsets {
			out.Fieldsets[slug] = def
		}
	}
	return out
}

// Clone returns a deep copy of the field definition.
func (f FieldDef) Clone() FieldDef {
	out := f
	out.Options = slices.Clone(f.Options)
	out.Rules = slices.Clone(f.Rules)
	if f.EmptyOption != nil {
		v := *f.EmptyOption
		out.EmptyOption = &v
	}
	return out
}

// Decorator adjusts a schema before it is stored in the registry.
type Decorator interface {
	Decorate(*FormSchema) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormSchema) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(schema *FormSchema) error {
	return fn(schema)
}
