package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-webform/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// Translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message key for a locale. Keys are the literal
// source strings declared in the schema.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// LocalizeSchema translates the human-facing strings of schema in place:
// labels, placeholders, option labels, button text, fieldset legends, and
// custom rule messages. Without a Translator the schema is left untouched.
func LocalizeSchema(schema *model.FormSchema, opts RenderOptions) {
	if schema == nil || opts.Translator == nil {
		return
	}
	tr := func(text string) string {
		return translate(opts.Locale, text, opts.Translator, opts.OnMissing)
	}

	for idx := range schema.Fields {
		field := &schema.Fields[idx]
		field.Label = tr(field.Label)
		field.Placeholder = tr(field.Placeholder)
		if field.Kind == model.KindButton || field.Kind == model.KindSubmit {
			field.Value = tr(field.Value)
		}
		if field.EmptyOption != nil {
			label := tr(*field.EmptyOption)
			field.EmptyOption = &label
		}
		for opt := range field.Options {
			field.Options[opt].Label = tr(field.Options[opt].Label)
		}
		for call := range field.Rules {
			field.Rules[call].Message = tr(field.Rules[call].Message)
		}
	}
	for slug, def := range schema.Fieldsets {
		def.Legend = tr(def.Legend)
		schema.Fieldsets[slug] = def
	}
}

// LocalizeText translates a single message with the options' translator.
func LocalizeText(text string, opts RenderOptions) string {
	if opts.Translator == nil {
		return text
	}
	return translate(opts.Locale, text, opts.Translator, opts.OnMissing)
}

func translate(locale, key string, t Translator, onMissing MissingTranslationHandler) string {
	if strings.TrimSpace(key) == "" {
		return key
	}
	if t == nil {
		if onMissing != nil {
			return onMissing(locale, key, nil, ErrMissingTranslator)
		}
		return key
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if onMissing != nil {
		return onMissing(locale, key, nil, err)
	}
	return key
}
