package render

import (
	"github.com/goliatone/go-webform/pkg/validation"
)

// RenderOptions carry the per-request inputs of a render pass. The schema
// itself is never mutated.
type RenderOptions struct {
	// Values round-trips a prior submission. An explicit FieldDef.Value wins.
	Values map[string]string
	// Errors maps field names to their current error. Keys that match no
	// field are shown in the messages block instead.
	Errors map[string]string
	// Messages are free-form notes shown above the fields.
	Messages []validation.Message
	// Flash is a one-shot message consumed for this render.
	Flash *validation.Message
	// Hidden adds extra hidden inputs after the marker field.
	Hidden map[string]string
	// Locale and Translator localise labels, placeholders, legends, option
	// labels, button text, and messages.
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// FromResult fills Values, Errors, and Messages from a validation pass.
func (o RenderOptions) FromResult(values map[string]string, result *validation.Result) RenderOptions {
	o.Values = values
	if result != nil {
		o.Errors = result.Errors
		o.Messages = append(o.Messages, result.Messages...)
	}
	return o
}
