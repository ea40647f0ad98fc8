package render

import (
	"sort"
	"strings"

	"github.com/goliatone/go-webform/pkg/model"
)

// ErrorMapping splits an error map into field errors the renderer has a slot
// for and form-level messages that would otherwise be lost.
type ErrorMapping struct {
	Fields map[string]string
	Form   []string
}

// MapErrors assigns errors to the schema's slotted fields. Errors keyed by a
// name with no slot (unknown names, hidden and literal fields) become
// form-level messages, ordered by key.
func MapErrors(schema model.FormSchema, errs map[string]string) ErrorMapping {
	mapping := ErrorMapping{}
	if len(errs) == 0 {
		return mapping
	}

	slotted := make(map[string]struct{}, len(schema.Fields))
	for _, field := range schema.Fields {
		if hasErrorSlot(field.Kind) {
			slotted[field.Name] = struct{}{}
		}
	}

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var form []string
	for _, key := range keys {
		message := strings.TrimSpace(errs[key])
		if message == "" {
			continue
		}
		if _, ok := slotted[key]; ok {
			if mapping.Fields == nil {
				mapping.Fields = make(map[string]string)
			}
			mapping.Fields[key] = message
			continue
		}
		form = append(form, message)
	}
	mapping.Form = normalizeMessages(form)
	return mapping
}

// normalizeMessages trims and de-duplicates while preserving order.
func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func hasErrorSlot(kind model.FieldKind) bool {
	switch kind {
	case model.KindHidden, model.KindHTML:
		return false
	default:
		return true
	}
}
