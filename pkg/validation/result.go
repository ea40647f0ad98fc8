package validation

import (
	"maps"
	"slices"
)

// State is the outcome of validating a submission.
type State int

const (
	// NotSubmitted means the payload did not belong to the schema or tripped
	// the honeypot. There is nothing to report.
	NotSubmitted State = iota
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "not_submitted"
	}
}

// Message is a free-form note not bound to a field.
type Message struct {
	Text  string `json:"text"`
	Class string `json:"class,omitempty"`
}

// Result is the request-scoped validation outcome.
type Result struct {
	State    State
	Errors   map[string]string
	Messages []Message
}

// Submitted reports whether the payload belonged to the schema.
func (r *Result) Submitted() bool {
	return r != nil && r.State != NotSubmitted
}

// Valid reports whether the submission was accepted with no errors.
func (r *Result) Valid() bool {
	return r != nil && r.State == Valid && len(r.Errors) == 0
}

// AddError records a field error after validation, such as a uniqueness
// failure detected by the caller. The verdict turns invalid.
func (r *Result) AddError(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string]string)
	}
	r.Errors[field] = message
	if r.State != NotSubmitted {
		r.State = Invalid
	}
}

// AddMessage appends a free-form message.
func (r *Result) AddMessage(text, class string) {
	r.Messages = append(r.Messages, Message{Text: text, Class: class})
}

// Clone returns a deep copy.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	return &Result{
		State:    r.State,
		Errors:   maps.Clone(r.Errors),
		Messages: slices.Clone(r.Messages),
	}
}
