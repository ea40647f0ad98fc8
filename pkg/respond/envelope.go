package respond

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-webform/pkg/validation"
)

// Envelope is the union of async response bodies.
type Envelope interface {
	json.Marshaler
	isEnvelope()
}

// Redirect navigates the browser to URL.
type Redirect struct {
	URL string
}

// Refresh reloads the current page.
type Refresh struct{}

// Message shows a dismissable note above the form.
type Message struct {
	Text  string
	Class string
}

// Errors carries per-field errors and free-form messages.
type Errors struct {
	Fields   map[string]string
	Messages []validation.Message
}

func (Redirect) isEnvelope() {}
func (Refresh) isEnvelope()  {}
func (Message) isEnvelope()  {}
func (Errors) isEnvelope()   {}

type respondBody struct {
	Respond map[string]any `json:"respond"`
}

// MarshalJSON implements json.Marshaler.
func (r Redirect) MarshalJSON() ([]byte, error) {
	return json.Marshal(respondBody{Respond: map[string]any{"redirect": r.URL}})
}

// MarshalJSON implements json.Marshaler.
func (Refresh) MarshalJSON() ([]byte, error) {
	return json.Marshal(respondBody{Respond: map[string]any{"refresh": true}})
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(respondBody{Respond: map[string]any{"message": [2]string{m.Text, m.Class}}})
}

// MarshalJSON implements json.Marshaler.
func (e Errors) MarshalJSON() ([]byte, error) {
	fields := e.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	messages := make([][2]string, 0, len(e.Messages))
	for _, msg := range e.Messages {
		messages = append(messages, [2]string{msg.Text, msg.Class})
	}
	return json.Marshal(struct {
		Errors   map[string]string `json:"errors"`
		Messages [][2]string       `json:"messages"`
	}{fields, messages})
}

// FromResult builds an Errors envelope from a validation result.
func FromResult(result *validation.Result) Errors {
	if result == nil {
		return Errors{}
	}
	clone := result.Clone()
	return Errors{Fields: clone.Errors, Messages: clone.Messages}
}

// JoinClasses joins class names with single spaces, dropping blanks.
func JoinClasses(classes ...string) string {
	parts := make([]string, 0, len(classes))
	for _, class := range classes {
		parts = append(parts, strings.Fields(class)...)
	}
	return strings.Join(parts, " ")
}

// Decode parses an envelope body. It is the Go counterpart of the client
// script's dispatch.
func Decode(data []byte) (Envelope, error) {
	var raw struct {
		Respond  map[string]json.RawMessage `json:"respond"`
		Errors   map[string]string          `json:"errors"`
		Messages [][]string                 `json:"messages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("respond: decode envelope: %w", err)
	}
	if raw.Respond != nil {
		if value, ok := raw.Respond["redirect"]; ok {
			var target string
			if err := json.Unmarshal(value, &target); err != nil {
				return nil, fmt.Errorf("respond: decode redirect: %w", err)
			}
			return Redirect{URL: target}, nil
		}
		if value, ok := raw.Respond["message"]; ok {
			var pair []string
			if err := json.Unmarshal(value, &pair); err != nil {
				return nil, fmt.Errorf("respond: decode message: %w", err)
			}
			msg := Message{}
			if len(pair) > 0 {
				msg.Text = pair[0]
			}
			if len(pair) > 1 {
				msg.Class = pair[1]
			}
			return msg, nil
		}
		if _, ok := raw.Respond["refresh"]; ok {
			return Refresh{}, nil
		}
		return nil, fmt.Errorf("respond: unknown respond action")
	}
	if raw.Errors == nil && raw.Messages == nil {
		return nil, fmt.Errorf("respond: empty envelope")
	}
	env := Errors{Fields: raw.Errors}
	for _, pair := range raw.Messages {
		msg := validation.Message{}
		if len(pair) > 0 {
			msg.Text = pair[0]
		}
		if len(pair) > 1 {
			msg.Class = pair[1]
		}
		env.Messages = append(env.Messages, msg)
	}
	return env, nil
}
