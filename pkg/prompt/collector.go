// Package prompt collects a form submission interactively in a terminal.
// Each field is asked with the prompt matching its kind and checked against
// its rules as it is answered.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/validation"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// Option configures a Collector.
type Option func(*Collector)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithValidator checks answers as they are given. Without one answers are
// accepted as typed.
func WithValidator(v *validation.Validator) Option {
	return func(c *Collector) {
		c.validator = v
	}
}

// WithToken adds an anti-forgery field to collected values.
func WithToken(field, token string) Option {
	return func(c *Collector) {
		c.tokenField = strings.TrimSpace(field)
		c.token = token
	}
}

// Collector asks for each field of a schema.
type Collector struct {
	driver     Driver
	validator  *validation.Validator
	tokenField string
	token      string
}

// New constructs a Collector using the survey driver by default.
func New(opts ...Option) *Collector {
	c := &Collector{driver: NewSurveyDriver()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Collect asks for every field of schema and returns the payload a browser
// would have posted, marker field included.
func (c *Collector) Collect(ctx context.Context, schema model.FormSchema) (url.Values, error) {
	values := url.Values{}
	values.Set(model.MarkerField, schema.Slug)
	if c.tokenField != "" {
		values.Set(c.tokenField, c.token)
	}

	for _, field := range schema.Fields {
		answer, ok, err := c.ask(ctx, field)
		if err != nil {
			return nil, fmt.Errorf("prompt: field %q: %w", field.Name, err)
		}
		if ok {
			values.Set(field.Name, answer)
		}
	}
	return values, nil
}

func (c *Collector) ask(ctx context.Context, field model.FieldDef) (string, bool, error) {
	message := field.Label
	if message == "" {
		message = field.Name
	}

	switch field.Kind {
	case model.KindHidden:
		return field.Value, true, nil
	case model.KindHTML:
		if text := strings.TrimSpace(field.Content); text != "" {
			return "", false, c.driver.Info(ctx, text)
		}
		return "", false, nil
	case model.KindButton, model.KindSubmit:
		return "", false, nil
	case model.KindCheckbox:
		checked, err := c.driver.Confirm(ctx, ConfirmConfig{Message: message})
		if err != nil || !checked {
			return "", false, err
		}
		if field.Value == "" {
			return "1", true, nil
		}
		return field.Value, true, nil
	case model.KindSelect, model.KindRadio:
		return c.choose(ctx, field, message)
	case model.KindPassword:
		answer, err := c.driver.Password(ctx, InputConfig{Message: message, Validator: c.check(field)})
		return answer, err == nil, err
	case model.KindTextarea:
		answer, err := c.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Default:   field.Value,
			Help:      field.Placeholder,
			Validator: c.check(field),
		})
		return answer, err == nil, err
	default:
		answer, err := c.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   field.Value,
			Help:      field.Placeholder,
			Validator: c.check(field),
		})
		return answer, err == nil, err
	}
}

func (c *Collector) choose(ctx context.Context, field model.FieldDef, message string) (string, bool, error) {
	labels := make([]string, 0, len(field.Options)+1)
	values := make([]string, 0, len(field.Options)+1)
	if field.EmptyOption != nil {
		labels = append(labels, *field.EmptyOption)
		values = append(values, "")
	}
	for _, opt := range field.Options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		labels = append(labels, label)
		values = append(values, opt.Value)
	}
	if len(labels) == 0 {
		return "", false, nil
	}

	for {
		idx, err := c.driver.Select(ctx, SelectConfig{Message: message, Options: labels})
		if err != nil {
			return "", false, err
		}
		if idx < 0 || idx >= len(values) {
			return "", false, fmt.Errorf("selection %d out of range", idx)
		}
		check := c.check(field)
		if check == nil {
			return values[idx], true, nil
		}
		if err := check(values[idx]); err != nil {
			if infoErr := c.driver.Info(ctx, err.Error()); infoErr != nil {
				return "", false, infoErr
			}
			continue
		}
		return values[idx], true, nil
	}
}

// check adapts the field's rule chain to a prompt validator.
func (c *Collector) check(field model.FieldDef) func(string) error {
	if c.validator == nil || len(field.Rules) == 0 {
		return nil
	}
	return func(answer string) error {
		message, failed, err := c.validator.CheckField(field, strings.TrimSpace(answer), true)
		if err != nil {
			return err
		}
		if failed {
			return errors.New(message)
		}
		return nil
	}
}
