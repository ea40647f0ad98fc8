package rules

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Built-in rule names.
const (
	Required  = "required"
	Email     = "email"
	MinLength = "min_length"
	MaxLength = "max_length"
	Number    = "number"
	MinDate   = "min_date"
	MaxDate   = "max_date"
	Pattern   = "pattern"
)

// DateLayouts are tried in order when parsing date values and bounds.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

func builtins() []Rule {
	return []Rule{
		{Name: Required, Func: required},
		{Name: Email, Func: email},
		{Name: MinLength, Func: minLength, Check: checkInt},
		{Name: MaxLength, Func: maxLength, Check: checkInt},
		{Name: Number, Func: number},
		{Name: MinDate, Func: minDate, Check: checkDate},
		{Name: MaxDate, Func: maxDate, Check: checkDate},
		{Name: Pattern, Func: pattern, Check: checkPattern},
	}
}

func required(in Input) (bool, string) {
	if in.Present && in.Value != "" {
		return true, ""
	}
	return false, "This field is required"
}

func email(in Input) (bool, string) {
	const msg = "Please enter a valid email"
	addr, err := mail.ParseAddress(in.Value)
	if err != nil || addr.Name != "" || addr.Address != in.Value {
		return false, msg
	}
	at := strings.LastIndex(addr.Address, "@")
	if at <= 0 || !strings.Contains(addr.Address[at+1:], ".") {
		return false, msg
	}
	return true, ""
}

// Length bounds are exclusive: min_length(5) needs at least six runes and
// max_length(5) at most four.
func minLength(in Input) (bool, string) {
	n, _ := strconv.Atoi(strings.TrimSpace(in.Param))
	if utf8.RuneCountInString(in.Value) > n {
		return true, ""
	}
	return false, fmt.Sprintf("Minimum length: %d characters", n)
}

func maxLength(in Input) (bool, string) {
	n, _ := strconv.Atoi(strings.TrimSpace(in.Param))
	if utf8.RuneCountInString(in.Value) < n {
		return true, ""
	}
	return false, fmt.Sprintf("Maximum length: %d characters", n)
}

func number(in Input) (bool, string) {
	for _, r := range in.Value {
		if r >= '0' && r <= '9' {
			return true, ""
		}
	}
	return false, "This must be a number."
}

func minDate(in Input) (bool, string) {
	bound, _ := ParseDate(in.Param)
	value, err := ParseDate(in.Value)
	if err == nil && value.After(bound) {
		return true, ""
	}
	return false, fmt.Sprintf("Date must be after %s", in.Param)
}

func maxDate(in Input) (bool, string) {
	bound, _ := ParseDate(in.Param)
	value, err := ParseDate(in.Value)
	if err == nil && value.Before(bound) {
		return true, ""
	}
	return false, fmt.Sprintf("Date must be before %s", in.Param)
}

func pattern(in Input) (bool, string) {
	re, err := compile(in.Param)
	if err == nil && re.MatchString(in.Value) {
		return true, ""
	}
	return false, "Invalid format"
}

// ParseDate parses value using the first matching layout in DateLayouts.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("rules: unrecognised date %q", value)
}

func checkInt(param string) error {
	n, err := strconv.Atoi(strings.TrimSpace(param))
	if err != nil {
		return fmt.Errorf("expected an integer, got %q", param)
	}
	if n < 0 {
		return fmt.Errorf("expected a non-negative integer, got %d", n)
	}
	return nil
}

func checkDate(param string) error {
	_, err := ParseDate(param)
	return err
}

func checkPattern(param string) error {
	if param == "" {
		return fmt.Errorf("pattern is required")
	}
	_, err := compile(param)
	return err
}

var patterns sync.Map

func compile(expr string) (*regexp.Regexp, error) {
	if cached, ok := patterns.Load(expr); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	patterns.Store(expr, re)
	return re, nil
}
