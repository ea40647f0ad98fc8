// Package csrf issues and verifies anti-forgery tokens scoped to a form slug.
//
// Tokens have the shape "<nonce>.<unix>.<mac>" where mac is an HMAC-SHA256
// over the scope, nonce, issue time, and an optional per-session binding.
package csrf

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultFieldName is the hidden input carrying the token.
const DefaultFieldName = "_webform_token"

// ErrInvalidToken is returned for any token that does not verify. Callers
// should not distinguish the reasons to end users.
var ErrInvalidToken = errors.New("csrf: invalid token")

// Issuer produces tokens for rendered forms.
type Issuer interface {
	FieldName() string
	Issue(ctx context.Context, scope string) (string, error)
}

// Verifier checks tokens from submissions.
type Verifier interface {
	Verify(ctx context.Context, scope, token string) error
}

// BindingFunc returns a value tying tokens to the caller's session. An empty
// string means unbound.
type BindingFunc func(ctx context.Context) string

// Option configures an HMAC.
type Option func(*HMAC)

// WithFieldName overrides the hidden input name.
func WithFieldName(name string) Option {
	return func(h *HMAC) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			h.field = trimmed
		}
	}
}

// WithTTL bounds token age. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(h *HMAC) {
		h.ttl = ttl
	}
}

// WithBinding ties tokens to a session value taken from the request context.
func WithBinding(fn BindingFunc) Option {
	return func(h *HMAC) {
		h.binding = fn
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(h *HMAC) {
		if now != nil {
			h.now = now
		}
	}
}

// HMAC implements Issuer and Verifier with a shared secret.
type HMAC struct {
	secret  []byte
	field   string
	ttl     time.Duration
	binding BindingFunc
	now     func() time.Time
}

// NewHMAC constructs an issuer/verifier. The secret must not be empty.
func NewHMAC(secret []byte, opts ...Option) (*HMAC, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("csrf: secret is required")
	}
	h := &HMAC{
		secret: append([]byte(nil), secret...),
		field:  DefaultFieldName,
		ttl:    12 * time.Hour,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// FieldName implements Issuer.
func (h *HMAC) FieldName() string {
	return h.field
}

// Issue implements Issuer.
func (h *HMAC) Issue(ctx context.Context, scope string) (string, error) {
	nonce := uuid.NewString()
	issued := strconv.FormatInt(h.now().Unix(), 10)
	mac := h.sign(ctx, scope, nonce, issued)
	return nonce + "." + issued + "." + mac, nil
}

// Verify implements Verifier.
func (h *HMAC) Verify(ctx context.Context, scope, token string) error {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return ErrInvalidToken
	}
	nonce, issued, mac := parts[0], parts[1], parts[2]
	if _, err := uuid.Parse(nonce); err != nil {
		return ErrInvalidToken
	}
	unix, err := strconv.ParseInt(issued, 10, 64)
	if err != nil {
		return ErrInvalidToken
	}
	expected := h.sign(ctx, scope, nonce, issued)
	if !hmac.Equal([]byte(expected), []byte(mac)) {
		return ErrInvalidToken
	}
	if h.ttl > 0 && h.now().Sub(time.Unix(unix, 0)) > h.ttl {
		return ErrInvalidToken
	}
	return nil
}

func (h *HMAC) sign(ctx context.Context, scope, nonce, issued string) string {
	mac := hmac.New(sha256.New, h.secret)
	bound := ""
	if h.binding != nil {
		bound = h.binding(ctx)
	}
	for _, part := range []string{scope, nonce, issued, bound} {
		mac.Write([]byte(part))
		mac.Write([]byte{0})
	}
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Static is a fixed-token Issuer and Verifier for tests and previews.
type Static struct {
	Field string
	Token string
}

// FieldName implements Issuer.
func (s Static) FieldName() string {
	if s.Field == "" {
		return DefaultFieldName
	}
	return s.Field
}

// Issue implements Issuer.
func (s Static) Issue(context.Context, string) (string, error) {
	return s.Token, nil
}

// Verify implements Verifier.
func (s Static) Verify(_ context.Context, _ string, token string) error {
	if !hmac.Equal([]byte(s.Token), []byte(token)) {
		return ErrInvalidToken
	}
	return nil
}
