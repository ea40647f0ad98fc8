package httpform

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-webform/pkg/csrf"
	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/render"
	"github.com/goliatone/go-webform/pkg/respond"
)

const (
	// DefaultFormPath is the route pattern forms are served under.
	DefaultFormPath = "/forms/{slug}"
	// DefaultAjaxPath is the single endpoint async submissions post to.
	DefaultAjaxPath = "/webform/ajax"
	// DefaultFlashCookie names the cookie carrying the read-once flash key.
	DefaultFlashCookie = "webform_flash"
)

// GuardFunc may reject a request before any form work happens.
type GuardFunc func(r *http.Request) error

// LayoutFunc wraps a rendered form fragment into the page written to the
// client.
type LayoutFunc func(schema model.FormSchema, form []byte) []byte

// RenderOptionsFunc derives per-request render options such as the locale.
type RenderOptionsFunc func(r *http.Request) render.RenderOptions

// SuccessFunc runs after a submission validated. It may record further
// errors on s.Result or answer through resp.
type SuccessFunc func(ctx context.Context, resp *Responder, s Success) error

// Option configures a Handler.
type Option func(*Handler)

// WithFlashStore sets the store backing one-shot messages.
func WithFlashStore(store respond.FlashStore) Option {
	return func(h *Handler) {
		if store != nil {
			h.dispatcher = respond.NewDispatcher(store)
		}
	}
}

// WithDispatcher replaces the response dispatcher.
func WithDispatcher(d *respond.Dispatcher) Option {
	return func(h *Handler) {
		if d != nil {
			h.dispatcher = d
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithSuccess registers the handler run when the form slug validates.
func WithSuccess(slug string, fn SuccessFunc) Option {
	return func(h *Handler) {
		slug = strings.TrimSpace(slug)
		if slug == "" || fn == nil {
			return
		}
		h.success[slug] = fn
	}
}

// WithTokenField names the anti-forgery field read from submissions. It must
// match the renderer's issuer.
func WithTokenField(name string) Option {
	return func(h *Handler) {
		if name = strings.TrimSpace(name); name != "" {
			h.tokenField = name
		}
	}
}

// WithGuard installs a check run before every request.
func WithGuard(guard GuardFunc) Option {
	return func(h *Handler) {
		h.guard = guard
	}
}

// WithLayout wraps rendered fragments into a full page.
func WithLayout(layout LayoutFunc) Option {
	return func(h *Handler) {
		h.layout = layout
	}
}

// WithRenderOptions derives render options from the request.
func WithRenderOptions(fn RenderOptionsFunc) Option {
	return func(h *Handler) {
		h.renderOptions = fn
	}
}

// WithCarriedParams re-emits the named query parameters as hidden inputs so
// values such as a return URL survive the submission round trip. Host render
// options win over carried values of the same name.
func WithCarriedParams(names ...string) Option {
	return func(h *Handler) {
		for _, name := range names {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				h.carried = append(h.carried, trimmed)
			}
		}
	}
}

// WithFlashCookie renames the flash cookie.
func WithFlashCookie(name string) Option {
	return func(h *Handler) {
		if name = strings.TrimSpace(name); name != "" {
			h.flashCookie = name
		}
	}
}

// WithFormPath sets the route pattern used by RegisterRoutes. The pattern
// must contain a {slug} wildcard.
func WithFormPath(path string) Option {
	return func(h *Handler) {
		if path = strings.TrimSpace(path); path != "" {
			h.formPath = path
		}
	}
}

// WithAjaxPath sets the async endpoint used by RegisterRoutes.
func WithAjaxPath(path string) Option {
	return func(h *Handler) {
		if path = strings.TrimSpace(path); path != "" {
			h.ajaxPath = path
		}
	}
}

func defaults(h *Handler) {
	h.dispatcher = respond.NewDispatcher(nil)
	h.logger = zap.NewNop()
	h.success = map[string]SuccessFunc{}
	h.tokenField = csrf.DefaultFieldName
	h.flashCookie = DefaultFlashCookie
	h.formPath = DefaultFormPath
	h.ajaxPath = DefaultAjaxPath
}
