package httpform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"

	"go.uber.org/zap"

	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/registry"
	"github.com/goliatone/go-webform/pkg/render"
	"github.com/goliatone/go-webform/pkg/respond"
	"github.com/goliatone/go-webform/pkg/validation"
)

// Schemas resolves registered schemas by slug.
type Schemas interface {
	Get(slug string) (model.FormSchema, error)
}

// Validator checks a submission against a schema.
type Validator interface {
	Validate(ctx context.Context, schema model.FormSchema, sub *validation.Submission) (*validation.Result, error)
}

// Success is passed to a SuccessFunc once a submission validated.
type Success struct {
	Schema     model.FormSchema
	Values     map[string]string
	Result     *validation.Result
	Submission *validation.Submission
	Request    *http.Request
}

// Handler serves registered forms: GET renders, POST validates and answers.
// Mount it under a pattern with a {slug} wildcard, or use Form for a single
// schema.
type Handler struct {
	schemas   Schemas
	renderer  render.Renderer
	validator Validator

	dispatcher    *respond.Dispatcher
	logger        *zap.Logger
	success       map[string]SuccessFunc
	tokenField    string
	flashCookie   string
	guard         GuardFunc
	layout        LayoutFunc
	renderOptions RenderOptionsFunc
	carried       []string
	formPath      string
	ajaxPath      string
}

// New constructs a Handler.
func New(schemas Schemas, renderer render.Renderer, validator Validator, opts ...Option) (*Handler, error) {
	if schemas == nil {
		return nil, fmt.Errorf("httpform: schema registry is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("httpform: renderer is required")
	}
	if validator == nil {
		return nil, fmt.Errorf("httpform: validator is required")
	}
	h := &Handler{schemas: schemas, renderer: renderer, validator: validator}
	defaults(h)
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// ServeHTTP implements http.Handler. The slug comes from the {slug} path
// wildcard, falling back to the last path segment.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		slug = path.Base(r.URL.Path)
	}
	h.serve(w, r, slug)
}

// Form returns a handler pinned to one schema.
func (h *Handler) Form(slug string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, slug)
	})
}

// Ajax returns the single async endpoint. It routes by the posted action
// field and always answers with a JSON envelope.
func (h *Handler) Ajax() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeStatus(w, http.StatusMethodNotAllowed)
			return
		}
		if !h.allowed(w, r) {
			return
		}
		slug, err := asyncSlug(r)
		if err != nil {
			writeStatus(w, http.StatusBadRequest)
			return
		}
		schema, ok := h.lookup(w, slug)
		if !ok {
			return
		}
		h.submit(w, r, schema)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, slug string) {
	if !h.allowed(w, r) {
		return
	}
	schema, ok := h.lookup(w, slug)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if schema.FormMethod() == model.MethodGet && r.URL.Query().Has(model.MarkerField) {
			h.submit(w, r, schema)
			return
		}
		h.render(w, r, schema, h.consumeFlash(w, r))
	case http.MethodPost:
		h.submit(w, r, schema)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead+", "+http.MethodPost)
		writeStatus(w, http.StatusMethodNotAllowed)
	}
}

func (h *Handler) allowed(w http.ResponseWriter, r *http.Request) bool {
	if h.guard == nil {
		return true
	}
	if err := h.guard(r); err != nil {
		writeGuardError(w, err)
		return false
	}
	return true
}

func (h *Handler) lookup(w http.ResponseWriter, slug string) (model.FormSchema, bool) {
	schema, err := h.schemas.Get(slug)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			writeStatus(w, http.StatusNotFound)
		} else {
			h.logger.Error("schema lookup failed", zap.String("slug", slug), zap.Error(err))
			writeStatus(w, http.StatusInternalServerError)
		}
		return model.FormSchema{}, false
	}
	return schema, true
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, schema model.FormSchema) {
	ctx := r.Context()
	sub, err := ParseSubmission(r, schema, h.tokenField)
	if err != nil {
		h.logger.Debug("unreadable submission", zap.String("slug", schema.Slug), zap.Error(err))
		writeStatus(w, http.StatusBadRequest)
		return
	}

	result, err := h.validator.Validate(ctx, schema, sub)
	if err != nil {
		if errors.Is(err, validation.ErrSecurity) {
			h.logger.Warn("submission rejected",
				zap.String("slug", schema.Slug),
				zap.String("remote", r.RemoteAddr),
				zap.Error(err),
			)
			writeStatus(w, http.StatusForbidden)
			return
		}
		h.logger.Error("validation failed", zap.String("slug", schema.Slug), zap.Error(err))
		writeStatus(w, http.StatusInternalServerError)
		return
	}

	if !result.Submitted() {
		if sub.Async() {
			h.writeEnvelope(w, respond.FromResult(result))
			return
		}
		h.render(w, r, schema, render.RenderOptions{})
		return
	}

	if result.Valid() {
		resp := newResponder(w, r, h.dispatcher, sub.Async(), h.logger)
		if fn, ok := h.success[schema.Slug]; ok {
			err := fn(ctx, resp, Success{
				Schema:     schema,
				Values:     validation.Values(schema, sub),
				Result:     result,
				Submission: sub,
				Request:    r,
			})
			if err != nil {
				h.logger.Error("success handler failed", zap.String("slug", schema.Slug), zap.Error(err))
				if !resp.Halted() {
					writeStatus(w, http.StatusInternalServerError)
				}
				return
			}
		}
		if resp.Halted() {
			return
		}
		if result.Valid() {
			h.finish(w, r, schema, result, resp)
			return
		}
	}

	effect := h.dispatcher.Verdict(result, sub.Async())
	switch effect.Kind {
	case respond.EffectWrite:
		h.writeEnvelope(w, effect.Envelope)
	default:
		opts := render.RenderOptions{}.FromResult(validation.Values(schema, sub), result)
		h.render(w, r, schema, opts)
	}
}

// finish answers a valid submission whose success handler did not halt.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, schema model.FormSchema, result *validation.Result, resp *Responder) {
	if resp.async {
		h.writeEnvelope(w, respond.Errors{Messages: result.Messages})
		return
	}
	if key := resp.flashKey; key != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.flashCookie,
			Value:    key,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, redirectTarget(r, schema), http.StatusSeeOther)
		return
	}
	opts := render.RenderOptions{Messages: result.Messages}
	h.render(w, r, schema, opts)
}

// redirectTarget is the URL a synchronous submission redirects back to. GET
// forms carry their payload in the query, so it is dropped to land on a plain
// render rather than a resubmission.
func redirectTarget(r *http.Request, schema model.FormSchema) string {
	if schema.FormMethod() == model.MethodGet {
		return r.URL.Path
	}
	return r.URL.RequestURI()
}

// consumeFlash reads and clears the flash cookie, returning render options
// carrying the stored message.
func (h *Handler) consumeFlash(w http.ResponseWriter, r *http.Request) render.RenderOptions {
	opts := render.RenderOptions{}
	cookie, err := r.Cookie(h.flashCookie)
	if err != nil || cookie.Value == "" {
		return opts
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if msg, ok := h.dispatcher.Flash().Take(r.Context(), cookie.Value); ok {
		opts.Flash = &validation.Message{Text: msg.Text, Class: msg.Class}
	}
	return opts
}

func (h *Handler) options(r *http.Request) render.RenderOptions {
	if h.renderOptions == nil {
		return render.RenderOptions{}
	}
	return h.renderOptions(r)
}

// carriedParams returns the configured query parameters present on r.
func (h *Handler) carriedParams(r *http.Request) map[string]string {
	if len(h.carried) == 0 {
		return nil
	}
	query := r.URL.Query()
	out := make(map[string]string, len(h.carried))
	for _, name := range h.carried {
		if query.Has(name) {
			out[name] = query.Get(name)
		}
	}
	return out
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, schema model.FormSchema, opts render.RenderOptions) {
	base := h.options(r)
	hidden := append(render.SortedHiddenFields(base.Hidden, nil), render.SortedHiddenFields(opts.Hidden, nil)...)
	base.Hidden = render.MergeHiddenFields(h.carriedParams(r), hidden...)
	base.Values = opts.Values
	base.Errors = opts.Errors
	base.Messages = append(base.Messages, opts.Messages...)
	if opts.Flash != nil {
		base.Flash = opts.Flash
	}

	out, err := h.renderer.Render(r.Context(), schema, base)
	if err != nil {
		h.logger.Error("render failed", zap.String("slug", schema.Slug), zap.Error(err))
		writeStatus(w, http.StatusInternalServerError)
		return
	}
	if h.layout != nil {
		out = h.layout(schema, out)
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(out); err != nil {
		h.logger.Error("write form", zap.String("slug", schema.Slug), zap.Error(err))
	}
}

func (h *Handler) writeEnvelope(w http.ResponseWriter, env respond.Envelope) {
	writeEnvelope(w, env, h.logger)
}

func writeEnvelope(w http.ResponseWriter, env respond.Envelope, logger *zap.Logger) {
	body, err := json.Marshal(env)
	if err != nil {
		logger.Error("encode envelope", zap.Error(err))
		writeStatus(w, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Error("write envelope", zap.Error(err))
	}
}
