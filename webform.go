// Package webform wires the registry, renderer, validator, dispatcher, and
// HTTP handler into one value for hosts that want the whole pipeline with a
// single constructor. Each stage stays available under pkg/ for hosts that
// assemble their own.
package webform

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/goliatone/go-webform/pkg/assets"
	"github.com/goliatone/go-webform/pkg/csrf"
	"github.com/goliatone/go-webform/pkg/httpform"
	"github.com/goliatone/go-webform/pkg/loader"
	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/openapi"
	"github.com/goliatone/go-webform/pkg/registry"
	"github.com/goliatone/go-webform/pkg/render"
	"github.com/goliatone/go-webform/pkg/respond"
	"github.com/goliatone/go-webform/pkg/rules"
	"github.com/goliatone/go-webform/pkg/validation"
	"github.com/goliatone/go-webform/pkg/widgets"
)

// RenderOptions aliases render.RenderOptions so callers can prefill values or
// surface errors without importing the render package.
type RenderOptions = render.RenderOptions

// Tokens issues and verifies anti-forgery tokens.
type Tokens interface {
	csrf.Issuer
	csrf.Verifier
}

// Option configures a Webform.
type Option func(*config)

type config struct {
	strict       bool
	rules        *rules.Registry
	tokens       Tokens
	secret       []byte
	flash        respond.FlashStore
	logger       *zap.Logger
	endpoint     string
	renderOpts   []render.Option
	renderers    []render.Renderer
	fallback     string
	widgets      *widgets.Registry
	skipOptional bool
	handlerOpts  []httpform.Option
}

// WithStrict rejects registering a slug twice.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithRules replaces the rule registry. Defaults to the built-in rules.
func WithRules(reg *rules.Registry) Option {
	return func(c *config) {
		c.rules = reg
	}
}

// WithTokens sets the anti-forgery token implementation.
func WithTokens(tokens Tokens) Option {
	return func(c *config) {
		c.tokens = tokens
	}
}

// WithSecret enables HMAC anti-forgery tokens signed with secret. It is
// ignored when WithTokens is given.
func WithSecret(secret []byte) Option {
	return func(c *config) {
		c.secret = secret
	}
}

// WithFlashStore sets the store backing one-shot messages.
func WithFlashStore(store respond.FlashStore) Option {
	return func(c *config) {
		c.flash = store
	}
}

// WithLogger sets the logger shared by every stage.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEndpoint sets the URL async forms post to. Defaults to
// httpform.DefaultAjaxPath.
func WithEndpoint(url string) Option {
	return func(c *config) {
		c.endpoint = url
	}
}

// WithRenderOptions forwards options to the HTML renderer.
func WithRenderOptions(opts ...render.Option) Option {
	return func(c *config) {
		c.renderOpts = append(c.renderOpts, opts...)
	}
}

// WithRenderer registers an additional renderer, reachable by its Name()
// through RenderWith.
func WithRenderer(renderer render.Renderer) Option {
	return func(c *config) {
		if renderer != nil {
			c.renderers = append(c.renderers, renderer)
		}
	}
}

// WithDefaultRenderer selects the renderer used by Render and the HTTP
// handler. Defaults to the built-in HTML renderer.
func WithDefaultRenderer(name string) Option {
	return func(c *config) {
		c.fallback = name
	}
}

// WithWidgets replaces the registry that assigns client-side widgets to
// enhanced fields at registration time.
func WithWidgets(reg *widgets.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.widgets = reg
		}
	}
}

// WithSkipEmptyOptional lets empty fields without a "required" rule pass
// without running their other rules.
func WithSkipEmptyOptional() Option {
	return func(c *config) {
		c.skipOptional = true
	}
}

// WithHandlerOptions forwards options to the HTTP handler.
func WithHandlerOptions(opts ...httpform.Option) Option {
	return func(c *config) {
		c.handlerOpts = append(c.handlerOpts, opts...)
	}
}

// Webform is the assembled pipeline.
type Webform struct {
	Registry   *registry.Registry
	Renderer   *render.HTMLRenderer
	Renderers  *render.Registry
	Validator  *validation.Validator
	Dispatcher *respond.Dispatcher

	tokens      Tokens
	logger      *zap.Logger
	handlerOpts []httpform.Option
}

// New assembles the pipeline.
func New(opts ...Option) (*Webform, error) {
	cfg := config{
		logger:   zap.NewNop(),
		endpoint: httpform.DefaultAjaxPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.rules == nil {
		cfg.rules = rules.Default()
	}
	if cfg.flash == nil {
		cfg.flash = respond.NewMemoryFlashStore(respond.DefaultFlashTTL)
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	if cfg.tokens == nil && len(cfg.secret) > 0 {
		hmac, err := csrf.NewHMAC(cfg.secret)
		if err != nil {
			return nil, fmt.Errorf("webform: %w", err)
		}
		cfg.tokens = hmac
	}

	renderOpts := []render.Option{
		render.WithEndpoint(cfg.endpoint),
		render.WithLogger(cfg.logger),
	}
	var verifier csrf.Verifier
	if cfg.tokens != nil {
		renderOpts = append(renderOpts, render.WithTokenIssuer(cfg.tokens))
		verifier = cfg.tokens
	}

	html := render.NewHTML(append(renderOpts, cfg.renderOpts...)...)
	renderers := render.NewRegistry()
	for _, renderer := range append([]render.Renderer{html}, cfg.renderers...) {
		if err := renderers.Register(renderer); err != nil {
			return nil, fmt.Errorf("webform: %w", err)
		}
	}
	if cfg.fallback != "" {
		if err := renderers.SetDefault(cfg.fallback); err != nil {
			return nil, fmt.Errorf("webform: %w", err)
		}
	}

	validatorOpts := []validation.Option{validation.WithLogger(cfg.logger)}
	if cfg.skipOptional {
		validatorOpts = append(validatorOpts, validation.WithSkipEmptyOptional())
	}

	return &Webform{
		Registry: registry.New(
			registry.WithStrict(cfg.strict),
			registry.WithRules(cfg.rules),
			registry.WithLogger(cfg.logger),
			registry.WithDecorators(cfg.widgets),
		),
		Renderer:    html,
		Renderers:   renderers,
		Validator:   validation.New(cfg.rules, verifier, validatorOpts...),
		Dispatcher:  respond.NewDispatcher(cfg.flash),
		tokens:      cfg.tokens,
		logger:      cfg.logger,
		handlerOpts: cfg.handlerOpts,
	}, nil
}

// Register adds a schema to the registry.
func (w *Webform) Register(schema model.FormSchema) error {
	return w.Registry.Register(schema)
}

// LoadFS registers every schema file found in fsys and returns the slugs.
func (w *Webform) LoadFS(fsys fs.FS) ([]string, error) {
	return loader.RegisterFS(w.Registry, fsys)
}

// Render renders the registered form slug with the default renderer.
func (w *Webform) Render(ctx context.Context, slug string, opts RenderOptions) ([]byte, error) {
	return w.RenderWith(ctx, "", slug, opts)
}

// RenderWith renders the registered form slug with the named renderer. An
// empty name selects the default.
func (w *Webform) RenderWith(ctx context.Context, renderer, slug string, opts RenderOptions) ([]byte, error) {
	r, err := w.Renderers.Get(renderer)
	if err != nil {
		return nil, fmt.Errorf("webform: %w", err)
	}
	schema, err := w.Registry.Get(slug)
	if err != nil {
		return nil, fmt.Errorf("webform: %w", err)
	}
	return r.Render(ctx, schema, opts)
}

// Validate checks sub against the registered form slug.
func (w *Webform) Validate(ctx context.Context, slug string, sub *validation.Submission) (*validation.Result, error) {
	schema, err := w.Registry.Get(slug)
	if err != nil {
		return nil, fmt.Errorf("webform: %w", err)
	}
	return w.Validator.Validate(ctx, schema, sub)
}

// Handler freezes the registry and returns the HTTP handler serving every
// registered form. Options given here follow those from WithHandlerOptions.
func (w *Webform) Handler(opts ...httpform.Option) (*httpform.Handler, error) {
	w.Registry.Freeze()
	handlerOpts := []httpform.Option{
		httpform.WithDispatcher(w.Dispatcher),
		httpform.WithLogger(w.logger),
		httpform.WithTokenField(w.TokenField()),
	}
	handlerOpts = append(handlerOpts, w.handlerOpts...)
	handlerOpts = append(handlerOpts, opts...)
	renderer, err := w.Renderers.Get("")
	if err != nil {
		return nil, fmt.Errorf("webform: %w", err)
	}
	return httpform.New(w.Registry, renderer, w.Validator, handlerOpts...)
}

// TokenField names the hidden anti-forgery input, or returns an empty string
// when tokens are disabled.
func (w *Webform) TokenField() string {
	if w.tokens == nil {
		return ""
	}
	return w.tokens.FieldName()
}

// IssueToken returns an anti-forgery token for slug, or an empty string when
// tokens are disabled.
func (w *Webform) IssueToken(ctx context.Context, slug string) (string, error) {
	if w.tokens == nil {
		return "", nil
	}
	return w.tokens.Issue(ctx, slug)
}

// OpenAPI describes the submission contract of every registered form.
func (w *Webform) OpenAPI(title, version string, opts ...openapi.Option) (*openapi3.T, error) {
	slugs := w.Registry.Slugs()
	schemas := make([]model.FormSchema, 0, len(slugs))
	for _, slug := range slugs {
		schema, ok := w.Registry.Lookup(slug)
		if ok {
			schemas = append(schemas, schema)
		}
	}
	if field := w.TokenField(); field != "" {
		opts = append([]openapi.Option{openapi.WithTokenField(field)}, opts...)
	}
	return openapi.Document(title, version, schemas, opts...)
}

// RuntimeAssetsFS exposes the bundled browser script so hosts can serve it
// without a build step.
//
// Typical mount:
//
//	mux.Handle("/webform/static/",
//	  http.StripPrefix("/webform/static/",
//	    http.FileServerFS(webform.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return assets.FS()
}

// EmbeddedTemplates exposes the renderer's chrome templates so callers can
// start overrides from them.
func EmbeddedTemplates() fs.FS {
	return render.Templates()
}
