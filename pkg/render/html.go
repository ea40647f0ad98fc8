package render

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-webform/pkg/csrf"
	"github.com/goliatone/go-webform/pkg/model"
	rendertemplate "github.com/goliatone/go-webform/pkg/render/template"
	"github.com/goliatone/go-webform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-webform/pkg/validation"
)

// HTMLName is the registry name of the HTML renderer.
const HTMLName = "html"

// Option configures an HTMLRenderer.
type Option func(*HTMLRenderer)

// WithTokenIssuer renders an anti-forgery field from issuer. Without one no
// token field is emitted.
func WithTokenIssuer(issuer csrf.Issuer) Option {
	return func(r *HTMLRenderer) {
		r.issuer = issuer
	}
}

// WithClasses overrides chrome classes. Empty members keep their defaults.
func WithClasses(classes Classes) Option {
	return func(r *HTMLRenderer) {
		r.classes = classes.Merge(r.classes)
	}
}

// WithTheme resolves chrome classes from theme tokens on every render.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(r *HTMLRenderer) {
		if selector == nil {
			r.theme = nil
			return
		}
		r.theme = &themeChoice{selector: selector, name: name, variant: variant}
	}
}

// WithLiteralPolicy sanitises html-literal content with policy. Without one
// literal content is emitted verbatim.
func WithLiteralPolicy(policy *bluemonday.Policy) Option {
	return func(r *HTMLRenderer) {
		r.policy = policy
	}
}

// WithTemplateRenderer replaces the engine used for the messages block.
func WithTemplateRenderer(engine rendertemplate.TemplateRenderer) Option {
	return func(r *HTMLRenderer) {
		r.templates = engine
	}
}

// WithEndpoint sets the URL async forms post to. Without one the client
// script posts to the form's action.
func WithEndpoint(url string) Option {
	return func(r *HTMLRenderer) {
		r.endpoint = url
	}
}

// WithLogger sets the logger used when chrome templates fail.
func WithLogger(logger *zap.Logger) Option {
	return func(r *HTMLRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// HTMLRenderer renders schemas as HTML form fragments. It is stateless
// between calls and safe for concurrent use.
type HTMLRenderer struct {
	issuer    csrf.Issuer
	classes   Classes
	theme     *themeChoice
	policy    *bluemonday.Policy
	templates rendertemplate.TemplateRenderer
	endpoint  string
	logger    *zap.Logger
}

var _ Renderer = (*HTMLRenderer)(nil)

// NewHTML constructs the HTML renderer. The messages block uses a pongo2
// engine over the bundled templates unless WithTemplateRenderer is given.
func NewHTML(opts ...Option) *HTMLRenderer {
	r := &HTMLRenderer{
		classes: DefaultClasses(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.templates == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(Templates()))
		if err != nil {
			r.logger.Warn("chrome templates unavailable, using builder fallback", zap.Error(err))
		} else {
			r.templates = engine
		}
	}
	return r
}

// Name implements Renderer.
func (r *HTMLRenderer) Name() string { return HTMLName }

// ContentType implements Renderer.
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements Renderer.
func (r *HTMLRenderer) Render(ctx context.Context, schema model.FormSchema, opts RenderOptions) ([]byte, error) {
	schema = schema.Clone()
	LocalizeSchema(&schema, opts)

	classes := r.classes
	if tokens, err := r.theme.tokens(); err != nil {
		return nil, err
	} else if len(tokens) > 0 {
		classes = classes.WithTokens(tokens)
	}

	mapping := MapErrors(schema, opts.Errors)
	p := &pass{
		schema:  schema,
		opts:    opts,
		errors:  mapping.Fields,
		classes: classes,
		policy:  r.policy,
	}

	var b strings.Builder
	b.Grow(1024 + 256*len(schema.Fields))

	r.openForm(&b, schema, classes)

	reserved := map[string]struct{}{model.MarkerField: {}, model.HoneypotField: {}}
	if r.issuer != nil {
		token, err := r.issuer.Issue(ctx, schema.Slug)
		if err != nil {
			return nil, fmt.Errorf("render: issue token for %q: %w", schema.Slug, err)
		}
		reserved[r.issuer.FieldName()] = struct{}{}
		writeHidden(&b, r.issuer.FieldName(), token)
	}
	writeHidden(&b, model.MarkerField, schema.Slug)
	for _, field := range schema.Fields {
		reserved[field.Name] = struct{}{}
	}
	for _, hidden := range SortedHiddenFields(opts.Hidden, reserved) {
		writeHidden(&b, hidden.Name, hidden.Value)
	}

	r.writeMessages(&b, collectMessages(opts, mapping.Form), classes)

	open := ""
	for _, field := range schema.Fields {
		if field.Fieldset != open {
			if open != "" {
				b.WriteString("</fieldset>")
			}
			if field.Fieldset != "" {
				p.openFieldset(&b, field.Fieldset)
			}
			open = field.Fieldset
		}
		p.field(&b, field)
	}
	if open != "" {
		b.WriteString("</fieldset>")
	}

	if schema.HoneypotEnabled() {
		writeHoneypot(&b, schema.Slug)
	}
	b.WriteString("</form>")

	return []byte(b.String()), nil
}

func (r *HTMLRenderer) openForm(b *strings.Builder, schema model.FormSchema, classes Classes) {
	b.WriteString("<form")
	attr(b, "method", strings.ToLower(schema.FormMethod()))
	attrIf(b, "action", schema.Action)
	attr(b, "enctype", schema.FormEnctype())
	attrIf(b, "id", schema.ID)
	attrIf(b, "class", joinClasses(classes.Form, schema.Class))
	attr(b, "data-webform", schema.Slug)
	if schema.Async {
		attr(b, "data-webform-async", "1")
		attrIf(b, "data-webform-endpoint", r.endpoint)
	}
	flag(b, "novalidate", schema.NoValidate)
	b.WriteByte('>')
}

func collectMessages(opts RenderOptions, formErrors []string) []validation.Message {
	var out []validation.Message
	if opts.Flash != nil && strings.TrimSpace(opts.Flash.Text) != "" {
		out = append(out, *opts.Flash)
	}
	out = append(out, opts.Messages...)
	for _, text := range formErrors {
		out = append(out, validation.Message{Text: text, Class: "error"})
	}
	for idx := range out {
		out[idx].Text = LocalizeText(out[idx].Text, opts)
	}
	return out
}

func (r *HTMLRenderer) writeMessages(b *strings.Builder, messages []validation.Message, classes Classes) {
	if len(messages) == 0 {
		return
	}
	if r.templates != nil {
		items := make([]map[string]any, 0, len(messages))
		for _, msg := range messages {
			items = append(items, map[string]any{"text": msg.Text, "class": msg.Class})
		}
		out, err := r.templates.RenderTemplate(MessagesTemplate, map[string]any{
			"container": classes.Messages,
			"item":      classes.Message,
			"messages":  items,
		})
		if err == nil {
			b.WriteString(out)
			return
		}
		r.logger.Warn("messages template failed, using builder fallback", zap.Error(err))
	}

	b.WriteString("<div")
	attr(b, "class", classes.Messages)
	b.WriteByte('>')
	for _, msg := range messages {
		b.WriteString("<div")
		attr(b, "class", joinClasses(classes.Message, msg.Class))
		b.WriteByte('>')
		b.WriteString(html.EscapeString(msg.Text))
		b.WriteString("</div>")
	}
	b.WriteString("</div>")
}

func writeHidden(b *strings.Builder, name, value string) {
	b.WriteString(`<input type="hidden"`)
	attr(b, "name", name)
	attr(b, "value", value)
	b.WriteByte('>')
}

func writeHoneypot(b *strings.Builder, slug string) {
	id := slug + "_hp"
	b.WriteString("<div")
	attr(b, "class", string(ClassHoneypot))
	attr(b, "style", "position:absolute;left:-9999px;")
	attr(b, "aria-hidden", "true")
	b.WriteString("><label")
	attr(b, "for", id)
	b.WriteString(">Leave this field empty</label><input type=\"text\"")
	attr(b, "name", model.HoneypotField)
	attr(b, "id", id)
	attr(b, "value", "")
	attr(b, "tabindex", "-1")
	attr(b, "autocomplete", "off")
	b.WriteString("></div>")
}

// attr writes name="value" with value escaped for attribute context.
func attr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

func attrIf(b *strings.Builder, name, value string) {
	if value != "" {
		attr(b, name, value)
	}
}

func flag(b *strings.Builder, name string, on bool) {
	if on {
		b.WriteByte(' ')
		b.WriteString(name)
	}
}
