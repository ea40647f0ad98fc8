package render

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-webform/pkg/csrf"
	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/testsupport"
	"github.com/goliatone/go-webform/pkg/validation"
)

var staticToken = csrf.Static{Token: "tok"}

func renderString(t *testing.T, r *HTMLRenderer, schema model.FormSchema, opts RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), schema, opts)
	require.NoError(t, err)
	return string(out)
}

func TestRender_MinimalOrder(t *testing.T) {
	b := model.NewBuilder("mini").Honeypot(false)
	b.Text("name", "Name")

	got := renderString(t, NewHTML(WithTokenIssuer(staticToken)), b.Build(), RenderOptions{
		Values: map[string]string{"name": `<b>"x"</b>`},
	})

	want := `<form method="post" enctype="application/x-www-form-urlencoded" class="webform" data-webform="mini">` +
		`<input type="hidden" name="_webform_token" value="tok">` +
		`<input type="hidden" name="webform" value="mini">` +
		`<div><label for="name">Name</label>` +
		`<input type="text" name="name" id="name" value="&lt;b&gt;&#34;x&#34;&lt;/b&gt;">` +
		`<div class="webform-error" data-field="name" style="display:none"></div></div>` +
		`</form>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}
}

func contactSchema() model.FormSchema {
	b := model.NewBuilder("contact").Action("/contact").Async(true).NoValidate()
	b.Fieldset(model.FieldsetDef{Slug: "who", Legend: "About you"})
	b.Text("name", "Name").Required()
	b.Email("email", "Email").Required().Rule("email")
	b.Tel("phone", "Phone")
	b.EndFieldset()
	b.Select("topic", "Topic", model.Option{Value: "sales", Label: "Sales"}, model.Option{Value: "help", Label: "Help"}).Empty("Pick one").Enhanced()
	b.Radio("size", "Size", model.Option{Value: "s", Label: "Small"}, model.Option{Value: "l", Label: "Large"})
	b.Checkbox("agree", "I agree", "yes")
	b.Date("when", "When").Bounds("2024-01-01", "2024-12-31")
	b.Number("age", "Age")
	b.Password("secret", "Secret")
	b.Textarea("message", "Message")
	b.Hidden("source", "web")
	b.HTML("<hr>")
	b.Button("reset", "Clear")
	b.Submit("Send")
	return b.Build()
}

func TestRender_RoundTripNames(t *testing.T) {
	schema := contactSchema()
	markup := renderString(t, NewHTML(WithTokenIssuer(staticToken)), schema, RenderOptions{})

	want := []string{csrf.DefaultFieldName, model.HoneypotField, model.MarkerField}
	for _, field := range schema.Fields {
		if field.Kind != model.KindHTML {
			want = append(want, field.Name)
		}
	}
	require.ElementsMatch(t, want, testsupport.FieldNames(t, markup))
}

func TestRender_RoundTripNamesProperty(t *testing.T) {
	kinds := []model.FieldKind{
		model.KindText, model.KindEmail, model.KindTel, model.KindNumber, model.KindPassword,
		model.KindTextarea, model.KindHidden, model.KindCheckbox, model.KindRadio,
		model.KindSelect, model.KindDate, model.KindButton, model.KindSubmit, "mystery",
	}
	renderer := NewHTML(WithTokenIssuer(staticToken))

	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(0, 8).Draw(rt, "count")
		schema := model.FormSchema{Slug: "p"}
		want := []string{csrf.DefaultFieldName, model.MarkerField, model.HoneypotField}
		for i := 0; i < count; i++ {
			kind := rapid.SampledFrom(kinds).Draw(rt, "kind")
			name := "f" + strings.Repeat("x", i)
			field := model.FieldDef{Name: name, Kind: kind, Label: "L"}
			if kind == model.KindSelect || kind == model.KindRadio {
				field.Options = []model.Option{{Value: "a"}, {Value: "b"}}
			}
			schema.Fields = append(schema.Fields, field)
			want = append(want, name)
		}
		out, err := renderer.Render(context.Background(), schema, RenderOptions{})
		if err != nil {
			rt.Fatalf("render: %v", err)
		}
		got := testsupport.FieldNames(t, string(out))
		if diff := cmp.Diff(sortedCopy(want), got); diff != "" {
			rt.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
	})
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func TestRender_FormAttributes(t *testing.T) {
	markup := renderString(t, NewHTML(WithEndpoint("/webform/ajax")), contactSchema(), RenderOptions{})
	forms := testsupport.Elements(t, markup, "form")
	require.Len(t, forms, 1)
	form := forms[0]

	require.Equal(t, "post", form.Attrs["method"])
	require.Equal(t, "/contact", form.Attrs["action"])
	require.Equal(t, "1", form.Attrs["data-webform-async"])
	require.Equal(t, "/webform/ajax", form.Attrs["data-webform-endpoint"])
	_, novalidate := form.Attr("novalidate")
	require.True(t, novalidate)
}

func TestRender_ContiguousFieldsetWrapsOnce(t *testing.T) {
	markup := renderString(t, NewHTML(), contactSchema(), RenderOptions{})
	require.Equal(t, 1, strings.Count(markup, "<fieldset"))
	require.Equal(t, 1, strings.Count(markup, "</fieldset>"))
	require.Contains(t, markup, `<fieldset data-fieldset="who"><legend>About you</legend>`)

	open := strings.Index(markup, "<fieldset")
	closing := strings.Index(markup, "</fieldset>")
	for _, name := range []string{`name="name"`, `name="email"`, `name="phone"`} {
		idx := strings.Index(markup, name)
		require.True(t, idx > open && idx < closing, "%s should sit inside the fieldset", name)
	}
}

func TestRender_NonContiguousFieldsetsInterleave(t *testing.T) {
	schema := model.FormSchema{
		Slug: "split",
		Fieldsets: map[string]model.FieldsetDef{
			"a": {Slug: "a", Legend: "A"},
			"b": {Slug: "b"},
		},
		Fields: []model.FieldDef{
			{Name: "one", Kind: model.KindText, Fieldset: "a"},
			{Name: "two", Kind: model.KindText, Fieldset: "b"},
			{Name: "three", Kind: model.KindText, Fieldset: "a"},
			{Name: "four", Kind: model.KindText},
		},
	}
	markup := renderString(t, NewHTML(), schema, RenderOptions{})

	require.Equal(t, 3, strings.Count(markup, "<fieldset"))
	require.Equal(t, 3, strings.Count(markup, "</fieldset>"))
	require.Equal(t, 2, strings.Count(markup, `<legend>A</legend>`))

	sequence := []string{
		`data-fieldset="a"`, `name="one"`, "</fieldset>",
		`data-fieldset="b"`, `name="two"`, "</fieldset>",
		`data-fieldset="a"`, `name="three"`, "</fieldset>",
		`name="four"`,
	}
	cursor := 0
	for _, token := range sequence {
		idx := strings.Index(markup[cursor:], token)
		require.GreaterOrEqual(t, idx, 0, "expected %q after offset %d", token, cursor)
		cursor += idx + len(token)
	}
}

func TestRender_ErrorSlots(t *testing.T) {
	markup := renderString(t, NewHTML(), contactSchema(), RenderOptions{
		Errors: map[string]string{
			"email":   "Please enter a valid email",
			"ghost":   "Something went wrong",
			"message": "<script>alert(1)</script>",
		},
	})

	slots := map[string]testsupport.Node{}
	for _, node := range testsupport.MustParseNodes(t, markup) {
		if node.HasClass("webform-error") {
			slots[node.Attrs["data-field"]] = node
		}
	}
	require.Equal(t, "Please enter a valid email", slots["email"].Text)
	_, hidden := slots["email"].Attr("style")
	require.False(t, hidden)

	require.Equal(t, "", slots["name"].Text)
	require.Equal(t, "display:none", slots["name"].Attrs["style"])

	require.NotContains(t, markup, "<script>alert(1)</script>")
	require.Contains(t, markup, "&lt;script&gt;alert(1)&lt;/script&gt;")

	_, ok := slots["source"]
	require.False(t, ok, "hidden fields have no error slot")
	require.Contains(t, markup, "Something went wrong", "unmapped errors surface as messages")
}

func TestRender_KindSpecificMarkup(t *testing.T) {
	markup := renderString(t, NewHTML(), contactSchema(), RenderOptions{
		Values: map[string]string{
			"topic":  "help",
			"size":   "l",
			"agree":  "yes",
			"secret": "hunter2",
			"source": "attacker",
		},
	})
	nodes := testsupport.MustParseNodes(t, markup)
	byID := map[string]testsupport.Node{}
	byName := map[string]testsupport.Node{}
	var options []testsupport.Node
	for _, node := range nodes {
		if id := node.Attrs["id"]; id != "" {
			byID[id] = node
		}
		if name := node.Attrs["name"]; name != "" && node.Tag == "input" {
			byName[name] = node
		}
		if node.Tag == "option" {
			options = append(options, node)
		}
	}

	require.True(t, byID["topic"].HasClass("webform-select2"))
	require.Len(t, options, 3)
	require.Equal(t, "", options[0].Attrs["value"])
	require.Equal(t, "Pick one", options[0].Text)
	_, selected := options[2].Attr("selected")
	require.True(t, selected)

	_, checked := byID["size_l"].Attr("checked")
	require.True(t, checked)
	_, checked = byID["size_s"].Attr("checked")
	require.False(t, checked)

	_, checked = byID["agree"].Attr("checked")
	require.True(t, checked)

	require.Equal(t, "date", byID["when"].Attrs["type"])
	require.Equal(t, "2024-01-01", byID["when"].Attrs["min"])
	require.Equal(t, "2024-12-31", byID["when"].Attrs["max"])

	_, hasValue := byID["secret"].Attr("value")
	require.False(t, hasValue, "password values never round-trip")

	require.Equal(t, "web", byName["source"].Attrs["value"], "explicit values win")
	require.Equal(t, "Clear", byID["reset"].Text)
	require.Equal(t, "Send", byID["submit"].Attrs["value"])
	require.Contains(t, markup, "<hr>")

	for _, node := range nodes {
		if node.Tag == "label" && node.Attrs["for"] == "agree" {
			t.Fatalf("checkbox label should wrap the control instead of pointing at it")
		}
	}
}

func TestRender_LabelsSuppressedWhenEmpty(t *testing.T) {
	b := model.NewBuilder("bare").Honeypot(false)
	b.Text("q", "")
	markup := renderString(t, NewHTML(), b.Build(), RenderOptions{})
	require.NotContains(t, markup, "<label")
}

func TestRender_EnhancedDateAndUnknownKind(t *testing.T) {
	schema := model.FormSchema{
		Slug: "d",
		Fields: []model.FieldDef{
			{Name: "when", Kind: model.KindDate, Enhanced: true, DateFormat: "yy-mm-dd"},
			{Name: "color", Kind: "colour"},
		},
	}
	markup := renderString(t, NewHTML(), schema, RenderOptions{})
	byName := map[string]testsupport.Node{}
	for _, node := range testsupport.Elements(t, markup, "input") {
		byName[node.Attrs["name"]] = node
	}
	require.Equal(t, "text", byName["when"].Attrs["type"])
	require.True(t, byName["when"].HasClass("webform-date"))
	require.Equal(t, "yy-mm-dd", byName["when"].Attrs["data-date-format"])
	require.Equal(t, "text", byName["color"].Attrs["type"])
}

func TestRender_ButtonTextFallbacks(t *testing.T) {
	schema := model.FormSchema{
		Slug: "btn",
		Fields: []model.FieldDef{
			{Name: "a", Kind: model.KindButton, Label: "From label"},
			{Name: "b", Kind: model.KindButton},
			{Name: "c", Kind: model.KindSubmit},
		},
	}
	markup := renderString(t, NewHTML(), schema, RenderOptions{})
	buttons := testsupport.Elements(t, markup, "button")
	require.Len(t, buttons, 2)
	require.Equal(t, "From label", buttons[0].Text)
	require.Equal(t, "button", buttons[1].Text)
	require.Contains(t, markup, `<input type="submit" name="c" id="c" value="submit">`)
}

func TestRender_WrapFallbackChain(t *testing.T) {
	b := model.NewBuilder("wrap").Honeypot(false).Wrap(model.Wrap{Tag: "p", Class: "row"})
	b.Text("a", "A")
	b.Text("b", "B").Wrap(model.Wrap{Tag: "li", ID: "b-wrap"})
	markup := renderString(t, NewHTML(), b.Build(), RenderOptions{})

	require.Contains(t, markup, `<p class="row"><label for="a">`)
	require.Contains(t, markup, `<li id="b-wrap" class="row"><label for="b">`)
}

func TestRender_HoneypotToggle(t *testing.T) {
	withTrap := renderString(t, NewHTML(), contactSchema(), RenderOptions{})
	require.Contains(t, withTrap, `name="webform_hp"`)

	b := model.NewBuilder("nohp").Honeypot(false)
	b.Text("a", "A")
	without := renderString(t, NewHTML(), b.Build(), RenderOptions{})
	require.NotContains(t, without, model.HoneypotField)
}

func TestRender_MessagesAndFlash(t *testing.T) {
	opts := RenderOptions{
		Flash:    &validation.Message{Text: "Thanks!", Class: "success"},
		Messages: []validation.Message{{Text: "<b>Heads up</b>", Class: "notice"}},
	}
	for name, renderer := range map[string]*HTMLRenderer{
		"template": NewHTML(),
		"fallback": NewHTML(WithTemplateRenderer(failingTemplates{})),
	} {
		t.Run(name, func(t *testing.T) {
			markup := renderString(t, renderer, contactSchema(), opts)
			var items []testsupport.Node
			for _, node := range testsupport.MustParseNodes(t, markup) {
				if node.HasClass("webform-message") {
					items = append(items, node)
				}
			}
			require.Len(t, items, 2)
			require.Equal(t, "Thanks!", items[0].Text)
			require.True(t, items[0].HasClass("success"))
			require.Equal(t, "<b>Heads up</b>", items[1].Text)
			require.NotContains(t, markup, "<b>Heads up</b>")

			marker := strings.Index(markup, `name="webform"`)
			block := strings.Index(markup, "webform-messages")
			require.Greater(t, block, marker, "messages follow the marker field")
		})
	}
}

func TestRender_TokenIssuerFailure(t *testing.T) {
	_, err := NewHTML(WithTokenIssuer(failingIssuer{})).Render(context.Background(), contactSchema(), RenderOptions{})
	require.Error(t, err)
}

func TestRender_NoIssuerNoTokenField(t *testing.T) {
	markup := renderString(t, NewHTML(), contactSchema(), RenderOptions{})
	require.NotContains(t, markup, csrf.DefaultFieldName)
}

func TestRender_ExtraHiddenFieldsSkipReservedNames(t *testing.T) {
	markup := renderString(t, NewHTML(), contactSchema(), RenderOptions{
		Hidden: map[string]string{"ref": "home", model.MarkerField: "spoof", "email": "x"},
	})
	require.Contains(t, markup, `<input type="hidden" name="ref" value="home">`)
	require.Equal(t, 1, strings.Count(markup, `name="webform"`))
	require.NotContains(t, markup, `value="spoof"`)
}

func TestRender_LiteralPolicy(t *testing.T) {
	b := model.NewBuilder("lit").Honeypot(false)
	b.HTML(`<p class="lead" onclick="steal()">Hello<script>x()</script></p>`)

	raw := renderString(t, NewHTML(), b.Build(), RenderOptions{})
	require.Contains(t, raw, `onclick="steal()"`)

	clean := renderString(t, NewHTML(WithLiteralPolicy(LiteralPolicy())), b.Build(), RenderOptions{})
	require.Contains(t, clean, `<p class="lead">Hello</p>`)
	require.NotContains(t, clean, "script")
}

func TestRender_ThemeTokensOverrideClasses(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenError: "acme-error",
			TokenForm:  "acme-form",
		},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{TokenError: "acme-error-dark"}},
		},
	}
	selector := &stubThemeSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark", Manifest: manifest}}

	markup := renderString(t, NewHTML(WithTheme(selector, "acme", "dark")), contactSchema(), RenderOptions{})
	require.Contains(t, markup, `class="webform-error acme-error-dark"`)
	require.Contains(t, markup, `class="acme-form"`)
	require.Equal(t, []selectorCall{{name: "acme", variant: "dark"}}, selector.calls)

	failing := &stubThemeSelector{err: errors.New("boom")}
	_, err := NewHTML(WithTheme(failing, "acme", "")).Render(context.Background(), contactSchema(), RenderOptions{})
	require.Error(t, err)
}

func TestRender_ClassOverridesKeepScriptHooks(t *testing.T) {
	schema := model.FormSchema{
		Slug: "hooks",
		Fields: []model.FieldDef{
			{Name: "name", Kind: model.KindText},
			{Name: "when", Kind: model.KindDate, Enhanced: true},
			{Name: "pick", Kind: model.KindSelect, Enhanced: true, Options: []model.Option{{Value: "a"}}},
		},
	}
	r := NewHTML(WithClasses(Classes{Error: "text-red-600", Date: "input-date", Select: "input-select"}))
	markup := renderString(t, r, schema, RenderOptions{Errors: map[string]string{"name": "Nope"}})

	slots := 0
	for _, node := range testsupport.Elements(t, markup, "div") {
		if node.Attrs["data-field"] == "" {
			continue
		}
		slots++
		require.True(t, node.HasClass("webform-error"), "slot %s", node.Attrs["data-field"])
		require.True(t, node.HasClass("text-red-600"), "slot %s", node.Attrs["data-field"])
	}
	require.Equal(t, 3, slots)
	require.Contains(t, markup, `class="webform-error text-red-600" data-field="name">Nope</div>`)

	byName := map[string]testsupport.Node{}
	for _, node := range testsupport.Elements(t, markup, "input") {
		byName[node.Attrs["name"]] = node
	}
	for _, node := range testsupport.Elements(t, markup, "select") {
		byName[node.Attrs["name"]] = node
	}
	require.True(t, byName["when"].HasClass("webform-date"))
	require.True(t, byName["when"].HasClass("input-date"))
	require.True(t, byName["pick"].HasClass("webform-select2"))
	require.True(t, byName["pick"].HasClass("input-select"))
}

func TestRender_StaticSelector(t *testing.T) {
	selector := StaticSelector{Manifest: &theme.Manifest{Name: "acme", Tokens: map[string]string{TokenDate: "acme-date"}}}
	schema := model.FormSchema{Slug: "d", Fields: []model.FieldDef{{Name: "when", Kind: model.KindDate, Enhanced: true}}}
	markup := renderString(t, NewHTML(WithTheme(selector, "", "")), schema, RenderOptions{})
	require.Contains(t, markup, "acme-date")

	_, err := selector.Select("other", "")
	require.Error(t, err)
}

func TestRender_Localizes(t *testing.T) {
	tr := mapTranslator{"Name": "Nombre", "Send": "Enviar", "This field is required": "Campo obligatorio"}
	b := model.NewBuilder("l10n").Honeypot(false)
	b.Text("name", "Name")
	b.Submit("Send")

	markup := renderString(t, NewHTML(), b.Build(), RenderOptions{
		Locale:     "es",
		Translator: tr,
		Errors:     map[string]string{"name": "This field is required"},
	})
	require.Contains(t, markup, ">Nombre</label>")
	require.Contains(t, markup, `value="Enviar"`)
	require.Contains(t, markup, ">Campo obligatorio</div>")
}

func TestRender_DoesNotMutateSchema(t *testing.T) {
	schema := contactSchema()
	before := schema.Clone()
	_ = renderString(t, NewHTML(), schema, RenderOptions{Translator: mapTranslator{"Name": "X"}})
	if diff := cmp.Diff(before, schema); diff != "" {
		t.Fatalf("schema mutated (-before +after):\n%s", diff)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(NewHTML())
	require.Error(t, reg.Register(NewHTML()))

	got, err := reg.Get("")
	require.NoError(t, err)
	require.Equal(t, HTMLName, got.Name())

	_, err = reg.Get("jsx")
	require.ErrorIs(t, err, ErrRendererNotFound)
	require.Error(t, reg.SetDefault("jsx"))
	require.Equal(t, []string{HTMLName}, reg.List())
	require.True(t, reg.Has(HTMLName))
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}

type failingIssuer struct{}

func (failingIssuer) FieldName() string { return "_t" }
func (failingIssuer) Issue(context.Context, string) (string, error) {
	return "", errors.New("no session")
}

type mapTranslator map[string]string

func (m mapTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if value, ok := m[key]; ok {
		return value, nil
	}
	return "", errors.New("missing")
}
