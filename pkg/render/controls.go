package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-webform/pkg/model"
)

// pass carries the inputs of one Render call.
type pass struct {
	schema  model.FormSchema
	opts    RenderOptions
	errors  map[string]string
	classes Classes
	policy  *bluemonday.Policy
}

var defaultWrap = model.Wrap{Tag: "div"}

func (p *pass) openFieldset(b *strings.Builder, slug string) {
	def, _ := p.schema.Fieldset(slug)
	b.WriteString("<fieldset")
	attrIf(b, "id", def.ID)
	attrIf(b, "class", def.Class)
	attrIf(b, "style", def.Style)
	attr(b, "data-fieldset", slug)
	flag(b, "disabled", def.Disabled)
	b.WriteByte('>')
	if def.Legend != "" {
		b.WriteString("<legend>")
		b.WriteString(html.EscapeString(def.Legend))
		b.WriteString("</legend>")
	}
}

func (p *pass) field(b *strings.Builder, field model.FieldDef) {
	switch field.Kind {
	case model.KindHidden:
		writeHidden(b, field.Name, p.value(field))
		return
	case model.KindHTML:
		if p.policy != nil {
			b.WriteString(p.policy.Sanitize(field.Content))
		} else {
			b.WriteString(field.Content)
		}
		return
	}

	wrap := field.Wrap.Merge(p.schema.Wrap).Merge(defaultWrap)
	b.WriteByte('<')
	b.WriteString(wrap.Tag)
	attrIf(b, "id", wrap.ID)
	attrIf(b, "class", wrap.Class)
	attrIf(b, "style", wrap.Style)
	b.WriteByte('>')

	if p.showsLabel(field) {
		b.WriteString("<label")
		if field.Kind != model.KindRadio {
			attr(b, "for", controlID(field))
		}
		b.WriteByte('>')
		b.WriteString(html.EscapeString(field.Label))
		b.WriteString("</label>")
	}

	p.control(b, field)
	p.errorSlot(b, field.Name)

	b.WriteString("</")
	b.WriteString(wrap.Tag)
	b.WriteByte('>')
}

func (p *pass) showsLabel(field model.FieldDef) bool {
	if field.Label == "" {
		return false
	}
	switch field.Kind {
	case model.KindCheckbox, model.KindButton, model.KindSubmit:
		return false
	default:
		return true
	}
}

func (p *pass) errorSlot(b *strings.Builder, name string) {
	b.WriteString("<div")
	attr(b, "class", joinClasses(string(ClassError), p.classes.Error))
	attr(b, "data-field", name)
	message, ok := p.errors[name]
	if !ok || message == "" {
		attr(b, "style", "display:none")
		b.WriteString("></div>")
		return
	}
	b.WriteByte('>')
	b.WriteString(html.EscapeString(LocalizeText(message, p.opts)))
	b.WriteString("</div>")
}

// control dispatches on the closed kind set; unknown kinds render as text.
func (p *pass) control(b *strings.Builder, field model.FieldDef) {
	switch field.Kind {
	case model.KindTextarea:
		p.textarea(b, field)
	case model.KindSelect:
		p.selectBox(b, field)
	case model.KindCheckbox:
		p.checkbox(b, field)
	case model.KindRadio:
		p.radio(b, field)
	case model.KindButton:
		p.button(b, field)
	case model.KindSubmit:
		p.submit(b, field)
	case model.KindDate:
		p.date(b, field)
	case model.KindEmail, model.KindTel, model.KindNumber, model.KindPassword:
		p.input(b, field, string(field.Kind), field.Class)
	default:
		p.input(b, field, string(model.KindText), field.Class)
	}
}

func (p *pass) value(field model.FieldDef) string {
	if field.Value != "" {
		return field.Value
	}
	return p.opts.Values[field.Name]
}

func (p *pass) common(b *strings.Builder, field model.FieldDef, class string) {
	attr(b, "name", field.Name)
	attr(b, "id", controlID(field))
	attrIf(b, "class", class)
	attrIf(b, "style", field.Style)
	attrIf(b, "data-widget", field.Widget)
	flag(b, "required", field.Required)
	flag(b, "autofocus", field.Autofocus)
}

func (p *pass) input(b *strings.Builder, field model.FieldDef, inputType, class string) {
	b.WriteString("<input")
	attr(b, "type", inputType)
	p.common(b, field, class)
	if field.Kind != model.KindPassword {
		attrIf(b, "value", p.value(field))
	}
	attrIf(b, "placeholder", field.Placeholder)
	attrIf(b, "min", field.Min)
	attrIf(b, "max", field.Max)
	b.WriteByte('>')
}

func (p *pass) textarea(b *strings.Builder, field model.FieldDef) {
	b.WriteString("<textarea")
	p.common(b, field, field.Class)
	attrIf(b, "placeholder", field.Placeholder)
	b.WriteByte('>')
	b.WriteString(html.EscapeString(p.value(field)))
	b.WriteString("</textarea>")
}

func (p *pass) selectBox(b *strings.Builder, field model.FieldDef) {
	class := field.Class
	if enhanced(field) {
		class = joinClasses(class, string(ClassSelect), p.classes.Select)
	}
	current := p.value(field)

	b.WriteString("<select")
	p.common(b, field, class)
	b.WriteByte('>')
	if field.EmptyOption != nil {
		b.WriteString(`<option value="">`)
		b.WriteString(html.EscapeString(*field.EmptyOption))
		b.WriteString("</option>")
	}
	for _, opt := range field.Options {
		b.WriteString("<option")
		attr(b, "value", opt.Value)
		flag(b, "selected", opt.Value == current)
		b.WriteByte('>')
		b.WriteString(html.EscapeString(optionLabel(opt)))
		b.WriteString("</option>")
	}
	b.WriteString("</select>")
}

func (p *pass) checkbox(b *strings.Builder, field model.FieldDef) {
	value := field.Value
	if value == "" {
		value = "1"
	}
	b.WriteString("<label><input type=\"checkbox\"")
	p.common(b, field, field.Class)
	attr(b, "value", value)
	flag(b, "checked", p.opts.Values[field.Name] == value)
	b.WriteByte('>')
	if field.Label != "" {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(field.Label))
	}
	b.WriteString("</label>")
}

func (p *pass) radio(b *strings.Builder, field model.FieldDef) {
	current := p.value(field)
	for _, opt := range field.Options {
		id := radioID(field, opt.Value)
		b.WriteString("<input type=\"radio\"")
		attr(b, "name", field.Name)
		attr(b, "id", id)
		attrIf(b, "class", field.Class)
		attrIf(b, "style", field.Style)
		attr(b, "value", opt.Value)
		flag(b, "required", field.Required)
		flag(b, "checked", opt.Value == current)
		b.WriteString("><label")
		attr(b, "for", id)
		b.WriteByte('>')
		b.WriteString(html.EscapeString(optionLabel(opt)))
		b.WriteString("</label>")
	}
}

func (p *pass) button(b *strings.Builder, field model.FieldDef) {
	b.WriteString("<button type=\"button\"")
	p.common(b, field, field.Class)
	b.WriteByte('>')
	b.WriteString(html.EscapeString(buttonText(field, string(model.KindButton))))
	b.WriteString("</button>")
}

func (p *pass) submit(b *strings.Builder, field model.FieldDef) {
	b.WriteString("<input type=\"submit\"")
	p.common(b, field, field.Class)
	attr(b, "value", buttonText(field, string(model.KindSubmit)))
	b.WriteByte('>')
}

func (p *pass) date(b *strings.Builder, field model.FieldDef) {
	if !enhanced(field) {
		p.input(b, field, string(model.KindDate), field.Class)
		return
	}
	b.WriteString("<input type=\"text\"")
	p.common(b, field, joinClasses(field.Class, string(ClassDate), p.classes.Date))
	attrIf(b, "value", p.value(field))
	attrIf(b, "placeholder", field.Placeholder)
	attrIf(b, "min", field.Min)
	attrIf(b, "max", field.Max)
	attrIf(b, "data-date-format", field.DateFormat)
	b.WriteByte('>')
}

func enhanced(field model.FieldDef) bool {
	return field.Enhanced || strings.TrimSpace(field.Widget) != ""
}

func buttonText(field model.FieldDef, fallback string) string {
	if field.Value != "" {
		return field.Value
	}
	if field.Label != "" {
		return field.Label
	}
	return fallback
}

func optionLabel(opt model.Option) string {
	if opt.Label != "" {
		return opt.Label
	}
	return opt.Value
}

func controlID(field model.FieldDef) string {
	if field.ID != "" {
		return field.ID
	}
	return field.Name
}

func radioID(field model.FieldDef, value string) string {
	return controlID(field) + "_" + strings.Join(strings.Fields(value), "-")
}
