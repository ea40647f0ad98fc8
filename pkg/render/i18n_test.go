package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func TestLocalizeSchema_TranslatesAndFallsBack(t *testing.T) {
	empty := "Choose"
	schema := model.FormSchema{
		Slug: "thing",
		Fieldsets: map[string]model.FieldsetDef{
			"main": {Slug: "main", Legend: "Main"},
		},
		Fields: []model.FieldDef{
			{
				Name:        "name",
				Kind:        model.KindText,
				Label:       "Name",
				Placeholder: "Enter name",
				Rules:       []model.RuleCall{{Name: "required", Message: "Needed"}},
				Fieldset:    "main",
			},
			{
				Name:        "kind",
				Kind:        model.KindSelect,
				Label:       "Kind",
				EmptyOption: &empty,
				Options:     []model.Option{{Value: "a", Label: "Alpha"}},
			},
			{Name: "submit", Kind: model.KindSubmit, Value: "Save"},
			{Name: "token", Kind: model.KindHidden, Value: "Save"},
		},
	}

	render.LocalizeSchema(&schema, render.RenderOptions{
		Locale: "es",
		Translator: stubTranslator{
			"Name":   "Nombre",
			"Needed": "Obligatorio",
			"Choose": "Elegir",
			"Alpha":  "Alfa",
			"Save":   "Guardar",
			"Main":   "Principal",
		},
	})

	name := schema.Fields[0]
	if name.Label != "Nombre" || name.Placeholder != "Enter name" || name.Rules[0].Message != "Obligatorio" {
		t.Fatalf("unexpected localized field: %#v", name)
	}
	if *schema.Fields[1].EmptyOption != "Elegir" || schema.Fields[1].Options[0].Label != "Alfa" {
		t.Fatalf("unexpected localized select: %#v", schema.Fields[1])
	}
	if schema.Fields[2].Value != "Guardar" {
		t.Fatalf("expected submit text to be translated, got %q", schema.Fields[2].Value)
	}
	if schema.Fields[3].Value != "Save" {
		t.Fatalf("hidden values must not be translated, got %q", schema.Fields[3].Value)
	}
	if schema.Fieldsets["main"].Legend != "Principal" {
		t.Fatalf("expected legend to be translated, got %q", schema.Fieldsets["main"].Legend)
	}
	if empty != "Choose" {
		t.Fatalf("empty option pointer target was mutated")
	}
}

func TestLocalizeText_MissingHandler(t *testing.T) {
	var calls []string
	opts := render.RenderOptions{
		Locale:     "fr",
		Translator: stubTranslator{},
		OnMissing: func(locale, key string, _ []any, err error) string {
			calls = append(calls, locale+":"+key)
			if err == nil {
				t.Fatalf("expected the translator error to be forwarded")
			}
			return "[" + key + "]"
		},
	}

	if got := render.LocalizeText("Hello", opts); got != "[Hello]" {
		t.Fatalf("unexpected fallback %q", got)
	}
	if got := render.LocalizeText("   ", opts); got != "   " {
		t.Fatalf("blank keys pass through, got %q", got)
	}
	if diff := cmp.Diff([]string{"fr:Hello"}, calls); diff != "" {
		t.Fatalf("handler calls mismatch (-want +got):\n%s", diff)
	}

	if got := render.LocalizeText("Hello", render.RenderOptions{}); got != "Hello" {
		t.Fatalf("no translator leaves text untouched, got %q", got)
	}
}
