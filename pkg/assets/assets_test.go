package assets

import (
	"io/fs"
	"strings"
	"testing"
)

func TestFSContainsScript(t *testing.T) {
	data, err := fs.ReadFile(FS(), ScriptName)
	if err != nil {
		t.Fatalf("expected client script to be readable: %v", err)
	}
	script := string(data)
	for _, want := range []string{
		`form[data-webform-async="1"]`,
		"webform-is-submitted",
		"data-webform-endpoint",
		".webform-error[data-field]",
		"webform:enhance",
		"console.error",
	} {
		if !strings.Contains(script, want) {
			t.Fatalf("expected script to reference %q", want)
		}
	}
}

func TestScriptMatchesFS(t *testing.T) {
	data, err := Script()
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty script")
	}
}

func TestScriptTagEscapes(t *testing.T) {
	got := ScriptTag(`/assets/webform.js?v="1"`)
	want := `<script src="/assets/webform.js?v=&#34;1&#34;" defer></script>`
	if got != want {
		t.Fatalf("unexpected tag: %s", got)
	}
}
