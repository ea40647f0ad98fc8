package respond

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-webform/pkg/validation"
)

func TestEnvelopeShapes(t *testing.T) {
	cases := []struct {
		name string
		env  Envelope
		want string
	}{
		{"refresh", Refresh{}, `{"respond":{"refresh":true}}`},
		{"redirect", Redirect{URL: "/thanks"}, `{"respond":{"redirect":"/thanks"}}`},
		{"message", Message{Text: "Saved", Class: "notice success"}, `{"respond":{"message":["Saved","notice success"]}}`},
		{"errors", Errors{
			Fields:   map[string]string{"email": "Please enter a valid email"},
			Messages: []validation.Message{{Text: "Check the form", Class: "error"}},
		}, `{"errors":{"email":"Please enter a valid email"},"messages":[["Check the form","error"]]}`},
		{"empty errors", Errors{}, `{"errors":{},"messages":[]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.env)
			require.NoError(t, err)
			require.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	envelopes := []Envelope{
		Refresh{},
		Redirect{URL: "/done?x=1&y=<2>"},
		Message{Text: "Hi", Class: "a b"},
		Errors{
			Fields:   map[string]string{"a": "bad"},
			Messages: []validation.Message{{Text: "m", Class: "c"}},
		},
	}
	for _, env := range envelopes {
		data, err := json.Marshal(env)
		require.NoError(t, err)
		decoded, err := Decode(data)
		require.NoError(t, err)
		if diff := cmp.Diff(env, decoded); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, body := range []string{"", "nope", `{}`, `{"respond":{"dance":true}}`} {
		_, err := Decode([]byte(body))
		require.Error(t, err, "body %q", body)
	}
}

func TestJoinClasses(t *testing.T) {
	require.Equal(t, "notice success big", JoinClasses("notice", " success  big ", ""))
}
