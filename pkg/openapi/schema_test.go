package openapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-webform/pkg/model"
)

func contact() model.FormSchema {
	b := model.NewBuilder("contact")
	b.Text("name", "Name").Required().Rule("min_length", "2").Rule("max_length", "40")
	b.Email("email", "Email").Required().Rule("email")
	b.Select("topic", "Topic", model.Option{Value: "sales"}, model.Option{Value: "help"})
	b.Checkbox("agree", "I agree", "")
	b.Number("age", "Age").Rule("number")
	b.Date("when", "When").Rule("min_date", "2024-01-01")
	b.HTML("<hr>")
	b.Submit("Send")
	return b.Build()
}

func TestSubmissionSchema(t *testing.T) {
	schema := SubmissionSchema(contact(), WithTokenField("_webform_token"))

	if diff := cmp.Diff([]string{"webform", "_webform_token", "name", "email"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	props := schema.Properties
	require.NotContains(t, props, "html_1")
	require.NotContains(t, props, "submit")
	require.Equal(t, []any{"contact"}, props["webform"].Value.Enum)

	name := props["name"].Value
	require.Equal(t, "Name", name.Title)
	require.EqualValues(t, 3, name.MinLength)
	require.NotNil(t, name.MaxLength)
	require.EqualValues(t, 39, *name.MaxLength)

	require.Equal(t, "email", props["email"].Value.Format)
	require.Equal(t, []any{"sales", "help"}, props["topic"].Value.Enum)
	require.Equal(t, []any{"1"}, props["agree"].Value.Enum)
	require.Equal(t, "[0-9]", props["age"].Value.Pattern)
	require.Equal(t, "date", props["when"].Value.Format)
	require.Equal(t, "Must be after 2024-01-01.", props["when"].Value.Description)

	trap := props[model.HoneypotField].Value
	require.NotNil(t, trap.MaxLength)
	require.Zero(t, *trap.MaxLength)
}

func TestSubmissionSchema_NoHoneypotNoToken(t *testing.T) {
	schema := contact()
	off := false
	schema.Honeypot = &off

	props := SubmissionSchema(schema).Properties
	require.NotContains(t, props, model.HoneypotField)
	require.NotContains(t, props, "_webform_token")
}

func TestRequestBody_UsesEnctype(t *testing.T) {
	body := RequestBody(contact())
	require.True(t, body.Required)
	require.Contains(t, body.Content, model.EnctypeURLEncoded)

	upload := contact()
	upload.Enctype = model.EnctypeMultipart
	require.Contains(t, RequestBody(upload).Content, model.EnctypeMultipart)
}

func TestDocument_Validates(t *testing.T) {
	search := model.NewBuilder("search").Method(model.MethodGet).Honeypot(false)
	search.Text("q", "Query").Required()

	doc, err := Document("Forms", "1.0.0", []model.FormSchema{contact(), search.Build()},
		WithPath(func(slug string) string { return "/f/" + slug }),
	)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	post := doc.Paths.Find("/f/contact").Post
	require.NotNil(t, post)
	require.Equal(t, "submit_contact", post.OperationID)
	require.NotNil(t, post.RequestBody)

	get := doc.Paths.Find("/f/search").Get
	require.NotNil(t, get)
	var names []string
	for _, param := range get.Parameters {
		names = append(names, param.Value.Name)
		if param.Value.Name == "q" {
			require.True(t, param.Value.Required)
		}
	}
	require.Equal(t, []string{"q", "webform"}, names)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"operationId":"submit_search"`)
}

func TestDocument_Errors(t *testing.T) {
	_, err := Document("", "1", nil)
	require.Error(t, err)

	_, err = Document("Forms", "1", []model.FormSchema{contact(), contact()})
	require.Error(t, err)
}
