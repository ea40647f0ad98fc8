package openapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-webform/pkg/model"
)

// Version is the OpenAPI version emitted by Document.
const Version = "3.0.3"

// Document builds an OpenAPI document with one submit operation per schema.
// POST schemas are described by a request body, GET schemas by query
// parameters.
func Document(title, version string, schemas []model.FormSchema, opts ...Option) (*openapi3.T, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("openapi: title is required")
	}
	o := newOptions(opts)

	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
	}
	seen := map[string]struct{}{}
	for _, schema := range schemas {
		if _, dup := seen[schema.Slug]; dup {
			return nil, fmt.Errorf("openapi: duplicate schema %q", schema.Slug)
		}
		seen[schema.Slug] = struct{}{}

		op := Operation(schema, opts...)
		doc.AddOperation(o.pathFor(schema.Slug), schema.FormMethod(), op)
	}
	return doc, nil
}

// Operation describes the submit operation of one schema.
func Operation(schema model.FormSchema, opts ...Option) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "submit_" + schema.Slug
	op.Summary = "Submit form " + schema.Slug

	if schema.FormMethod() == model.MethodGet {
		body := SubmissionSchema(schema, opts...)
		required := map[string]struct{}{}
		for _, name := range body.Required {
			required[name] = struct{}{}
		}
		for _, name := range sortedKeys(body.Properties) {
			_, isRequired := required[name]
			op.AddParameter(openapi3.NewQueryParameter(name).
				WithSchema(body.Properties[name].Value).
				WithRequired(isRequired))
		}
	} else {
		op.RequestBody = &openapi3.RequestBodyRef{Value: RequestBody(schema, opts...)}
	}

	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("The form rendered again, or a JSON envelope for async submissions.").
		WithContent(openapi3.Content{
			"text/html":        openapi3.NewMediaType(),
			"application/json": openapi3.NewMediaType().WithSchema(envelopeSchema()),
		}))
	op.AddResponse(http.StatusSeeOther, openapi3.NewResponse().WithDescription("Redirect after a successful submission."))
	op.AddResponse(http.StatusForbidden, openapi3.NewResponse().WithDescription("The anti-forgery token was rejected."))
	op.AddResponse(http.StatusNotFound, openapi3.NewResponse().WithDescription("No form is registered under this slug."))
	return op
}

// envelopeSchema describes the async response body: either a respond object
// or errors plus messages.
func envelopeSchema() *openapi3.Schema {
	pair := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()).WithMinItems(2).WithMaxItems(2)

	respond := openapi3.NewObjectSchema().
		WithProperty("refresh", openapi3.NewBoolSchema()).
		WithProperty("redirect", openapi3.NewStringSchema()).
		WithProperty("message", pair)

	errs := openapi3.NewObjectSchema().WithAdditionalProperties(openapi3.NewStringSchema())

	return openapi3.NewObjectSchema().
		WithProperty("respond", respond).
		WithProperty("errors", errs).
		WithProperty("messages", openapi3.NewArraySchema().WithItems(pair))
}

func sortedKeys(props openapi3.Schemas) []string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
