package httpform

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-webform/pkg/model"
	"github.com/goliatone/go-webform/pkg/validation"
)

// Fields posted by the client script for async submissions.
const (
	AsyncActionField = model.ActionField
	AsyncDataField   = model.DataField
)

const maxMultipartMemory = 32 << 20

// ParseSubmission reads r into a Submission for schema. A POST carrying both
// action and data is an async submission whose payload is the URL-encoded
// data field. Otherwise the payload is picked by the schema's method: the
// query for GET schemas, the body for POST schemas. tokenField names the
// anti-forgery field.
func ParseSubmission(r *http.Request, schema model.FormSchema, tokenField string) (*validation.Submission, error) {
	if r == nil {
		return nil, fmt.Errorf("httpform: request is required")
	}

	body := url.Values{}
	if r.Method == http.MethodPost {
		var err error
		if body, err = parseBody(r); err != nil {
			return nil, err
		}
		if body.Has(AsyncActionField) && body.Has(AsyncDataField) {
			data, err := url.ParseQuery(body.Get(AsyncDataField))
			if err != nil {
				return nil, fmt.Errorf("httpform: parse async payload for %q: %w", schema.Slug, err)
			}
			return validation.NewSubmission(data, true, data.Get(tokenField)), nil
		}
	}

	values := body
	if schema.FormMethod() == model.MethodGet {
		values = r.URL.Query()
	}
	return validation.NewSubmission(values, false, values.Get(tokenField)), nil
}

func parseBody(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), model.EnctypeMultipart) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, fmt.Errorf("httpform: parse multipart body: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("httpform: parse body: %w", err)
	}
	return r.PostForm, nil
}

// asyncSlug returns the schema slug an async request targets.
func asyncSlug(r *http.Request) (string, error) {
	values, err := parseBody(r)
	if err != nil {
		return "", err
	}
	slug := strings.TrimSpace(values.Get(AsyncActionField))
	if slug == "" || !values.Has(AsyncDataField) {
		return "", fmt.Errorf("httpform: async request requires %q and %q", AsyncActionField, AsyncDataField)
	}
	return slug, nil
}
