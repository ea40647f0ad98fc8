package render

import (
	"context"

	"github.com/goliatone/go-webform/pkg/model"
)

// Renderer converts a FormSchema into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, schema model.FormSchema, options RenderOptions) ([]byte, error)
}
