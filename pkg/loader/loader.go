// Package loader reads form schemas from JSON or YAML files.
package loader

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-webform/pkg/model"
)

// Registrar accepts loaded schemas. *registry.Registry satisfies it.
type Registrar interface {
	Register(schema model.FormSchema) error
}

// Document is the on-disk layout. A file either lists several schemas under
// forms or is a single schema at the top level.
type Document struct {
	Forms []model.FormSchema `json:"forms" yaml:"forms"`
}

// LoadFS walks fsys and parses every JSON/YAML schema file. Schemas are
// returned ordered by file path, then by position within the file. A nil
// fsys yields no schemas.
func LoadFS(fsys fs.FS) ([]model.FormSchema, error) {
	if fsys == nil {
		return nil, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: walk: %w", err)
	}
	sort.Strings(paths)

	var out []model.FormSchema
	seen := map[string]string{}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("loader: read %s: %w", path, err)
		}
		schemas, err := Parse(data, path)
		if err != nil {
			return nil, err
		}
		for _, schema := range schemas {
			if prev, dup := seen[schema.Slug]; dup {
				return nil, fmt.Errorf("loader: duplicate schema %q (files %s and %s)", schema.Slug, prev, path)
			}
			seen[schema.Slug] = path
			out = append(out, schema)
		}
	}
	return out, nil
}

// RegisterFS loads every schema in fsys into reg and returns the slugs
// registered.
func RegisterFS(reg Registrar, fsys fs.FS) ([]string, error) {
	if reg == nil {
		return nil, fmt.Errorf("loader: registry is required")
	}
	schemas, err := LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(schemas))
	for _, schema := range schemas {
		if err := reg.Register(schema); err != nil {
			return slugs, fmt.Errorf("loader: register %q: %w", schema.Slug, err)
		}
		slugs = append(slugs, schema.Slug)
	}
	return slugs, nil
}

// Parse decodes one file. source is only used in error messages.
func Parse(data []byte, source string) ([]model.FormSchema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("loader: file %s is empty", source)
	}

	var doc Document
	if err := decode(data, &doc); err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", source, err)
	}
	if len(doc.Forms) == 0 {
		var single model.FormSchema
		if err := decode(data, &single); err != nil {
			return nil, fmt.Errorf("loader: parse %s: %w", source, err)
		}
		if strings.TrimSpace(single.Slug) == "" {
			return nil, fmt.Errorf("loader: file %s defines no forms", source)
		}
		doc.Forms = []model.FormSchema{single}
	}

	for idx := range doc.Forms {
		if strings.TrimSpace(doc.Forms[idx].Slug) == "" {
			return nil, fmt.Errorf("loader: file %s form #%d has an empty slug", source, idx)
		}
		normalise(&doc.Forms[idx])
	}
	return doc.Forms, nil
}

func decode(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("invalid JSON or YAML: %w", err)
	}
	return nil
}

// normalise maps file spellings onto the model: kind aliases, upper-case
// methods, and fieldset slugs taken from their map keys.
func normalise(schema *model.FormSchema) {
	schema.Slug = strings.TrimSpace(schema.Slug)
	schema.Method = strings.ToUpper(strings.TrimSpace(schema.Method))
	for idx := range schema.Fields {
		field := &schema.Fields[idx]
		field.Kind = model.ParseFieldKind(string(field.Kind))
		for call := range field.Rules {
			field.Rules[call].Name = strings.TrimSpace(field.Rules[call].Name)
		}
	}
	for key, def := range schema.Fieldsets {
		if def.Slug == "" {
			def.Slug = key
			schema.Fieldsets[key] = def
		}
	}
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
