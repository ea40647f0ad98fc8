package render

import (
	"errors"
	"io"
)

type failingTemplates struct{}

func (failingTemplates) Render(string, any, ...io.Writer) (string, error) {
	return "", errors.New("template down")
}

func (failingTemplates) RenderTemplate(string, any, ...io.Writer) (string, error) {
	return "", errors.New("template down")
}

func (failingTemplates) RenderString(string, any, ...io.Writer) (string, error) {
	return "", errors.New("template down")
}

func (failingTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (failingTemplates) GlobalContext(any) error {
	return nil
}
