package httpform

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes reports the patterns RegisterRoutes installed.
type Routes struct {
	Form string
	Ajax string
}

// AjaxPath returns the async endpoint under basePath. Pass it to the
// renderer so forms post where the handler listens.
func (h *Handler) AjaxPath(basePath string) string {
	return mountPath(basePath, h.ajaxPath)
}

// RegisterRoutes mounts the form handler and the async endpoint under
// basePath on mux.
func (h *Handler) RegisterRoutes(mux Mux, basePath string) (Routes, error) {
	if mux == nil {
		return Routes{}, fmt.Errorf("httpform: missing mux")
	}
	if !strings.Contains(h.formPath, "{slug}") {
		return Routes{}, fmt.Errorf("httpform: form path %q lacks a {slug} wildcard", h.formPath)
	}
	routes := Routes{
		Form: mountPath(basePath, h.formPath),
		Ajax: mountPath(basePath, h.ajaxPath),
	}
	mux.Handle(routes.Form, h)
	mux.Handle(routes.Ajax, h.Ajax())
	return routes, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
