// Package openapi describes form submissions as OpenAPI 3 request bodies so
// form endpoints can be documented next to the rest of an HTTP API.
package openapi
