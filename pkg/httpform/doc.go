// Package httpform glues the webform pipeline to net/http: it parses
// requests into submissions, runs validation, applies the dispatcher's
// effects, and carries one-shot flash messages between requests.
package httpform
