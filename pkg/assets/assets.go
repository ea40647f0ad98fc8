// Package assets ships the browser script that submits async forms and
// applies response envelopes to the page.
package assets

import (
	"embed"
	"html"
	"io/fs"
)

// ScriptName is the file name of the client script inside FS.
const ScriptName = "webform.js"

//go:embed static/*.js
var embedded embed.FS

// FS exposes the bundled scripts so hosts can serve them without a build
// step.
//
// Typical mount:
//
//	mux.Handle("/webform/assets/",
//	  http.StripPrefix("/webform/assets/",
//	    http.FileServerFS(assets.FS()),
//	  ),
//	)
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		return embedded
	}
	return sub
}

// Script returns the client script source.
func Script() ([]byte, error) {
	return fs.ReadFile(FS(), ScriptName)
}

// ScriptTag returns a deferred script element loading src.
func ScriptTag(src string) string {
	return `<script src="` + html.EscapeString(src) + `" defer></script>`
}
