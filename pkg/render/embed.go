package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templatesFS embed.FS

// Templates exposes the bundled chrome templates. Hosts overriding them can
// start from these files.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return templatesFS
	}
	return sub
}

// MessagesTemplate is the template name used for the messages block.
const MessagesTemplate = "messages"
