// Command webform is a development tool for form schema files: it checks
// them, renders them, describes them as OpenAPI, fills them in from a
// terminal, and serves them over HTTP.
//
// Configuration is read, in order of precedence, from flags, WEBFORM_*
// environment variables, and an optional webform.yaml in the working
// directory.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
