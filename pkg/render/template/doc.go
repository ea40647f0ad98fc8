// Package template defines the template seam the HTML renderer uses for its
// chrome (the messages block). Adapters live in sub-packages.
package template
