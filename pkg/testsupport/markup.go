package testsupport

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// Node is a flattened view of a parsed element.
type Node struct {
	Tag   string
	Attrs map[string]string
	Text  string
}

// Attr returns an attribute value and whether it was present.
func (n Node) Attr(name string) (string, bool) {
	value, ok := n.Attrs[name]
	return value, ok
}

// HasClass reports whether the class attribute lists class.
func (n Node) HasClass(class string) bool {
	for _, candidate := range strings.Fields(n.Attrs["class"]) {
		if candidate == class {
			return true
		}
	}
	return false
}

// MustParseNodes parses an HTML fragment and returns every element in
// document order.
func MustParseNodes(t *testing.T, markup string) []Node {
	t.Helper()

	root, err := html.Parse(strings.NewReader("<!doctype html><html><body>" + markup + "</body></html>"))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}

	var nodes []Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			node := Node{Tag: n.Data, Attrs: make(map[string]string, len(n.Attr))}
			for _, attr := range n.Attr {
				node.Attrs[attr.Key] = attr.Val
			}
			node.Text = textContent(n)
			nodes = append(nodes, node)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return nodes
}

// Elements filters parsed nodes by tag name.
func Elements(t *testing.T, markup, tag string) []Node {
	t.Helper()
	var out []Node
	for _, node := range MustParseNodes(t, markup) {
		if node.Tag == tag {
			out = append(out, node)
		}
	}
	return out
}

// FieldNames returns the sorted, de-duplicated name attributes of every
// input, select, textarea, and button in markup.
func FieldNames(t *testing.T, markup string) []string {
	t.Helper()
	seen := map[string]struct{}{}
	for _, node := range MustParseNodes(t, markup) {
		switch node.Tag {
		case "input", "select", "textarea", "button":
		default:
			continue
		}
		if name, ok := node.Attr("name"); ok && name != "" {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
