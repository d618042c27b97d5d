package transform

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// genElement rewrites one JSX subtree into a React.createElement call.
// Nested JSX (in children, attribute values, or embedded expressions) is
// handled recursively through renderNode.
func (ft *fileTransform) genElement(n *sitter.Node) string {
	switch n.Type() {
	case "jsx_self_closing_element":
		tag := ft.tagExpr(n.ChildByFieldName("name"))
		return "React.createElement(" + tag + ", " + ft.genProps(n) + ")"
	case "jsx_element":
		open := n.NamedChild(0) // jsx_opening_element
		tag := ft.tagExpr(open.ChildByFieldName("name"))
		call := "React.createElement(" + tag + ", " + ft.genProps(open)
		for _, child := range ft.genChildren(n, 1, int(n.NamedChildCount())-1) {
			call += ", " + child
		}
		return call + ")"
	case "jsx_fragment":
		call := "React.createElement(React.Fragment, null"
		for _, child := range ft.genChildren(n, 0, int(n.NamedChildCount())) {
			call += ", " + child
		}
		return call + ")"
	}
	// Unreachable for well-formed input; emit the raw span as a fallback.
	return ft.renderRaw(n.StartByte(), n.EndByte())
}

// tagExpr turns a JSX element name into the createElement tag argument:
// lowercase simple identifiers become intrinsic tag strings, everything
// else (components, member expressions, namespaced names) passes through
// as an expression.
func (ft *fileTransform) tagExpr(name *sitter.Node) string {
	if name == nil {
		return `"div"`
	}
	text := ft.text(name)
	if isIntrinsicTag(text) {
		return strconv.Quote(text)
	}
	return text
}

func isIntrinsicTag(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	if c < 'a' || c > 'z' {
		return false
	}
	// Dashed and namespaced names are intrinsic too (web components, svg).
	return !strings.Contains(name, ".")
}

// genProps renders the props argument from a (self-closing or opening)
// element's attribute children. No attributes yields "null".
func (ft *fileTransform) genProps(el *sitter.Node) string {
	var entries []string
	for i := 0; i < int(el.NamedChildCount()); i++ {
		attr := el.NamedChild(i)
		switch attr.Type() {
		case "jsx_attribute":
			entries = append(entries, ft.genAttribute(attr))
		case "jsx_expression":
			// Spread attribute: {...props}
			if inner := attr.NamedChild(0); inner != nil {
				entries = append(entries, ft.renderNode(inner))
			}
		}
	}
	if len(entries) == 0 {
		return "null"
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

func (ft *fileTransform) genAttribute(attr *sitter.Node) string {
	name := attr.NamedChild(0)
	key := strconv.Quote(ft.text(name))
	if attr.NamedChildCount() == 1 {
		return key + ": true"
	}
	value := attr.NamedChild(int(attr.NamedChildCount()) - 1)
	switch value.Type() {
	case "string":
		return key + ": " + ft.text(value)
	case "jsx_expression":
		if inner := value.NamedChild(0); inner != nil {
			return key + ": " + ft.renderNode(inner)
		}
		return key + ": undefined"
	default:
		// jsx_element as attribute value
		return key + ": " + ft.renderNode(value)
	}
}

// genChildren renders the child arguments for an element or fragment.
// JSX text collapses interior whitespace; empty runs and comment-only
// expression containers are dropped.
func (ft *fileTransform) genChildren(n *sitter.Node, from, to int) []string {
	var out []string
	for i := from; i < to; i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "jsx_text", "html_character_reference":
			collapsed := strings.Join(strings.Fields(ft.text(c)), " ")
			if collapsed != "" {
				out = append(out, strconv.Quote(collapsed))
			}
		case "jsx_expression":
			inner := c.NamedChild(0)
			if inner == nil || inner.Type() == "comment" {
				continue
			}
			out = append(out, ft.renderNode(inner))
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			out = append(out, ft.genElement(c))
		}
	}
	return out
}
