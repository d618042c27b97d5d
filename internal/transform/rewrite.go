package transform

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/preview-labs/prevu/internal/config"
)

// edit replaces the byte range [start, end) with text. Edits never
// overlap: collection skips descending into an already-deleted node, and
// JSX spans are rewritten wholesale by the generator instead of edited.
type edit struct {
	start, end uint32
	text       string
}

// fileTransform carries the per-file rewrite state.
type fileTransform struct {
	path    string
	src     []byte
	typed   bool
	cfg     config.Config
	edits   []edit
	imports []string
	seen    map[string]struct{}
	styles  []string
	jsxUsed bool
	fail    *SyntaxError
}

func (ft *fileTransform) text(n *sitter.Node) string {
	return string(ft.src[n.StartByte():n.EndByte()])
}

func (ft *fileTransform) addImport(spec string) {
	if ft.seen == nil {
		ft.seen = make(map[string]struct{})
	}
	if _, dup := ft.seen[spec]; dup || spec == "" {
		return
	}
	ft.seen[spec] = struct{}{}
	ft.imports = append(ft.imports, spec)
}

func (ft *fileTransform) deleteNode(n *sitter.Node) {
	ft.edits = append(ft.edits, edit{start: n.StartByte(), end: n.EndByte()})
}

// stripQuotes extracts the specifier from a string literal node's text.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// scanModuleRefs walks the top-level statements for import declarations
// and re-exports. Stylesheet imports are removed from the body and
// reported separately; type-only imports are removed entirely.
func (ft *fileTransform) scanModuleRefs(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "import_statement":
			src := n.ChildByFieldName("source")
			if src == nil {
				continue
			}
			spec := stripQuotes(ft.text(src))
			text := ft.text(n)
			if ft.typed && (strings.HasPrefix(text, "import type ") || strings.HasPrefix(text, "import type{")) {
				ft.deleteNode(n)
				continue
			}
			if ft.cfg.IsStylePath(spec) {
				ft.styles = append(ft.styles, spec)
				ft.deleteNode(n)
				continue
			}
			ft.addImport(spec)
		case "export_statement":
			src := n.ChildByFieldName("source")
			if src == nil {
				continue
			}
			text := ft.text(n)
			if ft.typed && (strings.HasPrefix(text, "export type ") || strings.HasPrefix(text, "export type{")) {
				ft.deleteNode(n)
				continue
			}
			ft.addImport(stripQuotes(ft.text(src)))
		}
	}
}

// scanDynamicImports records import("...") call targets. The statements
// stay in the body; the resolution table covers them at load time.
func (ft *fileTransform) scanDynamicImports(n *sitter.Node) {
	if n.Type() == "call_expression" {
		fn := n.Child(0)
		if fn != nil && fn.Type() == "import" {
			if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
				if arg := args.NamedChild(0); arg.Type() == "string" {
					ft.addImport(stripQuotes(ft.text(arg)))
				}
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ft.scanDynamicImports(n.NamedChild(i))
	}
}

// collectTypeEdits gathers deletion edits for TypeScript type-only syntax.
func (ft *fileTransform) collectTypeEdits(n *sitter.Node) {
	switch n.Type() {
	case "type_annotation", "type_parameters", "type_arguments":
		ft.deleteNode(n)
		return
	case "type_alias_declaration", "interface_declaration", "ambient_declaration":
		ft.deleteNode(n)
		return
	case "export_statement":
		// `export interface Foo {}` must drop the whole statement, not
		// leave a dangling `export`.
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			switch decl.Type() {
			case "type_alias_declaration", "interface_declaration":
				ft.deleteNode(n)
				return
			}
		}
	case "as_expression", "satisfies_expression", "non_null_expression":
		// Keep the value expression, drop the type suffix.
		val := n.Child(0)
		if val != nil {
			ft.edits = append(ft.edits, edit{start: val.EndByte(), end: n.EndByte()})
			ft.collectTypeEdits(val)
		}
		return
	case "optional_parameter":
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.Type() == "?" {
				ft.deleteNode(c)
			}
		}
	case "enum_declaration":
		ft.fail = &SyntaxError{
			Path:    ft.path,
			Line:    uint32(n.StartPoint().Row) + 1,
			Col:     uint32(n.StartPoint().Column) + 1,
			Message: "TypeScript enums are not supported in preview sources",
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ft.collectTypeEdits(n.NamedChild(i))
	}
}

// renderRaw emits the source span [start, end) with every edit that falls
// wholly inside it applied. Edits are sorted by start before rendering.
func (ft *fileTransform) renderRaw(start, end uint32) string {
	var sb strings.Builder
	pos := start
	for _, e := range ft.edits {
		if e.start < pos || e.end > end {
			continue
		}
		sb.Write(ft.src[pos:e.start])
		sb.WriteString(e.text)
		pos = e.end
	}
	if pos < end {
		sb.Write(ft.src[pos:end])
	}
	return sb.String()
}

func isJSXNode(n *sitter.Node) bool {
	switch n.Type() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
		return true
	}
	return false
}

// maximalJSX collects the outermost JSX nodes under n without descending
// into them; the element generator handles their interiors.
func maximalJSX(n *sitter.Node, out *[]*sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if isJSXNode(c) {
			*out = append(*out, c)
			continue
		}
		maximalJSX(c, out)
	}
}

// renderNode emits executable source for an arbitrary node: raw text with
// type edits applied and every embedded JSX subtree rewritten.
func (ft *fileTransform) renderNode(n *sitter.Node) string {
	if isJSXNode(n) {
		ft.jsxUsed = true
		return ft.genElement(n)
	}
	var jsxs []*sitter.Node
	maximalJSX(n, &jsxs)
	if len(jsxs) == 0 {
		return ft.renderRaw(n.StartByte(), n.EndByte())
	}
	var sb strings.Builder
	pos := n.StartByte()
	for _, j := range jsxs {
		ft.jsxUsed = true
		sb.WriteString(ft.renderRaw(pos, j.StartByte()))
		sb.WriteString(ft.genElement(j))
		pos = j.EndByte()
	}
	sb.WriteString(ft.renderRaw(pos, n.EndByte()))
	return sb.String()
}
