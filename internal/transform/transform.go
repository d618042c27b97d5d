// Package transform converts one in-memory component source file into an
// executable module body plus a manifest of its unresolved references.
// The transform is syntactic: tree-sitter parses the source, JSX elements
// are rewritten to React.createElement calls, TypeScript type syntax is
// stripped, and stylesheet imports are lifted out of the executable body.
// The output is not guaranteed byte-compatible with any particular
// toolchain, only structurally equivalent.
package transform

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/preview-labs/prevu/internal/config"
)

// Result is the successful output for one source file.
type Result struct {
	Body         string   // executable module body
	Imports      []string // executable reference specifiers, in order, deduped
	StyleImports []string // stylesheet specifiers stripped from the body
}

// SyntaxError describes a failed transform. Line and Col are 1-based;
// zero means the position is unknown.
type SyntaxError struct {
	Path    string
	Line    uint32
	Col     uint32
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Transformer turns source text into executable module bodies. Stateless
// per call; safe to reuse across files.
type Transformer struct {
	cfg config.Config
}

func New(cfg config.Config) *Transformer {
	return &Transformer{cfg: cfg}
}

var reactImportRE = regexp.MustCompile(`import\s+(\*\s+as\s+)?React\b`)

// Transform parses and rewrites one file. Exactly one of the results is
// non-nil. A syntax error in one file never panics or aborts the caller's
// loop over other files.
func (t *Transformer) Transform(path, source string) (*Result, *SyntaxError) {
	lang, typed, ok := languageForPath(path)
	if !ok {
		return nil, &SyntaxError{Path: path, Message: "unrecognized source extension"}
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return nil, &SyntaxError{Path: path, Message: err.Error()}
	}
	root := tree.RootNode()
	if root == nil {
		return nil, &SyntaxError{Path: path, Message: "parser returned no syntax tree"}
	}
	if root.HasError() {
		return nil, t.describeError(path, source, root)
	}

	ft := &fileTransform{
		path:  path,
		src:   []byte(source),
		typed: typed,
		cfg:   t.cfg,
	}
	ft.scanModuleRefs(root)
	ft.scanDynamicImports(root)
	if typed {
		ft.collectTypeEdits(root)
	}
	if ft.fail != nil {
		return nil, ft.fail
	}
	sort.Slice(ft.edits, func(i, j int) bool { return ft.edits[i].start < ft.edits[j].start })

	body := ft.renderNode(root)
	if ft.jsxUsed && !reactImportRE.MatchString(body) {
		body = "import React from \"react\";\n" + body
		ft.addImport("react")
	}

	return &Result{
		Body:         body,
		Imports:      ft.imports,
		StyleImports: ft.styles,
	}, nil
}

// describeError locates the first ERROR or MISSING node and reports its
// position, the way the write-validation path does.
func (t *Transformer) describeError(path, source string, root *sitter.Node) *SyntaxError {
	n := findFirstError(root)
	if n == nil {
		return &SyntaxError{Path: path, Line: 1, Col: 1, Message: "syntax error"}
	}
	msg := "syntax error"
	if n.IsMissing() {
		msg = fmt.Sprintf("missing %q", n.Type())
	} else if snippet := errorSnippet(source, n); snippet != "" {
		msg = fmt.Sprintf("unexpected %q", snippet)
	}
	return &SyntaxError{
		Path:    path,
		Line:    uint32(n.StartPoint().Row) + 1,
		Col:     uint32(n.StartPoint().Column) + 1,
		Message: msg,
	}
}

// findFirstError does a depth-first search for the first ERROR/MISSING node.
func findFirstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			if found := findFirstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}

func errorSnippet(source string, n *sitter.Node) string {
	start, end := int(n.StartByte()), int(n.EndByte())
	if start >= len(source) {
		return ""
	}
	if end > len(source) {
		end = len(source)
	}
	snippet := strings.TrimSpace(source[start:end])
	if len(snippet) > 24 {
		snippet = snippet[:24] + "..."
	}
	return snippet
}
