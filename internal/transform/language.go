package transform

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// languageForPath maps a source path to its tree-sitter grammar and
// whether TypeScript type stripping applies. JSX is valid input for every
// recognized grammar.
func languageForPath(path string) (lang *sitter.Language, typed bool, ok bool) {
	ext := strings.ToLower(path[strings.LastIndexByte(path, '.')+1:])
	if !strings.Contains(path, ".") {
		return nil, false, false
	}
	switch ext {
	case "js", "jsx":
		return javascript.GetLanguage(), false, true
	case "ts":
		return typescript.GetLanguage(), true, true
	case "tsx":
		return tsx.GetLanguage(), true, true
	default:
		return nil, false, false
	}
}
