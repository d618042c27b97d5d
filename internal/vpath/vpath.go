// Package vpath implements the pure path algebra used by the virtual
// filesystem and the module resolver. All paths are forward-slash,
// absolute, and rooted at "/". No dependency on the host filesystem.
package vpath

import "strings"

// Normalize canonicalizes a path: leading separator, no trailing separator
// except for the root itself, no repeated separators. Idempotent.
func Normalize(p string) string {
	segs := splitSegments(p)
	if len(segs) == 0 {
		return "/"
	}
	return "/" + strings.Join(segs, "/")
}

// Parent returns the containing directory. The root's parent is the root.
func Parent(p string) string {
	n := Normalize(p)
	if n == "/" {
		return "/"
	}
	i := strings.LastIndexByte(n, '/')
	if i <= 0 {
		return "/"
	}
	return n[:i]
}

// Base returns the last path segment. The root's base is "/".
func Base(p string) string {
	n := Normalize(p)
	if n == "/" {
		return "/"
	}
	return n[strings.LastIndexByte(n, '/')+1:]
}

// AncestorChain returns every ancestor directory of p, ordered from the
// root downward and excluding p itself. For "/a/b/c" it returns
// ["/", "/a", "/a/b"]. The root has no ancestors.
func AncestorChain(p string) []string {
	n := Normalize(p)
	if n == "/" {
		return nil
	}
	segs := strings.Split(n[1:], "/")
	chain := make([]string, 0, len(segs))
	chain = append(chain, "/")
	prefix := ""
	for _, seg := range segs[:len(segs)-1] {
		prefix += "/" + seg
		chain = append(chain, prefix)
	}
	return chain
}

// ResolveRelative applies a relative specifier ("./x", "../y/z") against a
// directory and returns the canonical absolute result. ".." never escapes
// the root. Only meant for relative local references; alias and package
// specifiers are classified before this is called.
func ResolveRelative(fromDir, spec string) string {
	stack := splitSegments(fromDir)
	for _, seg := range strings.Split(spec, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	if len(stack) == 0 {
		return "/"
	}
	return "/" + strings.Join(stack, "/")
}

// Ext returns the extension including the dot, or "" when there is none.
func Ext(p string) string {
	base := Base(p)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i:]
}

// TrimExt returns the path without its extension.
func TrimExt(p string) string {
	ext := Ext(p)
	if ext == "" {
		return p
	}
	return p[:len(p)-len(ext)]
}

// splitSegments breaks a path into non-empty segments.
func splitSegments(p string) []string {
	var segs []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
