// Package modgraph turns a full tree snapshot into a resolution table:
// every source file is transformed, every reference is classified as
// local, external, or placeholder, and each resulting module body is
// materialized into a loadable location owned by a per-build arena.
package modgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/preview-labs/prevu/internal/config"
	"github.com/preview-labs/prevu/internal/transform"
	"github.com/preview-labs/prevu/internal/vfs"
	"github.com/preview-labs/prevu/internal/vpath"
)

// Builder runs the transform-and-resolve pipeline over a snapshot.
type Builder struct {
	cfg config.Config
	tr  *transform.Transformer
}

func NewBuilder(cfg config.Config) *Builder {
	return &Builder{cfg: cfg, tr: transform.New(cfg)}
}

// BuildResult is one complete pipeline output. The arena owns every
// materialized handle and is released wholesale when the next build
// supersedes this one.
type BuildResult struct {
	Table  *Table
	Arena  *ModuleArena
	Styles string
	Errors []*transform.SyntaxError
}

// HasErrors reports whether any file failed to transform.
func (r *BuildResult) HasErrors() bool {
	return len(r.Errors) > 0
}

type moduleRecord struct {
	path    string
	body    string
	imports []string
	styles  []string
}

type refKind uint8

const (
	refLocal refKind = iota
	refExternal
)

// Build runs the whole pipeline: transform every source file, aggregate
// stylesheets, resolve references, synthesize placeholders for dangling
// local imports, and register every module under all its specifier
// forms. One file's transform failure never aborts the others.
func (b *Builder) Build(fs *vfs.FS) *BuildResult {
	files := fs.AllFiles()
	table := NewTable()
	arena := NewArena(b.cfg)

	var sourcePaths []string
	for p := range files {
		if b.cfg.IsSourcePath(p) {
			sourcePaths = append(sourcePaths, p)
		}
	}
	sort.Strings(sourcePaths)

	var errs []*transform.SyntaxError
	records := make([]*moduleRecord, 0, len(sourcePaths))
	for _, p := range sourcePaths {
		res, serr := b.tr.Transform(p, files[p])
		if serr != nil {
			errs = append(errs, serr)
			continue
		}
		records = append(records, &moduleRecord{
			path:    p,
			body:    res.Body,
			imports: res.Imports,
			styles:  res.StyleImports,
		})
	}

	b.registerFrameworkPins(table)

	// Canonicalize local specifiers in each body so modules can import
	// one another by absolute path, and note which references have no
	// backing file. Real files always win; placeholder synthesis only
	// covers specifiers left unresolved after all files are indexed.
	placeholders := make(map[string]struct{})
	externals := make(map[string]struct{})
	for _, rec := range records {
		for _, spec := range rec.imports {
			kind, abs := b.classify(rec.path, spec)
			if kind == refExternal {
				externals[spec] = struct{}{}
				continue
			}
			canon, found := findLocal(abs, files, b.cfg)
			if !found {
				placeholders[canon] = struct{}{}
			}
			if canon != spec {
				rec.body = rewriteSpecifier(rec.body, spec, canon)
			}
		}
	}

	for _, rec := range records {
		url, err := arena.Materialize("text/javascript", rec.body)
		if err != nil {
			errs = append(errs, &transform.SyntaxError{Path: rec.path, Message: err.Error()})
			continue
		}
		b.registerForms(table, rec.path, ModuleLocation{Kind: Local, Source: rec.path, URL: url})
	}

	for _, abs := range sortedKeys(placeholders) {
		url, err := arena.Materialize("text/javascript", placeholderBody(abs))
		if err != nil {
			continue
		}
		b.registerForms(table, abs, ModuleLocation{Kind: Placeholder, Source: abs, URL: url})
	}

	for _, spec := range sortedKeys(externals) {
		table.RegisterIfAbsent(spec, ModuleLocation{
			Kind:   External,
			Source: spec,
			URL:    b.cfg.CDNBase + spec,
		})
	}

	return &BuildResult{
		Table:  table,
		Arena:  arena,
		Styles: b.aggregateStyles(files, records),
		Errors: errs,
	}
}

// registerFrameworkPins binds the framework runtime to a pinned external
// location regardless of project content.
func (b *Builder) registerFrameworkPins(table *Table) {
	react := "react@" + b.cfg.ReactVersion
	dom := "react-dom@" + b.cfg.ReactVersion
	pins := map[string]string{
		"react":             b.cfg.CDNBase + react,
		"react/jsx-runtime": b.cfg.CDNBase + react + "/jsx-runtime",
		"react-dom":         b.cfg.CDNBase + dom,
		"react-dom/client":  b.cfg.CDNBase + dom + "/client",
	}
	for spec, url := range pins {
		table.Register(spec, ModuleLocation{Kind: External, Source: spec, URL: url})
	}
}

// classify splits a specifier into external package references and local
// ones, returning the canonical absolute path for local references.
func (b *Builder) classify(fromPath, spec string) (refKind, string) {
	switch {
	case strings.HasPrefix(spec, b.cfg.AliasPrefix):
		return refLocal, vpath.Normalize("/" + strings.TrimPrefix(spec, b.cfg.AliasPrefix))
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"), spec == ".", spec == "..":
		return refLocal, vpath.ResolveRelative(vpath.Parent(fromPath), spec)
	case strings.HasPrefix(spec, "/"):
		return refLocal, vpath.Normalize(spec)
	default:
		return refExternal, ""
	}
}

// findLocal probes the snapshot for a file backing the absolute path,
// trying the path itself and then each recognized source extension.
func findLocal(abs string, files map[string]string, cfg config.Config) (string, bool) {
	if _, ok := files[abs]; ok && cfg.IsSourcePath(abs) {
		return abs, true
	}
	for _, ext := range cfg.SourceExts {
		if _, ok := files[abs+ext]; ok {
			return abs + ext, true
		}
	}
	return abs, false
}

// registerForms binds one module under every equivalent specifier form:
// the canonical path, the separator-less form, the alias form, and the
// extensionless variant of each. The canonical path always wins; derived
// forms never displace an exact path of another module.
func (b *Builder) registerForms(table *Table, path string, loc ModuleLocation) {
	table.Register(path, loc)

	bare := strings.TrimPrefix(path, "/")
	forms := []string{bare, b.cfg.AliasPrefix + bare}
	if noExt := vpath.TrimExt(path); noExt != path {
		bareNoExt := strings.TrimPrefix(noExt, "/")
		forms = append(forms, noExt, bareNoExt, b.cfg.AliasPrefix+bareNoExt)
	}
	for _, f := range forms {
		table.RegisterIfAbsent(f, loc)
	}
}

// rewriteSpecifier swaps one import specifier for its canonical form in
// a module body. The replacement is quote-aware so arbitrary body text
// containing the same run of characters stays untouched.
func rewriteSpecifier(body, spec, canon string) string {
	body = strings.ReplaceAll(body, `"`+spec+`"`, `"`+canon+`"`)
	body = strings.ReplaceAll(body, `'`+spec+`'`, `"`+canon+`"`)
	return body
}

// placeholderBody synthesizes an inert stub module for a reference with
// no backing file, so a dangling import degrades instead of failing the
// whole preview.
func placeholderBody(abs string) string {
	name := inferComponentName(abs)
	return fmt.Sprintf("const %s = () => null;\nexport default %s;\nexport { %s };\n", name, name, name)
}

// inferComponentName derives an identifier from the referenced path.
func inferComponentName(abs string) string {
	base := vpath.TrimExt(vpath.Base(abs))
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if sb.Len() > 0 {
				sb.WriteRune(r)
			}
		}
	}
	name := sb.String()
	if name == "" {
		return "Component"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// aggregateStyles concatenates every stylesheet file under a path
// comment, then appends a marker for each referenced stylesheet that
// has no backing file.
func (b *Builder) aggregateStyles(files map[string]string, records []*moduleRecord) string {
	var stylePaths []string
	for p := range files {
		if b.cfg.IsStylePath(p) {
			stylePaths = append(stylePaths, p)
		}
	}
	sort.Strings(stylePaths)

	var sb strings.Builder
	for _, p := range stylePaths {
		fmt.Fprintf(&sb, "/* %s */\n%s", p, files[p])
		if !strings.HasSuffix(files[p], "\n") {
			sb.WriteByte('\n')
		}
	}

	missing := make(map[string]struct{})
	for _, rec := range records {
		for _, spec := range rec.styles {
			_, abs := b.classifyStyle(rec.path, spec)
			if _, ok := files[abs]; !ok {
				missing[abs] = struct{}{}
			}
		}
	}
	for _, abs := range sortedKeys(missing) {
		fmt.Fprintf(&sb, "/* %s: not found */\n", abs)
	}
	return sb.String()
}

func (b *Builder) classifyStyle(fromPath, spec string) (refKind, string) {
	kind, abs := b.classify(fromPath, spec)
	if kind == refExternal {
		// A bare stylesheet reference is read as project-relative.
		return refLocal, vpath.ResolveRelative(vpath.Parent(fromPath), spec)
	}
	return kind, abs
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
