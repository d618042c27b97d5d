package modgraph

import "sort"

// LocationKind tags how a specifier resolves.
type LocationKind uint8

const (
	// Local is a module materialized from a project file.
	Local LocationKind = iota
	// External is a package served from the configured CDN.
	External
	// Placeholder is a synthesized stub for a reference with no backing file.
	Placeholder
)

func (k LocationKind) String() string {
	switch k {
	case Local:
		return "local"
	case External:
		return "external"
	case Placeholder:
		return "placeholder"
	}
	return "unknown"
}

// ModuleLocation is one resolved target: where a specifier loads from.
// Source is the project path for Local and Placeholder entries and the
// bare package name for External ones.
type ModuleLocation struct {
	Kind   LocationKind
	Source string
	URL    string
}

// Table maps every specifier form a source file might use onto its
// loadable location. A single module is typically registered under
// several equivalent forms.
type Table struct {
	entries map[string]ModuleLocation
}

func NewTable() *Table {
	return &Table{entries: make(map[string]ModuleLocation)}
}

// Register binds spec to loc, replacing any previous binding.
func (t *Table) Register(spec string, loc ModuleLocation) {
	if spec == "" {
		return
	}
	t.entries[spec] = loc
}

// RegisterIfAbsent binds spec to loc unless a binding already exists.
// Derived forms (extensionless, alias) use this so an exact file path
// never loses to a shorthand of a different file.
func (t *Table) RegisterIfAbsent(spec string, loc ModuleLocation) {
	if spec == "" {
		return
	}
	if _, taken := t.entries[spec]; !taken {
		t.entries[spec] = loc
	}
}

// Lookup returns the location bound to spec.
func (t *Table) Lookup(spec string) (ModuleLocation, bool) {
	loc, ok := t.entries[spec]
	return loc, ok
}

// Specifiers returns every registered specifier form, sorted.
func (t *Table) Specifiers() []string {
	out := make([]string, 0, len(t.entries))
	for spec := range t.entries {
		out = append(out, spec)
	}
	sort.Strings(out)
	return out
}

// URLMap flattens the table into specifier -> URL, the shape a module
// resolution manifest embeds directly.
func (t *Table) URLMap() map[string]string {
	out := make(map[string]string, len(t.entries))
	for spec, loc := range t.entries {
		out[spec] = loc.URL
	}
	return out
}

func (t *Table) Len() int {
	return len(t.entries)
}
