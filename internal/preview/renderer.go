// Package preview assembles the final runnable artifact: a standalone
// document carrying the module resolution manifest, the aggregated
// stylesheet, and either a bootstrap script or a structured error panel.
package preview

import (
	"fmt"
	"html"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/preview-labs/prevu/internal/config"
	"github.com/preview-labs/prevu/internal/modgraph"
)

// Renderer builds preview documents. Stateless; one instance serves
// every rebuild.
type Renderer struct {
	cfg config.Config
}

func New(cfg config.Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render produces the complete preview document for one build. The
// precedence is strict: transform errors always yield an error report
// with no executable script, an empty project yields the welcome page,
// and only a clean build with an entry point gets a bootstrap script.
func (r *Renderer) Render(entry string, build *modgraph.BuildResult) string {
	if build != nil && build.HasErrors() {
		return r.errorDocument(build)
	}
	if build == nil || entry == "" {
		return r.welcomeDocument()
	}
	return r.appDocument(entry, build)
}

// WrapFrame hosts a document in a sandboxed iframe: scripts and
// same-origin storage run, navigation and document replacement do not.
func (r *Renderer) WrapFrame(doc string) string {
	return `<iframe sandbox="allow-scripts allow-same-origin" style="border:0;width:100%;height:100%" srcdoc="` +
		html.EscapeString(doc) + `"></iframe>`
}

func (r *Renderer) welcomeDocument() string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<style>\nbody { font-family: sans-serif; color: #555; display: flex; align-items: center; justify-content: center; height: 100vh; margin: 0 }\n</style>\n")
	sb.WriteString("</head>\n<body>\n<div>\n<h2>No components yet</h2>\n<p>Create a source file to see it rendered here.</p>\n</div>\n</body>\n</html>\n")
	return sb.String()
}

func (r *Renderer) errorDocument(build *modgraph.BuildResult) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<style>\nbody { font-family: monospace; background: #1e1e1e; color: #f48771; padding: 1rem }\nh2 { color: #fff }\n.file { color: #9cdcfe }\n</style>\n")
	sb.WriteString("</head>\n<body>\n<h2>Syntax errors</h2>\n")
	for _, e := range build.Errors {
		pos := ""
		if e.Line > 0 {
			pos = fmt.Sprintf(":%d:%d", e.Line, e.Col)
		}
		fmt.Fprintf(&sb, "<p><span class=\"file\">%s%s</span> %s</p>\n",
			html.EscapeString(e.Path), pos, html.EscapeString(e.Message))
	}
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func (r *Renderer) appDocument(entry string, build *modgraph.BuildResult) string {
	manifest := oj.JSON(map[string]interface{}{"imports": build.Table.URLMap()}, &oj.Options{Sort: true})

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	sb.WriteString("<script type=\"importmap\">\n")
	sb.WriteString(manifest)
	sb.WriteString("\n</script>\n")
	if build.Styles != "" {
		sb.WriteString("<style>\n")
		sb.WriteString(build.Styles)
		sb.WriteString("</style>\n")
	}
	sb.WriteString("</head>\n<body>\n<div id=\"root\">Loading preview…</div>\n")
	sb.WriteString("<script type=\"module\">\n")
	sb.WriteString(bootstrapScript(entry))
	sb.WriteString("</script>\n</body>\n</html>\n")
	return sb.String()
}

// bootstrapScript loads the entry module, mounts its default export
// under a runtime error boundary, and replaces the mount point with a
// failure message on any load or mount error.
func bootstrapScript(entry string) string {
	spec := oj.JSON(entry)
	return `import React from "react";
import { createRoot } from "react-dom/client";

class Boundary extends React.Component {
  constructor(props) {
    super(props);
    this.state = { error: null };
  }
  static getDerivedStateFromError(error) {
    return { error };
  }
  render() {
    if (this.state.error) {
      return React.createElement("pre", { style: { color: "#c00", whiteSpace: "pre-wrap" } },
        String(this.state.error && this.state.error.stack || this.state.error));
    }
    return this.props.children;
  }
}

const mount = document.getElementById("root");
try {
  const mod = await import(` + spec + `);
  const App = mod.default;
  if (App == null) {
    throw new Error("entry module has no default export");
  }
  createRoot(mount).render(
    React.createElement(Boundary, null, React.createElement(App))
  );
} catch (err) {
  mount.textContent = "Preview failed to load: " + err;
}
`
}
