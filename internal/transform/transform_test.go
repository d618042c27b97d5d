package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preview-labs/prevu/internal/config"
)

func newTransformer(t *testing.T) *Transformer {
	t.Helper()
	return New(config.Default())
}

func TestTransformPlainJS(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/util.js", "export const add = (a, b) => a + b;\n")
	require.Nil(t, serr)
	assert.Equal(t, "export const add = (a, b) => a + b;\n", res.Body)
	assert.Empty(t, res.Imports)
	assert.Empty(t, res.StyleImports)
}

func TestTransformJSXElement(t *testing.T) {
	tr := newTransformer(t)
	src := `export default function App() {
  return <div className="box">hello</div>;
}`
	res, serr := tr.Transform("/App.jsx", src)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, `React.createElement("div", {"className": "box"}, "hello")`)
	assert.NotContains(t, res.Body, "<div")
}

func TestTransformJSXComponentTag(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/App.jsx", `const x = <Button label="go" onClick={fn} />;`)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, `React.createElement(Button, {"label": "go", "onClick": fn})`)
}

func TestTransformJSXNested(t *testing.T) {
	tr := newTransformer(t)
	src := `const v = <ul>{items.map(i => <li key={i}>{i}</li>)}</ul>;`
	res, serr := tr.Transform("/List.jsx", src)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, `React.createElement("ul", null, items.map(i => React.createElement("li", {"key": i}, i)))`)
}

func TestTransformJSXFragmentAndBoolean(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/F.jsx", `const f = <><input disabled /></>;`)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, `React.createElement(React.Fragment, null, React.createElement("input", {"disabled": true}))`)
}

func TestTransformJSXSpreadProps(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/S.jsx", `const s = <div {...rest} id="a" />;`)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, `React.createElement("div", {...rest, "id": "a"})`)
}

func TestTransformJSXMemberTag(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/M.jsx", `const m = <Nav.Item active />;`)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, `React.createElement(Nav.Item, {"active": true})`)
}

func TestTransformInjectsReactImport(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/App.jsx", `export default () => <p>hi</p>;`)
	require.Nil(t, serr)
	assert.True(t, strings.HasPrefix(res.Body, `import React from "react";`))
	assert.Contains(t, res.Imports, "react")
}

func TestTransformKeepsExplicitReactImport(t *testing.T) {
	tr := newTransformer(t)
	src := `import React from "react";
export default () => <p>hi</p>;`
	res, serr := tr.Transform("/App.jsx", src)
	require.Nil(t, serr)
	assert.Equal(t, 1, strings.Count(res.Body, `import React`))
	assert.Equal(t, []string{"react"}, res.Imports)
}

func TestTransformCollectsImports(t *testing.T) {
	tr := newTransformer(t)
	src := `import React from "react";
import { Button } from "./Button.jsx";
import useThing from "@/hooks/useThing";
export { helper } from "./util.js";
const later = () => import("./Lazy.jsx");
export default () => null;`
	res, serr := tr.Transform("/App.jsx", src)
	require.Nil(t, serr)
	assert.Equal(t, []string{"react", "./Button.jsx", "@/hooks/useThing", "./util.js", "./Lazy.jsx"}, res.Imports)
}

func TestTransformLiftsStyleImports(t *testing.T) {
	tr := newTransformer(t)
	src := `import "./App.css";
import { x } from "./x.js";
export default () => null;`
	res, serr := tr.Transform("/App.jsx", src)
	require.Nil(t, serr)
	assert.Equal(t, []string{"./App.css"}, res.StyleImports)
	assert.NotContains(t, res.Body, "App.css")
	assert.Equal(t, []string{"./x.js"}, res.Imports)
}

func TestTransformSyntaxErrorPosition(t *testing.T) {
	tr := newTransformer(t)
	src := "const a = 1;\nconst b = ;\n"
	res, serr := tr.Transform("/bad.js", src)
	require.Nil(t, res)
	require.NotNil(t, serr)
	assert.Equal(t, "/bad.js", serr.Path)
	assert.Equal(t, uint32(2), serr.Line)
	assert.Contains(t, serr.Error(), "/bad.js:2:")
}

func TestTransformUnknownExtension(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/notes.txt", "whatever")
	require.Nil(t, res)
	require.NotNil(t, serr)
	assert.Contains(t, serr.Message, "extension")
}

func TestTransformStripsTypeAnnotations(t *testing.T) {
	tr := newTransformer(t)
	src := `export function area(w: number, h: number): number {
  return w * h;
}`
	res, serr := tr.Transform("/geo.ts", src)
	require.Nil(t, serr)
	assert.NotContains(t, res.Body, ": number")
	assert.Contains(t, res.Body, "export function area(w, h)")
}

func TestTransformStripsInterfaceAndAlias(t *testing.T) {
	tr := newTransformer(t)
	src := `interface Props { label: string }
type ID = string;
export interface Shared { n: number }
export const ok = true;`
	res, serr := tr.Transform("/types.ts", src)
	require.Nil(t, serr)
	assert.NotContains(t, res.Body, "interface")
	assert.NotContains(t, res.Body, "type ID")
	assert.Contains(t, res.Body, "export const ok = true;")
}

func TestTransformStripsTypeOnlyImports(t *testing.T) {
	tr := newTransformer(t)
	src := `import type { Props } from "./types";
import { real } from "./real.js";
export const v = real;`
	res, serr := tr.Transform("/c.ts", src)
	require.Nil(t, serr)
	assert.NotContains(t, res.Body, "Props")
	assert.Equal(t, []string{"./real.js"}, res.Imports)
}

func TestTransformStripsAssertionsAndGenerics(t *testing.T) {
	tr := newTransformer(t)
	src := `const el = document.getElementById("x") as HTMLElement;
const xs = new Map<string, number>();
const y = maybe!;`
	res, serr := tr.Transform("/d.ts", src)
	require.Nil(t, serr)
	assert.NotContains(t, res.Body, "as HTMLElement")
	assert.NotContains(t, res.Body, "<string, number>")
	assert.Contains(t, res.Body, "const y = maybe;")
}

func TestTransformTSXTypedComponent(t *testing.T) {
	tr := newTransformer(t)
	src := `type Props = { label: string };
export default function Tag({ label }: Props) {
  return <span>{label}</span>;
}`
	res, serr := tr.Transform("/Tag.tsx", src)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, "function Tag({ label })")
	assert.Contains(t, res.Body, `React.createElement("span", null, label)`)
	assert.NotContains(t, res.Body, "Props")
}

func TestTransformRejectsEnums(t *testing.T) {
	tr := newTransformer(t)
	res, serr := tr.Transform("/e.ts", "enum Color { Red, Blue }\n")
	require.Nil(t, res)
	require.NotNil(t, serr)
	assert.Contains(t, serr.Message, "enums")
	assert.Equal(t, uint32(1), serr.Line)
}

func TestTransformCollapsesJSXWhitespace(t *testing.T) {
	tr := newTransformer(t)
	src := `const t = <p>
  one
  two
</p>;`
	res, serr := tr.Transform("/W.jsx", src)
	require.Nil(t, serr)
	assert.Contains(t, res.Body, `React.createElement("p", null, "one two")`)
}
