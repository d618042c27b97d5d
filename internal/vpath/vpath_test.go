package vpath

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"//", "/"},
		{"a", "/a"},
		{"/a", "/a"},
		{"/a/", "/a"},
		{"//a///b//", "/a/b"},
		{"a/b/c", "/a/b/c"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	paths := []string{"", "/", "a//b", "/x/y/z/", "///deep//nest///file.txt"}
	for _, p := range paths {
		once := Normalize(p)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", p, once, twice)
		}
	}
}

func TestParent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/", "/"},
		{"/a", "/"},
		{"/a/b", "/a"},
		{"/a/b/c.txt", "/a/b"},
		{"a/b/", "/a"},
	}
	for _, c := range cases {
		if got := Parent(c.in); got != c.want {
			t.Errorf("Parent(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/", "/"},
		{"/a", "a"},
		{"/a/b.txt", "b.txt"},
	}
	for _, c := range cases {
		if got := Base(c.in); got != c.want {
			t.Errorf("Base(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAncestorChain(t *testing.T) {
	chain := AncestorChain("/a/b/c")
	want := []string{"/", "/a", "/a/b"}
	if len(chain) != len(want) {
		t.Fatalf("AncestorChain(/a/b/c) = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("chain[%d] = %q, want %q", i, chain[i], want[i])
		}
	}

	if got := AncestorChain("/"); got != nil {
		t.Errorf("AncestorChain(/) = %v, want nil", got)
	}
	one := AncestorChain("/top")
	if len(one) != 1 || one[0] != "/" {
		t.Errorf("AncestorChain(/top) = %v, want [/]", one)
	}
}

func TestResolveRelative(t *testing.T) {
	cases := []struct{ dir, spec, want string }{
		{"/", "./App", "/App"},
		{"/components", "./Button", "/components/Button"},
		{"/components", "../util/fmt", "/util/fmt"},
		{"/a/b", "../../x", "/x"},
		{"/a", "../../../escape", "/escape"},
		{"/a", ".", "/a"},
	}
	for _, c := range cases {
		if got := ResolveRelative(c.dir, c.spec); got != c.want {
			t.Errorf("ResolveRelative(%q, %q) = %q, want %q", c.dir, c.spec, got, c.want)
		}
	}
}

func TestExt(t *testing.T) {
	cases := []struct{ in, ext, trimmed string }{
		{"/App.jsx", ".jsx", "/App"},
		{"/a/b.test.ts", ".ts", "/a/b.test"},
		{"/noext", "", "/noext"},
		{"/.hidden", "", "/.hidden"},
	}
	for _, c := range cases {
		if got := Ext(c.in); got != c.ext {
			t.Errorf("Ext(%q) = %q, want %q", c.in, got, c.ext)
		}
		if got := TrimExt(c.in); got != c.trimmed {
			t.Errorf("TrimExt(%q) = %q, want %q", c.in, got, c.trimmed)
		}
	}
}
