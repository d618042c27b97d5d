package vfs

import (
	"testing"

	"github.com/preview-labs/prevu/api"
	"github.com/preview-labs/prevu/internal/config"
)

func TestSerializeRoundTrip(t *testing.T) {
	fs := New(config.Default())
	fs.CreateFileWithParents("/App.jsx", "export default () => null")
	fs.CreateFileWithParents("/src/util.js", "export const x = 1")
	fs.CreateDirectory("/empty")
	fs.Rename("/src", "/lib")
	fs.Delete("/lib/util.js")
	fs.CreateFileWithParents("/lib/helper.js", "export const y = 2")

	snap := fs.Serialize()

	clone := New(config.Default())
	if err := clone.DeserializeNodes(snap); err != nil {
		t.Fatalf("deserialize: %v", err)
	}

	// Same set of paths, kinds, and contents.
	reSnap := clone.Serialize()
	if len(reSnap) != len(snap) {
		t.Fatalf("path count = %d, want %d", len(reSnap), len(snap))
	}
	for path, d := range snap {
		got, ok := reSnap[path]
		if !ok {
			t.Errorf("missing path %s after round trip", path)
			continue
		}
		if got.Kind != d.Kind || got.Content != d.Content || got.Name != d.Name {
			t.Errorf("descriptor for %s = %+v, want %+v", path, got, d)
		}
	}
}

func TestSerializeWireRoundTrip(t *testing.T) {
	fs := New(config.Default())
	fs.CreateFileWithParents("/a/b.txt", "hello")

	data := api.EncodeSnapshot(fs.Serialize())
	snap, err := api.DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	clone := New(config.Default())
	if err := clone.DeserializeNodes(snap); err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got, _ := clone.ReadFile("/a/b.txt"); got != "hello" {
		t.Errorf("content = %q", got)
	}
	if n := clone.GetNode("/a"); n == nil || !n.IsDir() {
		t.Error("/a should round-trip as a directory")
	}
}

func TestDeserializeRejectsUnknownKind(t *testing.T) {
	fs := New(config.Default())
	err := fs.DeserializeNodes(api.Snapshot{
		"/x": {Kind: "symlink", Name: "x", Path: "/x"},
	})
	if err == nil {
		t.Error("unknown kind should error")
	}
}
