package vfs

import (
	"fmt"
	"sort"

	"github.com/preview-labs/prevu/api"
)

// Serialize flattens the tree into the wire snapshot: every non-root node
// as a path-indexed descriptor. Structural round-trip with
// DeserializeNodes is guaranteed; object identity is not.
func (fs *FS) Serialize() api.Snapshot {
	snap := make(api.Snapshot, len(fs.nodes)-1)
	for path, n := range fs.nodes {
		if path == "/" {
			continue
		}
		d := api.NodeDescriptor{
			Kind: api.KindFile,
			Name: n.Name,
			Path: n.Path,
		}
		if n.IsDir() {
			d.Kind = api.KindDirectory
		} else {
			d.Content = n.Content
		}
		snap[path] = d
	}
	return snap
}

// DeserializeNodes replaces the current tree with the snapshot's contents.
// Paths are created in sorted order so every parent exists before its
// children; directories implied by file paths are vivified either way.
func (fs *FS) DeserializeNodes(snap api.Snapshot) error {
	fs.Reset()

	paths := make([]string, 0, len(snap))
	for path := range snap {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		d := snap[path]
		switch d.Kind {
		case api.KindDirectory:
			if _, err := fs.CreateDirectory(path); err != nil {
				return fmt.Errorf("deserialize %s: %w", path, err)
			}
		case api.KindFile:
			n, err := fs.CreateFile(path, d.Content)
			if err != nil {
				return fmt.Errorf("deserialize %s: %w", path, err)
			}
			if n == nil {
				return fmt.Errorf("deserialize %s: conflicts with an existing node", path)
			}
		default:
			return fmt.Errorf("deserialize %s: unknown kind %q", path, d.Kind)
		}
	}
	return nil
}
