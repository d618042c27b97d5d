// Package api defines the wire types exchanged between the in-memory
// project core and its collaborators: the persistence layer, the tool-call
// editor boundary, and the rendering host.
package api

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
)

// Node kinds as they appear on the wire.
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// NodeDescriptor is the lightweight serialized form of a single tree node.
// Content is only meaningful for file nodes.
type NodeDescriptor struct {
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
}

// Snapshot is a flat path-indexed mapping of the whole project tree.
// It is the format persisted by the storage layer and exchanged with the
// tool-call boundary. The root directory is implicit and never included.
type Snapshot map[string]NodeDescriptor

// EncodeSnapshot renders a snapshot as deterministic JSON (sorted keys).
func EncodeSnapshot(s Snapshot) []byte {
	opts := oj.Options{Sort: true}
	return []byte(oj.JSON(s, &opts))
}

// DecodeSnapshot parses the JSON wire form back into a Snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := oj.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	for path, d := range s {
		if d.Kind != KindFile && d.Kind != KindDirectory {
			return nil, fmt.Errorf("decode snapshot: %s has unknown kind %q", path, d.Kind)
		}
	}
	return s, nil
}
