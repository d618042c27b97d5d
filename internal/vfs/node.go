package vfs

import "sort"

// Kind distinguishes file and directory nodes.
type Kind uint8

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Node is a single entry in the virtual tree. Nodes are owned exclusively
// by the FS that created them; a pointer obtained from a lookup is
// invalidated by any structural mutation (rename, delete, reset).
type Node struct {
	Kind    Kind
	Name    string
	Path    string
	Content string // files only

	// children holds child names for directory nodes. The tree keeps
	// name sets here and the path index in FS.nodes; both must agree.
	children map[string]struct{}
}

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// ChildNames returns the directory's child names in sorted order.
// Nil for file nodes.
func (n *Node) ChildNames() []string {
	if n.children == nil {
		return nil
	}
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
