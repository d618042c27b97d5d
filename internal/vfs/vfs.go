// Package vfs implements the in-memory hierarchical file store behind a
// preview project. The tree is an arena: a flat map from canonical path to
// node plus explicit child-name sets per directory, rather than
// parent/child object pointers. Every mutation bumps a change epoch that
// the consuming layer uses to trigger a full pipeline rebuild.
//
// Error discipline: invalid or oversized inputs return errors; routine
// operational failures (missing file, path conflict) return nil/false and
// never unwind the caller.
package vfs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/preview-labs/prevu/internal/config"
	"github.com/preview-labs/prevu/internal/vpath"
)

var (
	ErrInvalidPath     = errors.New("invalid path")
	ErrContentTooLarge = errors.New("content too large")
	ErrTooManyFiles    = errors.New("too many files")
)

// FS is the virtual filesystem. Not safe for concurrent use; the session
// layer serializes all callers into a single mutation stream.
type FS struct {
	cfg       config.Config
	nodes     map[string]*Node
	epoch     uint64
	fileCount int
}

// New returns an empty filesystem containing only the root directory.
func New(cfg config.Config) *FS {
	fs := &FS{cfg: cfg}
	fs.init()
	return fs
}

func (fs *FS) init() {
	fs.nodes = map[string]*Node{
		"/": {Kind: KindDirectory, Name: "/", Path: "/", children: map[string]struct{}{}},
	}
	fs.fileCount = 0
}

// Epoch returns the monotonically increasing mutation counter.
func (fs *FS) Epoch() uint64 {
	return fs.epoch
}

// FileCount returns the number of file nodes (directories excluded).
func (fs *FS) FileCount() int {
	return fs.fileCount
}

// Reset discards the entire tree and reinitializes a bare root.
func (fs *FS) Reset() {
	fs.init()
	fs.epoch++
}

// CreateFile creates a file at path with the given content, creating any
// missing ancestor directories. Returns nil (no error) if the path already
// exists or an ancestor is a file.
func (fs *FS) CreateFile(path, content string) (*Node, error) {
	p, err := fs.checkPath(path)
	if err != nil {
		return nil, err
	}
	if err := fs.checkContent(content); err != nil {
		return nil, err
	}
	if p == "/" || fs.nodes[p] != nil {
		return nil, nil
	}
	if fs.fileCount+1 > fs.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyFiles, fs.cfg.MaxFiles)
	}
	parent := fs.vivifyAncestors(p)
	if parent == nil {
		return nil, nil
	}
	n := &Node{Kind: KindFile, Name: vpath.Base(p), Path: p, Content: content}
	fs.link(parent, n)
	fs.fileCount++
	fs.epoch++
	return n, nil
}

// CreateDirectory creates a directory at path, creating missing ancestors.
// Returns nil if the path already exists or an ancestor is a file.
func (fs *FS) CreateDirectory(path string) (*Node, error) {
	p, err := fs.checkPath(path)
	if err != nil {
		return nil, err
	}
	if p == "/" || fs.nodes[p] != nil {
		return nil, nil
	}
	parent := fs.vivifyAncestors(p)
	if parent == nil {
		return nil, nil
	}
	n := &Node{Kind: KindDirectory, Name: vpath.Base(p), Path: p, children: map[string]struct{}{}}
	fs.link(parent, n)
	fs.epoch++
	return n, nil
}

// ReadFile returns a file's content. ok is false if the path is missing,
// invalid, or a directory.
func (fs *FS) ReadFile(path string) (string, bool) {
	n := fs.GetNode(path)
	if n == nil || n.IsDir() {
		return "", false
	}
	return n.Content, true
}

// UpdateFile replaces a file's content in place. It never creates; returns
// false if the path is missing or a directory.
func (fs *FS) UpdateFile(path, content string) (bool, error) {
	if err := fs.checkContent(content); err != nil {
		return false, err
	}
	n := fs.GetNode(path)
	if n == nil || n.IsDir() {
		return false, nil
	}
	n.Content = content
	fs.epoch++
	return true, nil
}

// Delete removes the node at path. Directories are removed recursively.
// Returns false for the root or a missing path.
func (fs *FS) Delete(path string) bool {
	p := vpath.Normalize(path)
	n := fs.nodes[p]
	if n == nil || p == "/" {
		return false
	}
	fs.unlinkSubtree(n)
	fs.epoch++
	return true
}

// Rename moves a node, rewriting descendant paths transitively. Returns
// false if the source is missing, the destination exists, either end is
// the root, or the destination lies inside the moved subtree. Missing
// destination ancestors are created.
func (fs *FS) Rename(oldPath, newPath string) (bool, error) {
	op := vpath.Normalize(oldPath)
	np, err := fs.checkPath(newPath)
	if err != nil {
		return false, err
	}
	src := fs.nodes[op]
	if src == nil || op == "/" || np == "/" {
		return false, nil
	}
	if fs.nodes[np] != nil {
		return false, nil
	}
	// A directory cannot be moved under itself.
	if src.IsDir() && strings.HasPrefix(np+"/", op+"/") {
		return false, nil
	}
	parent := fs.vivifyAncestors(np)
	if parent == nil {
		return false, nil
	}

	// Detach, then rewrite the subtree's index entries and paths.
	oldParent := fs.nodes[vpath.Parent(op)]
	delete(oldParent.children, src.Name)

	moved := []*Node{src}
	if src.IsDir() {
		prefix := op + "/"
		for path, n := range fs.nodes {
			if strings.HasPrefix(path, prefix) {
				moved = append(moved, n)
			}
		}
	}
	for _, n := range moved {
		delete(fs.nodes, n.Path)
	}
	for _, n := range moved {
		n.Path = np + strings.TrimPrefix(n.Path, op)
		n.Name = vpath.Base(n.Path)
		fs.nodes[n.Path] = n
	}
	parent.children[src.Name] = struct{}{}
	fs.epoch++
	return true, nil
}

// Exists reports whether a node is present at path.
func (fs *FS) Exists(path string) bool {
	return fs.GetNode(path) != nil
}

// GetNode returns the node at path, or nil.
func (fs *FS) GetNode(path string) *Node {
	return fs.nodes[vpath.Normalize(path)]
}

// ListDirectory returns a directory's children sorted by name, or nil if
// the target is missing or not a directory.
func (fs *FS) ListDirectory(path string) []*Node {
	n := fs.GetNode(path)
	if n == nil || !n.IsDir() {
		return nil
	}
	names := n.ChildNames()
	out := make([]*Node, 0, len(names))
	base := n.Path
	if base == "/" {
		base = ""
	}
	for _, name := range names {
		if child := fs.nodes[base+"/"+name]; child != nil {
			out = append(out, child)
		}
	}
	return out
}

// AllFiles returns a path -> content mapping of every file node. This is
// the snapshot handed to the transformation pipeline.
func (fs *FS) AllFiles() map[string]string {
	out := make(map[string]string, fs.fileCount)
	for path, n := range fs.nodes {
		if !n.IsDir() {
			out[path] = n.Content
		}
	}
	return out
}

// --- internals ---

// checkPath validates and normalizes a path argument.
func (fs *FS) checkPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.ContainsRune(path, 0) {
		return "", fmt.Errorf("%w: embedded NUL", ErrInvalidPath)
	}
	p := vpath.Normalize(path)
	if len(p) > fs.cfg.MaxPathLen {
		return "", fmt.Errorf("%w: %d bytes exceeds limit %d", ErrInvalidPath, len(p), fs.cfg.MaxPathLen)
	}
	return p, nil
}

func (fs *FS) checkContent(content string) error {
	if len(content) > fs.cfg.MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds limit %d", ErrContentTooLarge, len(content), fs.cfg.MaxFileSize)
	}
	return nil
}

// vivifyAncestors ensures every ancestor directory of p exists, creating
// missing ones. Returns the immediate parent, or nil when an existing
// ancestor is a file (a conflict the caller reports as failure).
func (fs *FS) vivifyAncestors(p string) *Node {
	var parent *Node
	for _, dir := range vpath.AncestorChain(p) {
		n := fs.nodes[dir]
		if n == nil {
			n = &Node{Kind: KindDirectory, Name: vpath.Base(dir), Path: dir, children: map[string]struct{}{}}
			fs.link(parent, n)
		} else if !n.IsDir() {
			return nil
		}
		parent = n
	}
	return parent
}

// link inserts n under parent, keeping the index and the tree edges in sync.
func (fs *FS) link(parent, n *Node) {
	fs.nodes[n.Path] = n
	if parent != nil {
		parent.children[n.Name] = struct{}{}
	}
}

// unlinkSubtree removes n and, for directories, every descendant from both
// the path index and the parent's child set.
func (fs *FS) unlinkSubtree(n *Node) {
	if parent := fs.nodes[vpath.Parent(n.Path)]; parent != nil && parent != n {
		delete(parent.children, n.Name)
	}
	if n.IsDir() {
		prefix := n.Path + "/"
		for path, d := range fs.nodes {
			if strings.HasPrefix(path, prefix) {
				if !d.IsDir() {
					fs.fileCount--
				}
				delete(fs.nodes, path)
			}
		}
	} else {
		fs.fileCount--
	}
	delete(fs.nodes, n.Path)
}
