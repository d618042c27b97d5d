package vfs

import (
	"fmt"
	"strings"
)

// Editor-style convenience operations used by the tool-call boundary.
// These return descriptive errors (which the tool layer renders as
// human-readable status strings) instead of the bare nil/false sentinels
// of the primitive API.

// CreateFileWithParents writes a file, creating missing ancestor
// directories. An existing file is overwritten; an existing directory at
// the path is an error.
func (fs *FS) CreateFileWithParents(path, content string) error {
	if n := fs.GetNode(path); n != nil {
		if n.IsDir() {
			return fmt.Errorf("%s is a directory", n.Path)
		}
		if _, err := fs.UpdateFile(path, content); err != nil {
			return err
		}
		return nil
	}
	n, err := fs.CreateFile(path, content)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("cannot create %s: an ancestor is a file", path)
	}
	return nil
}

// ReplaceInFile substitutes every occurrence of old with new in the file's
// content and returns the occurrence count. It is an error if the file is
// missing or the target string does not occur.
func (fs *FS) ReplaceInFile(path, old, new string) (int, error) {
	if old == "" {
		return 0, fmt.Errorf("search string is empty")
	}
	content, ok := fs.ReadFile(path)
	if !ok {
		return 0, fmt.Errorf("no such file: %s", path)
	}
	count := strings.Count(content, old)
	if count == 0 {
		return 0, fmt.Errorf("string not found in %s: %q", path, old)
	}
	if _, err := fs.UpdateFile(path, strings.ReplaceAll(content, old, new)); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertLines inserts text before the given 1-based line number. Line
// lineCount+1 appends. Out-of-range lines are an error.
func (fs *FS) InsertLines(path string, line int, text string) error {
	content, ok := fs.ReadFile(path)
	if !ok {
		return fmt.Errorf("no such file: %s", path)
	}
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines)+1 {
		return fmt.Errorf("line %d out of range for %s (file has %d lines)", line, path, len(lines))
	}
	inserted := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:line-1]...)
	out = append(out, inserted...)
	out = append(out, lines[line-1:]...)
	if _, err := fs.UpdateFile(path, strings.Join(out, "\n")); err != nil {
		return err
	}
	return nil
}
