package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/preview-labs/prevu/internal/session"
	"github.com/preview-labs/prevu/internal/vfs"
)

// loadProjectDir seeds a session from an on-disk directory. Hidden
// entries and node_modules are skipped; everything else is loaded
// verbatim under its relative path.
func loadProjectDir(sess *session.Session, dir string) (int, error) {
	loaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == "node_modules") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		target := "/" + filepath.ToSlash(rel)
		if err := sess.Do(func(vt *vfs.FS) error {
			return vt.CreateFileWithParents(target, string(content))
		}); err != nil {
			return fmt.Errorf("load %s: %w", target, err)
		}
		loaded++
		return nil
	})
	return loaded, err
}
