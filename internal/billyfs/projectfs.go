// Package billyfs adapts a live editing session to billy.Filesystem so
// the project tree can be served over NFS and edited with ordinary
// tools. Every mutation routes through the session's tree operations,
// so edits made through a mount drive preview rebuilds exactly like
// tool-call edits do.
package billyfs

import (
	"fmt"
	"os"
	"path"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/preview-labs/prevu/internal/session"
	"github.com/preview-labs/prevu/internal/vfs"
	"github.com/preview-labs/prevu/internal/vpath"
)

var errReadOnlyFile = fmt.Errorf("file is read-only")

// ProjectFS is the billy.Filesystem view of one session's tree.
type ProjectFS struct {
	sess      *session.Session
	mountTime time.Time
}

func New(sess *session.Session) *ProjectFS {
	return &ProjectFS{sess: sess, mountTime: time.Now()}
}

// --- billy.Basic ---

func (p *ProjectFS) Create(filename string) (billy.File, error) {
	filename = cleanPath(filename)
	err := p.sess.Do(func(fs *vfs.FS) error {
		if fs.Exists(filename) {
			return nil
		}
		return fs.CreateFileWithParents(filename, "")
	})
	if err != nil {
		return nil, &os.PathError{Op: "create", Path: filename, Err: err}
	}
	return &writeFile{name: filename, onClose: p.commit}, nil
}

func (p *ProjectFS) Open(filename string) (billy.File, error) {
	return p.OpenFile(filename, os.O_RDONLY, 0)
}

func (p *ProjectFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	filename = cleanPath(filename)
	writing := flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC) != 0

	var content string
	var isDir, found bool
	_ = p.sess.Do(func(fs *vfs.FS) error {
		if n := fs.GetNode(filename); n != nil {
			found = true
			isDir = n.IsDir()
			content = n.Content
		}
		return nil
	})

	if isDir {
		return nil, &os.PathError{Op: "open", Path: filename, Err: fmt.Errorf("is a directory")}
	}
	if !writing {
		if !found {
			return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
		}
		return &bytesFile{name: filename, data: []byte(content)}, nil
	}

	if !found && flag&os.O_CREATE == 0 {
		return nil, &os.PathError{Op: "open", Path: filename, Err: os.ErrNotExist}
	}
	f := &writeFile{name: filename, onClose: p.commit}
	if found && flag&os.O_TRUNC == 0 {
		f.buf = []byte(content)
	}
	return f, nil
}

// commit is the close hook for writable files: the buffered content
// becomes the file's new content in one session mutation.
func (p *ProjectFS) commit(filename string, content []byte) error {
	return p.sess.Do(func(fs *vfs.FS) error {
		return fs.CreateFileWithParents(filename, string(content))
	})
}

func (p *ProjectFS) Stat(filename string) (os.FileInfo, error) {
	return p.Lstat(filename)
}

func (p *ProjectFS) Rename(oldpath, newpath string) error {
	oldpath, newpath = cleanPath(oldpath), cleanPath(newpath)
	var moved bool
	err := p.sess.Do(func(fs *vfs.FS) error {
		ok, err := fs.Rename(oldpath, newpath)
		moved = ok
		return err
	})
	if err != nil {
		return &os.PathError{Op: "rename", Path: oldpath, Err: err}
	}
	if !moved {
		return &os.PathError{Op: "rename", Path: oldpath, Err: os.ErrInvalid}
	}
	return nil
}

func (p *ProjectFS) Remove(filename string) error {
	filename = cleanPath(filename)
	var removed bool
	_ = p.sess.Do(func(fs *vfs.FS) error {
		removed = fs.Delete(filename)
		return nil
	})
	if !removed {
		return &os.PathError{Op: "remove", Path: filename, Err: os.ErrNotExist}
	}
	return nil
}

func (p *ProjectFS) Join(elem ...string) string {
	return path.Join(elem...)
}

// --- billy.TempFile ---

func (p *ProjectFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrNotSupported
}

// --- billy.Dir ---

func (p *ProjectFS) ReadDir(dirpath string) ([]os.FileInfo, error) {
	dirpath = cleanPath(dirpath)
	var children []*vfs.Node
	var exists bool
	_ = p.sess.Do(func(fs *vfs.FS) error {
		if n := fs.GetNode(dirpath); n != nil && n.IsDir() {
			exists = true
			children = fs.ListDirectory(dirpath)
		}
		return nil
	})
	if !exists {
		return nil, &os.PathError{Op: "readdir", Path: dirpath, Err: os.ErrNotExist}
	}

	infos := make([]os.FileInfo, 0, len(children))
	for _, child := range children {
		infos = append(infos, p.nodeInfo(child))
	}
	return infos, nil
}

func (p *ProjectFS) MkdirAll(filename string, perm os.FileMode) error {
	filename = cleanPath(filename)
	err := p.sess.Do(func(fs *vfs.FS) error {
		if n := fs.GetNode(filename); n != nil {
			if n.IsDir() {
				return nil
			}
			return fmt.Errorf("%s exists as a file", filename)
		}
		if _, err := fs.CreateDirectory(filename); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return &os.PathError{Op: "mkdir", Path: filename, Err: err}
	}
	return nil
}

// --- billy.Symlink ---

func (p *ProjectFS) Lstat(filename string) (os.FileInfo, error) {
	filename = cleanPath(filename)
	var info os.FileInfo
	_ = p.sess.Do(func(fs *vfs.FS) error {
		if n := fs.GetNode(filename); n != nil {
			info = p.nodeInfo(n)
		}
		return nil
	})
	if info == nil {
		return nil, &os.PathError{Op: "lstat", Path: filename, Err: os.ErrNotExist}
	}
	return info, nil
}

func (p *ProjectFS) Symlink(target, link string) error {
	return billy.ErrNotSupported
}

func (p *ProjectFS) Readlink(link string) (string, error) {
	return "", billy.ErrNotSupported
}

// --- billy.Chroot ---

func (p *ProjectFS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(p, path), nil
}

func (p *ProjectFS) Root() string {
	return "/"
}

// --- billy.Capable ---

func (p *ProjectFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.WriteCapability | billy.SeekCapability
}

// --- internals ---

func (p *ProjectFS) nodeInfo(n *vfs.Node) os.FileInfo {
	name := n.Name
	if name == "" {
		name = "/"
	}
	mode := os.FileMode(0o644)
	var size int64
	if n.IsDir() {
		mode = os.ModeDir | 0o755
	} else {
		size = int64(len(n.Content))
	}
	return &staticFileInfo{name: name, size: size, mode: mode, modTime: p.mountTime}
}

func cleanPath(p string) string {
	return vpath.Normalize(p)
}

// staticFileInfo implements os.FileInfo with static values.
type staticFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (fi *staticFileInfo) Name() string       { return fi.name }
func (fi *staticFileInfo) Size() int64        { return fi.size }
func (fi *staticFileInfo) Mode() os.FileMode  { return fi.mode }
func (fi *staticFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *staticFileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *staticFileInfo) Sys() interface{}   { return nil }

var (
	_ billy.Filesystem = (*ProjectFS)(nil)
	_ billy.Capable    = (*ProjectFS)(nil)
)
