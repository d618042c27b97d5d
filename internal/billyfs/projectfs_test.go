package billyfs

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preview-labs/prevu/internal/config"
	"github.com/preview-labs/prevu/internal/session"
	"github.com/preview-labs/prevu/internal/vfs"
)

func newFS(t *testing.T, files map[string]string) (*ProjectFS, *session.Session) {
	t.Helper()
	sess := session.New(config.Default())
	require.NoError(t, sess.Do(func(fs *vfs.FS) error {
		for path, content := range files {
			if err := fs.CreateFileWithParents(path, content); err != nil {
				return err
			}
		}
		return nil
	}))
	return New(sess), sess
}

func TestOpenReadsContent(t *testing.T) {
	p, _ := newFS(t, map[string]string{"/App.jsx": "export default () => null;"})

	f, err := p.Open("/App.jsx")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "export default () => null;", string(data))
	require.NoError(t, f.Close())
}

func TestOpenMissingAndDirectory(t *testing.T) {
	p, _ := newFS(t, map[string]string{"/src/a.js": "1"})

	_, err := p.Open("/nope.js")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = p.Open("/src")
	assert.Error(t, err)
}

func TestWriteCommitsOnClose(t *testing.T) {
	p, sess := newFS(t, nil)

	f, err := p.Create("/App.jsx")
	require.NoError(t, err)
	_, err = f.Write([]byte("export default () => null;"))
	require.NoError(t, err)

	// Not visible until close.
	var before bool
	sess.Do(func(fs *vfs.FS) error {
		content, _ := fs.ReadFile("/App.jsx")
		before = content == ""
		return nil
	})
	assert.True(t, before)

	require.NoError(t, f.Close())
	var after string
	sess.Do(func(fs *vfs.FS) error {
		after, _ = fs.ReadFile("/App.jsx")
		return nil
	})
	assert.Equal(t, "export default () => null;", after)
}

func TestTruncateWithoutWriteDoesNotCommit(t *testing.T) {
	p, sess := newFS(t, map[string]string{"/App.jsx": "keep me"})

	f, err := p.OpenFile("/App.jsx", os.O_RDWR, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(0))
	require.NoError(t, f.Close())

	var content string
	sess.Do(func(fs *vfs.FS) error {
		content, _ = fs.ReadFile("/App.jsx")
		return nil
	})
	assert.Equal(t, "keep me", content)
}

func TestMountEditsDrivePreview(t *testing.T) {
	p, sess := newFS(t, nil)

	f, err := p.Create("/App.jsx")
	require.NoError(t, err)
	_, err = f.Write([]byte(`export default () => <h1>mounted</h1>;`))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Contains(t, sess.Preview(), "importmap")
	assert.Equal(t, "/App.jsx", sess.Entry())
}

func TestRenameAndRemove(t *testing.T) {
	p, _ := newFS(t, map[string]string{"/dir/x.js": "1"})

	require.NoError(t, p.Rename("/dir", "/dir2"))
	_, err := p.Lstat("/dir2/x.js")
	require.NoError(t, err)

	require.NoError(t, p.Remove("/dir2"))
	_, err = p.Lstat("/dir2")
	assert.ErrorIs(t, err, os.ErrNotExist)

	assert.Error(t, p.Remove("/dir2"))
}

func TestReadDirListsChildren(t *testing.T) {
	p, _ := newFS(t, map[string]string{
		"/src/a.js": "1",
		"/src/b.js": "22",
	})

	infos, err := p.ReadDir("/src")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a.js", infos[0].Name())
	assert.Equal(t, int64(1), infos[0].Size())
	assert.Equal(t, "b.js", infos[1].Name())

	_, err = p.ReadDir("/nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMkdirAll(t *testing.T) {
	p, _ := newFS(t, map[string]string{"/f.js": "1"})

	require.NoError(t, p.MkdirAll("/a/b/c", 0o755))
	info, err := p.Lstat("/a/b/c")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Existing directory is fine; a file in the way is not.
	require.NoError(t, p.MkdirAll("/a/b", 0o755))
	assert.Error(t, p.MkdirAll("/f.js", 0o755))
}
