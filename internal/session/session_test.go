package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preview-labs/prevu/internal/config"
	"github.com/preview-labs/prevu/internal/vfs"
)

func write(t *testing.T, s *Session, path, content string) {
	t.Helper()
	require.NoError(t, s.Do(func(fs *vfs.FS) error {
		return fs.CreateFileWithParents(path, content)
	}))
}

func TestPreviewEmptyProject(t *testing.T) {
	s := New(config.Default())
	assert.Contains(t, s.Preview(), "No components yet")
	assert.Equal(t, "", s.Entry())
}

func TestPreviewRebuildsOnEpochChange(t *testing.T) {
	s := New(config.Default())
	write(t, s, "/App.jsx", `export default () => <h1>one</h1>;`)
	first := s.Preview()
	assert.Contains(t, first, "importmap")

	// Unchanged tree returns the cached artifact.
	assert.Equal(t, first, s.Preview())

	require.NoError(t, s.Do(func(fs *vfs.FS) error {
		return fs.CreateFileWithParents("/App.jsx", `export default () => <h1>two</h1>;`)
	}))
	assert.NotEqual(t, first, s.Preview())
}

func TestEntryCandidateOrder(t *testing.T) {
	// No candidate present: first source file in path order.
	s := New(config.Default())
	write(t, s, "/zz.jsx", `export default () => null;`)
	write(t, s, "/aa.jsx", `export default () => null;`)
	assert.Equal(t, "/aa.jsx", s.Entry())

	// Conventional candidates beat the path-order fallback, in order.
	s = New(config.Default())
	write(t, s, "/zz.jsx", `export default () => null;`)
	write(t, s, "/index.jsx", `export default () => null;`)
	write(t, s, "/App.jsx", `export default () => null;`)
	assert.Equal(t, "/App.jsx", s.Entry())
}

func TestEntrySurvivesWhileItExists(t *testing.T) {
	s := New(config.Default())
	write(t, s, "/App.jsx", `export default () => null;`)
	write(t, s, "/Other.jsx", `export default () => null;`)
	require.True(t, s.SetEntry("/Other.jsx"))
	assert.Equal(t, "/Other.jsx", s.Entry())

	// Creating a higher-priority candidate does not steal the entry.
	write(t, s, "/index.jsx", `export default () => null;`)
	assert.Equal(t, "/Other.jsx", s.Entry())

	// Deleting the active entry falls back to the candidate list.
	s.Do(func(fs *vfs.FS) error {
		fs.Delete("/Other.jsx")
		return nil
	})
	assert.Equal(t, "/App.jsx", s.Entry())
}

func TestSetEntryRejectsMissingOrNonSource(t *testing.T) {
	s := New(config.Default())
	write(t, s, "/notes.css", "body {}")
	assert.False(t, s.SetEntry("/gone.jsx"))
	assert.False(t, s.SetEntry("/notes.css"))
}

func TestArenaReleasedOnRebuild(t *testing.T) {
	s := New(config.Default())
	write(t, s, "/App.jsx", `export default () => null;`)
	s.Preview()
	firstBuild := s.lastBuild
	require.NotNil(t, firstBuild)

	write(t, s, "/B.jsx", `export default () => null;`)
	s.Preview()

	assert.True(t, firstBuild.Arena.Released())
	assert.False(t, s.lastBuild.Arena.Released())
}

func TestDescribeReportsErrors(t *testing.T) {
	s := New(config.Default())
	write(t, s, "/bad.jsx", "const x = ;")
	st := s.Describe()
	require.Len(t, st.Errors, 1)
	assert.Contains(t, st.Errors[0], "/bad.jsx")
	assert.Equal(t, 1, st.FileCount)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New(config.Default())
	write(t, s, "/App.jsx", `export default () => <p>hi</p>;`)
	write(t, s, "/App.css", "p { color: red }")
	snap := s.Snapshot()

	restored := New(config.Default())
	require.NoError(t, restored.LoadSnapshot(snap))
	assert.Equal(t, "/App.jsx", restored.Entry())
	assert.Contains(t, restored.Preview(), "/* /App.css */")
}

func TestResetClearsEverything(t *testing.T) {
	s := New(config.Default())
	write(t, s, "/App.jsx", `export default () => null;`)
	s.Preview()
	s.Reset()
	assert.Equal(t, "", s.Entry())
	assert.Contains(t, s.Preview(), "No components yet")
}
