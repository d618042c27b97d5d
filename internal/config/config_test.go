package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 256*1024, cfg.MaxFileSize)
	assert.Equal(t, 256, cfg.MaxFiles)
	assert.Equal(t, "@/", cfg.AliasPrefix)
	assert.Equal(t, "https://esm.sh/", cfg.CDNBase)
	assert.Contains(t, cfg.EntryCandidates, "/App.jsx")
}

func TestPathClassification(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsSourcePath("/App.jsx"))
	assert.True(t, cfg.IsSourcePath("/a/b.tsx"))
	assert.False(t, cfg.IsSourcePath("/style.css"))
	assert.False(t, cfg.IsSourcePath("jsx"))

	assert.True(t, cfg.IsStylePath("/style.css"))
	assert.False(t, cfg.IsStylePath("/App.jsx"))
}

func TestAllowsContentType(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.AllowsContentType("text/javascript"))
	assert.True(t, cfg.AllowsContentType("text/css"))
	assert.False(t, cfg.AllowsContentType("text/html"))
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prevu.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
max_file_size = 1024
max_files     = 8
react_version = "19.0.0"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.MaxFileSize)
	assert.Equal(t, 8, cfg.MaxFiles)
	assert.Equal(t, "19.0.0", cfg.ReactVersion)

	// Untouched settings keep their defaults.
	assert.Equal(t, "@/", cfg.AliasPrefix)
	assert.Equal(t, 512, cfg.MaxPathLen)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.Error(t, err)
}
