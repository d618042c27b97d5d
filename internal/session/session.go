// Package session owns one live editing session: a virtual tree, the
// build pipeline, and the currently displayed artifact. Mutations are
// serialized through the session lock; each epoch change triggers a
// full stateless rebuild on the next preview request.
package session

import (
	"sort"
	"sync"

	"github.com/preview-labs/prevu/api"
	"github.com/preview-labs/prevu/internal/config"
	"github.com/preview-labs/prevu/internal/modgraph"
	"github.com/preview-labs/prevu/internal/preview"
	"github.com/preview-labs/prevu/internal/vfs"
)

// Session drives one project. Exactly one logical editor stream mutates
// it; the lock serializes tool calls, HTTP handlers, and mounts.
type Session struct {
	mu       sync.Mutex
	cfg      config.Config
	fs       *vfs.FS
	builder  *modgraph.Builder
	renderer *preview.Renderer

	entry      string
	artifact   string
	lastBuild  *modgraph.BuildResult
	builtEpoch uint64
	built      bool
}

func New(cfg config.Config) *Session {
	return &Session{
		cfg:      cfg,
		fs:       vfs.New(cfg),
		builder:  modgraph.NewBuilder(cfg),
		renderer: preview.New(cfg),
	}
}

// Do runs fn with exclusive access to the tree. All mutations go
// through here so epoch observation stays consistent.
func (s *Session) Do(fn func(fs *vfs.FS) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.fs)
}

// Preview returns the current artifact, rebuilding first if the tree
// changed since the last build. The previous build's arena is released
// when a new build supersedes it.
func (s *Session) Preview() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildIfStale()
	return s.artifact
}

// PreviewFrame returns the artifact wrapped in its sandboxed host frame.
func (s *Session) PreviewFrame() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildIfStale()
	return s.renderer.WrapFrame(s.artifact)
}

func (s *Session) rebuildIfStale() {
	if s.built && s.fs.Epoch() == s.builtEpoch {
		return
	}
	build := s.builder.Build(s.fs)
	s.entry = s.pickEntry()
	s.artifact = s.renderer.Render(s.entry, build)

	if s.lastBuild != nil {
		s.lastBuild.Arena.Release()
	}
	s.lastBuild = build
	s.builtEpoch = s.fs.Epoch()
	s.built = true
}

// pickEntry applies the entry-point policy: keep the previous entry if
// it still exists, else try the conventional candidates in order, else
// fall back to the first source file.
func (s *Session) pickEntry() string {
	if s.entry != "" && s.fs.Exists(s.entry) && s.cfg.IsSourcePath(s.entry) {
		return s.entry
	}
	for _, candidate := range s.cfg.EntryCandidates {
		if s.fs.Exists(candidate) {
			return candidate
		}
	}
	var sources []string
	for p := range s.fs.AllFiles() {
		if s.cfg.IsSourcePath(p) {
			sources = append(sources, p)
		}
	}
	if len(sources) == 0 {
		return ""
	}
	sort.Strings(sources)
	return sources[0]
}

// Entry reports the active entry point, recomputing it if stale.
func (s *Session) Entry() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildIfStale()
	return s.entry
}

// SetEntry pins the entry point to an existing source file.
func (s *Session) SetEntry(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fs.Exists(path) || !s.cfg.IsSourcePath(path) {
		return false
	}
	s.entry = path
	s.built = false
	return true
}

// Status is a point-in-time summary for status reporting.
type Status struct {
	Epoch     uint64
	FileCount int
	Entry     string
	Errors    []string
}

// Describe rebuilds if needed and summarizes the session state.
func (s *Session) Describe() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildIfStale()
	st := Status{
		Epoch:     s.fs.Epoch(),
		FileCount: s.fs.FileCount(),
		Entry:     s.entry,
	}
	if s.lastBuild != nil {
		for _, e := range s.lastBuild.Errors {
			st.Errors = append(st.Errors, e.Error())
		}
	}
	return st
}

// Snapshot serializes the whole tree for persistence.
func (s *Session) Snapshot() api.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Serialize()
}

// LoadSnapshot replaces the tree with a persisted one.
func (s *Session) LoadSnapshot(snap api.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.DeserializeNodes(snap); err != nil {
		return err
	}
	s.built = false
	return nil
}

// Reset discards the whole project.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fs.Reset()
	s.entry = ""
	s.built = false
}
