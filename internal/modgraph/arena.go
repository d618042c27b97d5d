package modgraph

import (
	"encoding/base64"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/preview-labs/prevu/internal/config"
)

// ModuleArena owns every loadable-location handle minted during one
// build. Handles are never released one by one; when a new build
// supersedes this one the whole arena is dropped with Release.
type ModuleArena struct {
	cfg      config.Config
	next     uint32
	live     *roaring.Bitmap
	released bool
}

func NewArena(cfg config.Config) *ModuleArena {
	return &ModuleArena{cfg: cfg, live: roaring.New()}
}

// Materialize turns a module body into a self-contained loadable URL and
// records the handle. Content types outside the allow-list are refused.
func (a *ModuleArena) Materialize(contentType, body string) (string, error) {
	if a.released {
		return "", fmt.Errorf("materialize on released arena")
	}
	if !a.cfg.AllowsContentType(contentType) {
		return "", fmt.Errorf("content type %q not allowed for module materialization", contentType)
	}
	id := a.next
	a.next++
	a.live.Add(id)
	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	return "data:" + contentType + ";base64," + encoded, nil
}

// HandleCount reports how many live handles this arena holds.
func (a *ModuleArena) HandleCount() uint64 {
	return a.live.GetCardinality()
}

// Release drops every handle at once. Safe to call more than once.
func (a *ModuleArena) Release() {
	a.live.Clear()
	a.released = true
}

func (a *ModuleArena) Released() bool {
	return a.released
}
