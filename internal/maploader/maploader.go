// Package maploader adapts internal/mapselect and internal/mapinfo to the
// orchestrator's MapLoader seam. It is kept separate from both so neither
// the filesystem-scanning package nor the map-value package needs to
// import the orchestrator package, avoiding an import cycle.
package maploader

import (
	"path/filepath"

	"github.com/PhilippHeuer/ghostpp/internal/mapinfo"
	"github.com/PhilippHeuer/ghostpp/internal/mapselect"
	"github.com/PhilippHeuer/ghostpp/internal/orchestrator"
)

// Loader implements orchestrator.MapLoader over a mapselect.Selector.
type Loader struct {
	Selector *mapselect.Selector
}

// New returns a Loader rooted at the given map directory.
func New(sel *mapselect.Selector) *Loader {
	return &Loader{Selector: sel}
}

// ListRandomCandidates enumerates every map file for randommap_type=random.
func (l *Loader) ListRandomCandidates() ([]string, error) {
	return l.Selector.ListMaps("")
}

// LoadMap resolves filename against the selector's map directory and loads
// it as a minimal mapinfo.Info.
func (l *Loader) LoadMap(filename string) (orchestrator.Map, error) {
	path := filepath.Join(l.Selector.MapPath, filename)
	info, err := mapinfo.Load(path, mapinfo.Config{})
	if err != nil {
		return nil, err
	}
	return info, nil
}
