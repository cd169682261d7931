// Package mapinfo is the minimal concrete map representation the
// orchestrator needs to validate and pass through to realms. Map binary
// parsing, CRC, and MPQ handling are not implemented — Info only tracks
// what the filesystem and a companion .cfg file can tell it.
package mapinfo

import (
	"os"
	"path/filepath"
)

// Info implements orchestrator.Map without importing the orchestrator
// package, avoiding a dependency cycle.
type Info struct {
	path                 string
	matchmakingCategory  string
	fixedPlayerSettings  bool
}

// Load stats path to confirm it exists and returns an Info wrapping it.
// cfg carries the two optional properties a map .cfg file may declare;
// pass a zero Config when none is available.
func Load(path string, cfg Config) (*Info, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &Info{
		path:                filepath.Clean(path),
		matchmakingCategory: cfg.MatchmakingCategory,
		fixedPlayerSettings: cfg.FixedPlayerSettings,
	}, nil
}

// Config is the subset of a map's .cfg metadata the autohost controller's
// matchmaking gate needs.
type Config struct {
	MatchmakingCategory string
	FixedPlayerSettings bool
}

func (i *Info) Valid() bool                  { return i != nil && i.path != "" }
func (i *Info) Path() string                 { return i.path }
func (i *Info) MatchmakingCategory() string  { return i.matchmakingCategory }
func (i *Info) HasFixedPlayerSettings() bool { return i.fixedPlayerSettings }
