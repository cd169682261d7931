// Package mapselect discovers map and map-config files on disk for the
// autohost controller's randomization modes. Grounded on ghost.cpp's
// GetFilesInDirectory / GetMapsInDirectory / GetMapConfigsInDirectory: a
// non-recursive, case-insensitive substring scan filtered by extension.
package mapselect

import (
	"os"
	"path/filepath"
	"strings"
)

// Selector discovers map and map-config files under configured directories.
type Selector struct {
	MapPath    string
	MapCFGPath string
}

// New returns a Selector rooted at the given map and map-config directories.
func New(mapPath, mapCFGPath string) *Selector {
	return &Selector{MapPath: mapPath, MapCFGPath: mapCFGPath}
}

var mapExtensions = []string{".w3m", ".w3x"}

// ListMaps returns every file under MapPath whose extension is .w3m or
// .w3x and whose filename contains pattern, case-insensitively. Restores
// the original's commented-out "found multiple maps" listing behavior as
// an explicit, callable operation rather than a silent first-match pick.
func (s *Selector) ListMaps(pattern string) ([]string, error) {
	return listFilesInDirectory(s.MapPath, pattern, mapExtensions)
}

// ListMapConfigs returns every .cfg file under MapCFGPath matching pattern.
func (s *Selector) ListMapConfigs(pattern string) ([]string, error) {
	return listFilesInDirectory(s.MapCFGPath, pattern, []string{".cfg"})
}

func listFilesInDirectory(dir, pattern string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	lowerPattern := strings.ToLower(pattern)
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !hasAnyExtension(name, extensions) {
			continue
		}
		if lowerPattern != "" && !strings.Contains(strings.ToLower(name), lowerPattern) {
			continue
		}
		matches = append(matches, name)
	}
	return matches, nil
}

func hasAnyExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}
