package maploader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilippHeuer/ghostpp/internal/mapselect"
)

func TestListRandomCandidatesDelegatesToSelector(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "DotA-v6.83d.w3x"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	l := New(mapselect.New(dir, dir))

	candidates, err := l.ListRandomCandidates()
	require.NoError(t, err)
	assert.Equal(t, []string{"DotA-v6.83d.w3x"}, candidates)
}

func TestLoadMapJoinsSelectorMapPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "DotA-v6.83d.w3x"), []byte("x"), 0o644))

	l := New(mapselect.New(dir, dir))

	m, err := l.LoadMap("DotA-v6.83d.w3x")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.Valid())
	assert.Equal(t, filepath.Join(dir, "DotA-v6.83d.w3x"), m.Path())
}

func TestLoadMapMissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	l := New(mapselect.New(dir, dir))

	_, err := l.LoadMap("missing.w3x")
	assert.Error(t, err)
}
