package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "latest.txt"))
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSaveCreatesDirectoriesAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states", "nested", "latest.txt")
	s := NewFileStore(path)

	require.NoError(t, s.Save("r0005000101"+"AA"))
	require.NoError(t, s.Save("r00050001FF\n"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "r00050001FF", got)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "r00050001FF\n", string(b))
}

func TestLoadFirstLineOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.txt")
	require.NoError(t, os.WriteFile(path, []byte("  r000500D7XX  \nsecond line\n"), 0o644))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "r000500D7XX", got)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
