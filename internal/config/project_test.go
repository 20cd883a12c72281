package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProject(t *testing.T) {
	p := DefaultProject()
	assert.Equal(t, []string{"."}, p.SourceDirs)
	assert.Equal(t, 8, p.WorkerPoolSize)
	assert.Equal(t, 1e-9, p.FloatEpsilon)
}

func TestLoadProjectMissingFileReturnsDefault(t *testing.T) {
	p, err := LoadProject(filepath.Join(t.TempDir(), "forge.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultProject(), p)
}

func TestLoadProjectParsesAndFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forge.yaml")
	yaml := `
sourceDirs:
  - ./lib
  - ./vendor
workerPoolSize: 4
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	p, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./lib", "./vendor"}, p.SourceDirs)
	assert.Equal(t, 4, p.WorkerPoolSize)
	assert.Equal(t, 1e-9, p.FloatEpsilon, "unset fields fall back to defaults")
}

func TestLoadProjectRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sourceDirs: [unterminated"), 0o644))

	_, err := LoadProject(path)
	assert.Error(t, err)
}

func TestTrimAndHasSourceExt(t *testing.T) {
	assert.True(t, HasSourceExt("mod.fgast"))
	assert.True(t, HasSourceExt("mod.fgjson"))
	assert.False(t, HasSourceExt("mod.txt"))

	assert.Equal(t, "mod", TrimSourceExt("mod.fgast"))
	assert.Equal(t, "mod", TrimSourceExt("mod.fgjson"))
	assert.Equal(t, "mod.txt", TrimSourceExt("mod.txt"))
}
