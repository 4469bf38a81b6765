package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skemagen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schemas: [zoo.yaml, /abs/farm.yaml]
out: gen
json_package: github.com/goccy/go-json
import_base: example.com/zoo/gen
`), 0o644))
	t.Setenv("SKEMAGEN_IMPORT_BASE", "example.com/override/gen")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "zoo.yaml"), "/abs/farm.yaml"}, cfg.Schemas)
	assert.Equal(t, filepath.Join(dir, "gen"), cfg.Out)
	assert.Equal(t, "github.com/goccy/go-json", cfg.JSONPackage)
	assert.Equal(t, "example.com/override/gen", cfg.ImportBase)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skemagen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("out: gen\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SKEMAGEN_RUNTIME_IMPORT=example.com/rt\n"), 0o644))
	os.Unsetenv("SKEMAGEN_RUNTIME_IMPORT")
	t.Cleanup(func() { os.Unsetenv("SKEMAGEN_RUNTIME_IMPORT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "example.com/rt", cfg.RuntimeImport)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("SKEMAGEN_SCHEMAS", "a.yaml,b.json")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.yaml", "b.json"}, cfg.Schemas)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Config{JSONPackage: "encoding/json"}).Validate())
	err := (&Config{ImportBase: "bad path/with space"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import_base")
}
