package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const zoo = `
namespace: Zoo
types:
  - model: Animal
    discriminator: kind
    properties:
      - {name: kind, type: string}
  - model: Lion
    extends: Animal
    properties:
      - {name: kind, type: {literal: lion}}
      - {name: mane, type: boolean, optional: true}
`

const broken = `
namespace: Broken
types:
  - model: Keeper
    properties:
      - {name: badge, type: Badge}
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"skemagen", "--no-color"}, args...))
	return stdout.String(), stderr.String(), err
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCompile(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "zoo.yaml", zoo)
	out := filepath.Join(dir, "gen")

	stdout, _, err := run(t, "compile", "--out", out, src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 files")

	data, err := os.ReadFile(filepath.Join(out, "zoo", "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func UnmarshalAnimal(data []byte) (Animal, error)")
}

func TestCompile_FailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	good := write(t, dir, "zoo.yaml", zoo)
	bad := write(t, dir, "broken.yaml", broken)
	out := filepath.Join(dir, "gen")

	_, stderr, err := run(t, "compile", "-o", out, good, bad)
	require.Error(t, err)
	assert.Contains(t, stderr, "unresolved reference")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompile_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "zoo.yaml", zoo)
	cfg := write(t, dir, "skemagen.yaml", "schemas: [zoo.yaml]\nout: models\njson_package: github.com/goccy/go-json\n")

	_, _, err := run(t, "--config", cfg, "compile")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "models", "zoo", "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `json "github.com/goccy/go-json"`)
}

func TestCompile_NoSchemas(t *testing.T) {
	_, _, err := run(t, "compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema files")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := write(t, dir, "zoo.yaml", zoo)

	stdout, _, err := run(t, "inspect", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Lion")
	assert.Contains(t, stdout, "variants Lion=")
	assert.Contains(t, stdout, "Mane *bool")
}
