package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SKEMAGEN_"

type Config struct {
	Schemas       []string `yaml:"schemas"`
	Out           string   `yaml:"out"`
	JSONPackage   string   `yaml:"json_package"`
	RuntimeImport string   `yaml:"runtime_import"`
	ImportBase    string   `yaml:"import_base"` // import path of the output directory
	WireMediaType string   `yaml:"wire_media_type"`
	GoMediaType   string   `yaml:"go_media_type"`
}

// Load reads the YAML file at path, if any, then applies SKEMAGEN_*
// environment overrides. A .env file next to the config, or in the working
// directory, seeds the environment without replacing variables already set.
// Relative schema paths in the file are resolved against its directory.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	}
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Errorf("parse config %s: %w", path, err)
		}
		dir := filepath.Dir(path)
		for i, s := range cfg.Schemas {
			if !filepath.IsAbs(s) {
				cfg.Schemas[i] = filepath.Join(dir, s)
			}
		}
		if cfg.Out != "" && !filepath.IsAbs(cfg.Out) {
			cfg.Out = filepath.Join(dir, cfg.Out)
		}
	}

	if v := env("SCHEMAS"); v != "" {
		cfg.Schemas = strings.Split(v, ",")
	}
	override(&cfg.Out, "OUT")
	override(&cfg.JSONPackage, "JSON_PACKAGE")
	override(&cfg.RuntimeImport, "RUNTIME_IMPORT")
	override(&cfg.ImportBase, "IMPORT_BASE")
	override(&cfg.WireMediaType, "WIRE_MEDIA_TYPE")
	override(&cfg.GoMediaType, "GO_MEDIA_TYPE")
	return &cfg, nil
}

func env(name string) string { return strings.TrimSpace(os.Getenv(EnvPrefix + name)) }

func override(dst *string, name string) {
	if v := env(name); v != "" {
		*dst = v
	}
}

// Validate checks the import paths the generated code will use.
func (c *Config) Validate() error {
	for _, p := range []struct{ field, value string }{
		{"json_package", c.JSONPackage},
		{"runtime_import", c.RuntimeImport},
		{"import_base", c.ImportBase},
	} {
		if p.value == "" {
			continue
		}
		if err := module.CheckImportPath(p.value); err != nil {
			return errors.Errorf("config %s: %w", p.field, err)
		}
	}
	return nil
}
