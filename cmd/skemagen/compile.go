package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	skemagen "github.com/reoring/skemagen"
	"github.com/reoring/skemagen/internal/config"
	"github.com/reoring/skemagen/schema"
)

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "write <out>/<package>/models.go for every namespace",
		ArgsUsage: "SCHEMA...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output directory"},
			&cli.StringFlag{Name: "json-package", Usage: "JSON package imported by generated code"},
			&cli.StringFlag{Name: "runtime-import", Usage: "import path of the nullable runtime"},
			&cli.StringFlag{Name: "import-base", Usage: "import path of the output directory"},
		},
		Action: runCompile,
	}
}

// loadConfig merges the config file, environment and command flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.Args().Present() {
		cfg.Schemas = c.Args().Slice()
	}
	for flag, dst := range map[string]*string{
		"out":            &cfg.Out,
		"json-package":   &cfg.JSONPackage,
		"runtime-import": &cfg.RuntimeImport,
		"import-base":    &cfg.ImportBase,
	} {
		if c.IsSet(flag) {
			*dst = c.String(flag)
		}
	}
	if len(cfg.Schemas) == 0 {
		return nil, errors.New("no schema files given")
	}
	return cfg, cfg.Validate()
}

func options(cfg *config.Config) skemagen.Options {
	return skemagen.Options{
		JSONPackage:   cfg.JSONPackage,
		RuntimeImport: cfg.RuntimeImport,
		ImportBase:    cfg.ImportBase,
		WireMediaType: cfg.WireMediaType,
		GoMediaType:   cfg.GoMediaType,
	}
}

func runCompile(c *cli.Context) error {
	ctx := c.Context
	log := slogctx.FromCtx(ctx)
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	out := cfg.Out
	if out == "" {
		out = "."
	}

	nss, err := schema.Load(ctx, cfg.Schemas...)
	if err != nil {
		return err
	}
	files, err := skemagen.Generate(ctx, nss, options(cfg))
	if err != nil {
		for _, is := range skemagen.AsIssues(err) {
			fmt.Fprintf(c.App.ErrWriter, "error: %s\n", is)
		}
		return cli.Exit(fmt.Sprintf("generation failed, nothing written: %s", err), 1)
	}

	g, _ := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		g.Go(func() error {
			dst := filepath.Join(out, filepath.FromSlash(f.Path))
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return errors.Errorf("create %s: %w", filepath.Dir(dst), err)
			}
			if err := os.WriteFile(dst, f.Content, 0o644); err != nil {
				return errors.Errorf("write %s: %w", dst, err)
			}
			log.Debug("wrote file", "namespace", f.Namespace, "path", dst)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var total uint64
	for _, f := range files {
		size := uint64(len(f.Content))
		total += size
		fmt.Fprintf(c.App.Writer, "%-40s %s\n", filepath.Join(out, filepath.FromSlash(f.Path)), humanize.Bytes(size))
	}
	fmt.Fprintf(c.App.Writer, "%d files, %s\n", len(files), humanize.Bytes(total))
	return nil
}
