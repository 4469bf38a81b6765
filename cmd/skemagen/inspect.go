package main

import (
	"fmt"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"

	skemagen "github.com/reoring/skemagen"
	"github.com/reoring/skemagen/internal/encode"
	"github.com/reoring/skemagen/internal/semantic"
	"github.com/reoring/skemagen/internal/symbol"
	"github.com/reoring/skemagen/schema"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print the resolved symbols of every namespace",
		ArgsUsage: "SCHEMA...",
		Action:    runInspect,
	}
}

type namespaceView struct {
	Namespace string
	Package   string
	Symbols   []symbolView
}

type symbolView struct {
	Kind    string
	Name    string
	GoName  string
	Details []string
}

func runInspect(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	nss, err := schema.Load(c.Context, cfg.Schemas...)
	if err != nil {
		return err
	}
	res, buildErr := skemagen.Inspect(c.Context, nss, options(cfg))

	views := make([]namespaceView, 0, len(res.Namespaces))
	for _, ns := range res.Namespaces {
		views = append(views, viewNamespace(ns))
	}
	printer := pp.New()
	printer.SetOutput(c.App.Writer)
	printer.SetColoringEnabled(!c.Bool("no-color"))
	printer.Println(views)

	if buildErr != nil {
		for _, is := range skemagen.AsIssues(buildErr) {
			fmt.Fprintf(c.App.ErrWriter, "error: %s\n", is)
		}
		return cli.Exit("some namespaces failed to resolve", 1)
	}
	return nil
}

func viewNamespace(ns *semantic.Namespace) namespaceView {
	// Foreign namespaces are shown by name; nothing is imported.
	q := encode.NewQualifier(ns.Name, func(name string) (string, string, error) {
		return name, name, nil
	}, "nullable")
	v := namespaceView{Namespace: ns.Name, Package: ns.Package}
	for _, sym := range ns.Symbols {
		h := symbol.Info(sym)
		sv := symbolView{Kind: sym.Kind().String(), Name: h.Name, GoName: h.GoName}
		switch s := sym.(type) {
		case *symbol.Model:
			if s.Parent != nil {
				sv.Details = append(sv.Details, "extends "+s.Parent.GoName)
			}
			for _, f := range s.Fields {
				fp, err := encode.Field(f, q)
				if err != nil {
					sv.Details = append(sv.Details, f.Name+": "+err.Error())
					continue
				}
				line := fmt.Sprintf("%s %s json:%q %s", fp.GoName, fp.Decl, fp.WireName, fp.Shape)
				if fp.Shape == encode.Constant {
					line += " = " + fp.Value
				}
				sv.Details = append(sv.Details, line)
			}
		case *symbol.ValueUnion:
			for _, vv := range s.Variants {
				sv.Details = append(sv.Details, fmt.Sprintf("%s %s = %s", vv.GoName, s.Scalar.GoName, vv.Value.GoLiteral()))
			}
		case *symbol.TypeUnion:
			if s.Discriminator != nil {
				sv.Details = append(sv.Details, "discriminator "+s.Discriminator.WireName)
			}
			var names []string
			for _, tv := range s.Variants {
				tag, _ := tv.Tag()
				names = append(names, fmt.Sprintf("%s=%s", tv.Model.GoName, tag.GoLiteral()))
			}
			sv.Details = append(sv.Details, "variants "+strings.Join(names, ", "))
		}
		v.Symbols = append(v.Symbols, sv)
	}
	return v
}
