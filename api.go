package skemagen

import (
	"context"
	"path"

	"github.com/hashicorp/go-multierror"
	slogctx "github.com/veqryn/slog-context"

	"github.com/reoring/skemagen/internal/diag"
	"github.com/reoring/skemagen/internal/encode"
	"github.com/reoring/skemagen/internal/gen"
	"github.com/reoring/skemagen/internal/semantic"
)

// Generate resolves nss and renders one file per namespace. Namespaces that
// fail are left out of the returned files; the error aggregates their
// failures.
func Generate(ctx context.Context, nss []*Namespace, opts Options) ([]File, error) {
	log := slogctx.FromCtx(ctx)
	res, err := Inspect(ctx, nss, opts)
	var errs *multierror.Error
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	genOpts := gen.Options{
		JSONPackage:   opts.JSONPackage,
		RuntimeImport: opts.RuntimeImport,
		Packages:      packageFunc(res, opts.ImportBase),
	}
	owners := map[string]string{}
	var files []File
	for _, ns := range res.Namespaces {
		if other, dup := owners[ns.Package]; dup {
			errs = multierror.Append(errs, diag.New(diag.CodeDuplicateSymbol, ns.Name, "",
				"package %s is already generated for namespace %s", ns.Package, other))
			continue
		}
		owners[ns.Package] = ns.Name
		f, err := gen.RenderNamespace(ctx, ns, genOpts)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		files = append(files, File{
			Namespace: ns.Name,
			Package:   ns.Package,
			Path:      path.Join(ns.Package, gen.FileName),
			Content:   f.Source,
		})
	}
	if errs != nil {
		log.Debug("generation failed", "namespaces", len(nss), "files", len(files), "errors", len(errs.Errors))
	}
	return files, errs.ErrorOrNil()
}

// Inspect runs resolution only. The result holds every namespace that
// resolved, even when err is non-nil.
func Inspect(ctx context.Context, nss []*Namespace, opts Options) (*Result, error) {
	return semantic.Build(ctx, nss, semantic.Options{
		Annotator:     opts.Annotator,
		WireMediaType: opts.WireMediaType,
		GoMediaType:   opts.GoMediaType,
	})
}

func packageFunc(res *semantic.Result, base string) encode.PackageFunc {
	if base == "" {
		return nil
	}
	return func(name string) (string, string, error) {
		ns := res.Namespace(name)
		if ns == nil {
			return "", "", diag.New(diag.CodeUnresolvedReference, name, "", "namespace was not generated")
		}
		return ns.Package, path.Join(base, ns.Package), nil
	}
}
