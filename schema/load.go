package schema

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/skemagen/internal/ir"
)

// Format is the encoding of a schema document.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the format from a file extension; anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes every document in data. A YAML stream may hold several
// documents; a JSON input is one document or a list of them.
func Parse(name string, data []byte, f Format) ([]*ir.Namespace, error) {
	var docs []any
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, errors.Errorf("%s: %w", name, err)
		}
		if l, ok := v.([]any); ok {
			docs = l
		} else {
			docs = []any{v}
		}
	default:
		var err error
		if docs, err = newYAMLReader(bytes.NewReader(data)).readAll(); err != nil {
			return nil, errors.Errorf("%s: %w", name, err)
		}
	}

	out := make([]*ir.Namespace, 0, len(docs))
	for i, d := range docs {
		path := name
		if len(docs) > 1 {
			path = name + "#" + strconv.Itoa(i)
		}
		ns, err := decodeDocument(path, d)
		if err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, nil
}

// Load reads the given files concurrently and parses them in argument order.
// Documents declaring the same namespace are merged, see Merge.
func Load(ctx context.Context, paths ...string) ([]*ir.Namespace, error) {
	log := slogctx.FromCtx(ctx)
	contents := make([][]byte, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			b, err := os.ReadFile(p)
			if err != nil {
				return errors.Errorf("read schema: %w", err)
			}
			contents[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*ir.Namespace
	for i, p := range paths {
		nss, err := Parse(p, contents[i], FormatOf(p))
		if err != nil {
			return nil, err
		}
		log.Debug("loaded schema", "path", p, "documents", len(nss))
		all = append(all, nss...)
	}
	return Merge(all), nil
}

// Merge combines namespaces sharing a name. Decorators and declarations are
// concatenated in input order; the first occurrence fixes the position.
func Merge(nss []*ir.Namespace) []*ir.Namespace {
	byName := map[string]*ir.Namespace{}
	var out []*ir.Namespace
	for _, ns := range nss {
		prev, ok := byName[ns.Name]
		if !ok {
			cp := &ir.Namespace{
				Name:       ns.Name,
				Decorators: append([]ir.Decorator(nil), ns.Decorators...),
				Decls:      append([]ir.Decl(nil), ns.Decls...),
			}
			byName[ns.Name] = cp
			out = append(out, cp)
			continue
		}
		prev.Decorators = append(prev.Decorators, ns.Decorators...)
		prev.Decls = append(prev.Decls, ns.Decls...)
	}
	return out
}
