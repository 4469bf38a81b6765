package schema

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a key that appears twice in one YAML mapping.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// yamlReader decodes a multi-document YAML stream into JSON-like values.
// Numbers keep their source text as json.Number so integer and float
// literals stay distinguishable.
type yamlReader struct {
	dec *yaml.Decoder
}

func newYAMLReader(r io.Reader) *yamlReader {
	return &yamlReader{dec: yaml.NewDecoder(r)}
}

// next returns the next document, or io.EOF.
func (r *yamlReader) next() (any, error) {
	var root yaml.Node
	if err := r.dec.Decode(&root); err != nil {
		return nil, err
	}
	return nodeValue(&root)
}

func (r *yamlReader) readAll() ([]any, error) {
	var out []any
	for {
		v, err := r.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, v)
		}
	}
}

func nodeValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if pos, dup := first[k.Value]; dup {
				return nil, &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[k.Value] = [2]int{k.Line, k.Column}
			val, err := nodeValue(v)
			if err != nil {
				return nil, err
			}
			m[k.Value] = val
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			if b, err := strconv.ParseBool(strings.ToLower(n.Value)); err == nil {
				return b, nil
			}
		case "!!int":
			return json.Number(strings.ReplaceAll(n.Value, "_", "")), nil
		case "!!float":
			if _, err := strconv.ParseFloat(n.Value, 64); err == nil {
				return json.Number(n.Value), nil
			}
		}
		return n.Value, nil
	}
	return nil, nil
}
