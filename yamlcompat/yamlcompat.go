// Package yamlcompat converts YAML documents into kyss values, so existing
// YAML configuration can be matched by kyss schemas during a migration.
//
// The conversion keeps the kyss data model: every scalar stays a string,
// whatever the YAML tag resolved it to. Mappings keep their key order and
// duplicate keys are rejected with both positions.
package yamlcompat

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gvx/kyss"
)

// DuplicateKeyError reports a duplicate key in a YAML mapping with both the
// first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at %d:%d (first defined at %d:%d)",
		e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// Reader decodes a multi-document YAML stream into kyss values.
type Reader struct {
	dec *yaml.Decoder
}

// NewReader constructs a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: yaml.NewDecoder(r)}
}

// Next returns the next document as a kyss value and io.EOF when the stream
// is exhausted.
func (r *Reader) Next() (kyss.Value, error) {
	var root yaml.Node
	if err := r.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return convert(&root, map[*yaml.Node]bool{})
}

// All returns every document in the stream.
func (r *Reader) All() ([]kyss.Value, error) {
	var out []kyss.Value
	for {
		v, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// Load converts the first YAML document in data.
func Load(data []byte) (kyss.Value, error) {
	v, err := NewReader(bytes.NewReader(data)).Next()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty document")
	}
	return v, err
}

// LoadString is Load for string input.
func LoadString(input string) (kyss.Value, error) {
	return Load([]byte(input))
}

func convert(n *yaml.Node, seen map[*yaml.Node]bool) (kyss.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return kyss.Scalar{Lno: n.Line, Text: ""}, nil
		}
		return convert(n.Content[0], seen)
	case yaml.AliasNode:
		if seen[n.Alias] {
			return nil, fmt.Errorf("line %d: recursive alias %q", n.Line, n.Value)
		}
		seen[n.Alias] = true
		v, err := convert(n.Alias, seen)
		delete(seen, n.Alias)
		return v, err
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return kyss.Scalar{Lno: n.Line, Text: ""}, nil
		}
		return kyss.Scalar{Lno: n.Line, Text: n.Value}, nil
	case yaml.SequenceNode:
		items := make([]kyss.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := convert(c, seen)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return kyss.Sequence{Lno: n.Line, Items: items}, nil
	case yaml.MappingNode:
		entries := make([]kyss.Entry, 0, len(n.Content)/2)
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			key := k.Value
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{
					Key:       key,
					FirstLine: pos[0],
					FirstCol:  pos[1],
					Line:      k.Line,
					Col:       k.Column,
				}
			}
			first[key] = [2]int{k.Line, k.Column}
			v, err := convert(n.Content[i+1], seen)
			if err != nil {
				return nil, err
			}
			entries = append(entries, kyss.Entry{Key: key, KeyLno: k.Line, Value: v})
		}
		return kyss.Mapping{Lno: n.Line, Entries: entries}, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}
