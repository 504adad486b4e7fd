package kyss

import (
	"strconv"
	"strings"
)

// Value is one node of the raw document tree: a Scalar, a Sequence or a
// Mapping, and nothing else. The raw tree never carries numbers, booleans or
// any other converted form; conversion is the schema layer's job.
type Value interface {
	// Line reports the 1-based line on which the node started. It exists for
	// diagnostics only and does not participate in equality.
	Line() int
	String() string

	isValue()
}

// Scalar is raw, comment-stripped, unquoted text.
type Scalar struct {
	Lno  int
	Text string
}

// Sequence is an ordered list of values.
type Sequence struct {
	Lno   int
	Items []Value
}

// Mapping is an ordered list of key/value entries. Keys are unique within one
// mapping; order is preserved for iteration and printing, not equality.
type Mapping struct {
	Lno     int
	Entries []Entry
}

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key    string
	KeyLno int
	Value  Value
}

func (Scalar) isValue()   {}
func (Sequence) isValue() {}
func (Mapping) isValue()  {}

func (s Scalar) Line() int   { return s.Lno }
func (s Sequence) Line() int { return s.Lno }
func (m Mapping) Line() int  { return m.Lno }

// Get returns the value for key and whether the key is present.
func (m Mapping) Get(key string) (Value, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Keys returns the mapping's keys in document order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		keys[i] = e.Key
	}
	return keys
}

// String renders the node on a single line, for error messages and debugging.
func (s Scalar) String() string { return strconv.Quote(s.Text) }

func (s Sequence) String() string {
	b := &strings.Builder{}
	b.WriteByte('[')
	for i, item := range s.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(item.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (m Mapping) String() string {
	b := &strings.Builder{}
	b.WriteByte('{')
	for i, e := range m.Entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(e.Key))
		b.WriteString(": ")
		b.WriteString(e.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Kind returns the node's kind word ("string", "sequence" or "mapping"), the
// vocabulary schema errors use.
func Kind(v Value) string {
	switch v.(type) {
	case Scalar:
		return "string"
	case Sequence:
		return "sequence"
	case Mapping:
		return "mapping"
	default:
		return "unknown"
	}
}
