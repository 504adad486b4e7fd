package kyss

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gvx/kyss/internal/scanner"
)

// Parse reads one document and returns its value tree. The tree preserves
// mapping entry order and carries line numbers for diagnostics; scalars stay
// strings until a schema interprets them.
func Parse(data []byte) (Value, error) {
	return ParseString(string(data))
}

// ParseString is Parse for string input.
func ParseString(input string) (Value, error) {
	b := &builder{src: scanner.New(input)}
	return b.run()
}

// ParseReader reads r to EOF and parses the document. The format is
// line-oriented and folding needs lookahead, so input is buffered whole.
func ParseReader(r io.Reader) (Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ParseFile reads and parses the file at path.
func ParseFile(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// ---- tree builder (classified lines -> Value) ----

type frameKind int

const (
	frameSeq frameKind = iota
	frameMap
	frameScalar
)

// frame is one level of the container stack. A frame holds its children as
// they accumulate plus, for sequences and mappings, the state of a slot
// still waiting for a nested block.
type frame struct {
	kind  frameKind
	depth int
	lno   int

	items   []Value        // frameSeq
	entries []Entry        // frameMap
	keys    map[string]int // key -> first definition line

	parts  []string // frameScalar: folded lines, joined with single spaces
	quoted bool

	pending    bool
	pendingLno int
	pendingCol int
	pendingKey string
	pendingSrc string
}

type builder struct {
	src    *scanner.Source
	stack  []*frame
	result Value
}

func (b *builder) run() (Value, error) {
	for {
		ln, err := b.src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, convertScanError(err)
		}
		if err := b.feed(ln); err != nil {
			return nil, err
		}
	}
	if len(b.stack) == 0 {
		return nil, &SyntaxError{Line: 1, Col: 1, Msg: "empty document"}
	}
	for len(b.stack) > 0 {
		if err := b.popFrame(); err != nil {
			return nil, err
		}
	}
	return b.result, nil
}

func (b *builder) top() *frame { return b.stack[len(b.stack)-1] }

// feed routes one classified line: fold into an open scalar block, pop
// frames on outdent, extend a sibling frame, or open nested frames after a
// value-less slot.
func (b *builder) feed(ln scanner.Line) error {
	if len(b.stack) == 0 {
		// First content line; its depth and shape fix the root frame.
		return b.open(ln, ln.Markers)
	}

	top := b.top()
	if top.kind == frameScalar {
		switch {
		case ln.Depth == top.depth && len(ln.Markers) == 0 && ln.Payload == scanner.PayloadScalar:
			if top.quoted {
				return syntaxAt(ln, ln.PayloadDepth+1, "unexpected content after quoted scalar")
			}
			if ln.Quoted {
				return syntaxAt(ln, ln.PayloadDepth+1, "unexpected quoted scalar in folded block")
			}
			top.parts = append(top.parts, ln.Value)
			return nil
		case ln.Depth > top.depth:
			return syntaxAt(ln, ln.Depth+1, "inconsistent indentation")
		case ln.Depth == top.depth:
			if len(ln.Markers) > 0 {
				return syntaxAt(ln, ln.Markers[0]+1, "unexpected sequence marker in scalar block")
			}
			return syntaxAt(ln, ln.KeyCol, "unexpected mapping entry in scalar block")
		}
		// Shallower lines close the block below.
	}

	for len(b.stack) > 0 && b.top().depth > ln.Depth {
		if err := b.popFrame(); err != nil {
			return err
		}
	}
	if len(b.stack) == 0 {
		return syntaxAt(ln, ln.Depth+1, "inconsistent indentation")
	}
	top = b.top()
	if top.depth == ln.Depth {
		return b.sibling(top, ln)
	}
	// Deeper than the enclosing frame: legal only right after a value-less
	// marker or entry, which left a pending slot open.
	if top.pending {
		return b.open(ln, ln.Markers)
	}
	return syntaxAt(ln, ln.Depth+1, "unexpected indentation")
}

// sibling extends the frame at exactly the line's depth.
func (b *builder) sibling(f *frame, ln scanner.Line) error {
	switch f.kind {
	case frameSeq:
		if len(ln.Markers) == 0 {
			if ln.Payload == scanner.PayloadEntry {
				return syntaxAt(ln, ln.KeyCol, "unexpected mapping entry in sequence")
			}
			return syntaxAt(ln, ln.PayloadDepth+1, "unexpected scalar in sequence")
		}
		if f.pending {
			return b.missingValue(f)
		}
		f.pending = true
		f.pendingLno = ln.Num
		f.pendingCol = f.depth + 1
		f.pendingKey = ""
		f.pendingSrc = ln.Src
		return b.open(ln, ln.Markers[1:])
	case frameMap:
		if len(ln.Markers) > 0 {
			return syntaxAt(ln, ln.Markers[0]+1, "unexpected sequence marker in mapping")
		}
		if ln.Payload != scanner.PayloadEntry {
			return syntaxAt(ln, ln.PayloadDepth+1, "unexpected scalar in mapping")
		}
		if f.pending {
			return b.missingValue(f)
		}
		return b.addEntry(f, ln)
	default:
		// frameScalar siblings are handled in feed before popping.
		return syntaxAt(ln, ln.Depth+1, "inconsistent indentation")
	}
}

// open pushes one sequence frame per remaining marker, then places the
// payload: inline scalars and entries complete or extend the innermost
// frame, bare scalar lines start a foldable scalar block.
func (b *builder) open(ln scanner.Line, markers []int) error {
	for _, md := range markers {
		b.stack = append(b.stack, &frame{
			kind:       frameSeq,
			depth:      md,
			lno:        ln.Num,
			pending:    true,
			pendingLno: ln.Num,
			pendingCol: md + 1,
			pendingSrc: ln.Src,
		})
	}

	switch ln.Payload {
	case scanner.PayloadNone:
		// Markers with no payload; the innermost slot waits for a block.
		return nil
	case scanner.PayloadScalar:
		if len(ln.Markers) > 0 {
			b.attach(Scalar{Lno: ln.Num, Text: ln.Value})
			return nil
		}
		b.stack = append(b.stack, &frame{
			kind:   frameScalar,
			depth:  ln.PayloadDepth,
			lno:    ln.Num,
			parts:  []string{ln.Value},
			quoted: ln.Quoted,
		})
		return nil
	default: // scanner.PayloadEntry
		b.stack = append(b.stack, &frame{
			kind:  frameMap,
			depth: ln.PayloadDepth,
			lno:   ln.Num,
			keys:  map[string]int{},
		})
		return b.addEntry(b.top(), ln)
	}
}

func (b *builder) addEntry(f *frame, ln scanner.Line) error {
	if first, ok := f.keys[ln.Key]; ok {
		return syntaxAt(ln, ln.KeyCol, fmt.Sprintf("duplicate key %q (first defined at line %d)", ln.Key, first))
	}
	f.keys[ln.Key] = ln.Num
	f.entries = append(f.entries, Entry{Key: ln.Key, KeyLno: ln.Num})
	if ln.HasValue {
		f.entries[len(f.entries)-1].Value = Scalar{Lno: ln.Num, Text: ln.Value}
		return nil
	}
	f.pending = true
	f.pendingLno = ln.Num
	f.pendingCol = ln.KeyCol
	f.pendingKey = ln.Key
	f.pendingSrc = ln.Src
	return nil
}

// popFrame finalizes the innermost frame and attaches its value one level
// up, or records it as the document result.
func (b *builder) popFrame() error {
	f := b.top()
	if f.pending {
		return b.missingValue(f)
	}
	b.stack = b.stack[:len(b.stack)-1]
	var v Value
	switch f.kind {
	case frameSeq:
		v = Sequence{Lno: f.lno, Items: f.items}
	case frameMap:
		v = Mapping{Lno: f.lno, Entries: f.entries}
	default:
		v = Scalar{Lno: f.lno, Text: strings.Join(f.parts, " ")}
	}
	b.attach(v)
	return nil
}

func (b *builder) attach(v Value) {
	if len(b.stack) == 0 {
		b.result = v
		return
	}
	f := b.top()
	switch f.kind {
	case frameSeq:
		f.items = append(f.items, v)
	case frameMap:
		f.entries[len(f.entries)-1].Value = v
	}
	f.pending = false
}

func (b *builder) missingValue(f *frame) error {
	msg := "missing value for sequence item"
	if f.kind == frameMap {
		msg = fmt.Sprintf("missing value for key %q", f.pendingKey)
	}
	return &SyntaxError{Line: f.pendingLno, Col: f.pendingCol, Msg: msg, Src: f.pendingSrc}
}

func syntaxAt(ln scanner.Line, col int, msg string) error {
	return &SyntaxError{Line: ln.Num, Col: col, Msg: msg, Src: ln.Src}
}

func convertScanError(err error) error {
	var se *scanner.Error
	if errors.As(err, &se) {
		return &SyntaxError{Line: se.Line, Col: se.Col, Msg: se.Msg, Src: se.Src}
	}
	return err
}
