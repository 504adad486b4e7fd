// Package scanner turns raw input text into a lazy stream of classified
// lines: indentation depth, sequence markers, mapping-entry splits and
// decoded scalar payloads. It is purely lexical; assembling lines into a
// value tree is the caller's job.
package scanner

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Payload describes what a classified line carries after its markers.
type Payload int

const (
	// PayloadNone marks a line that only opens containers (sequence markers
	// with nothing after them, awaiting a nested block).
	PayloadNone Payload = iota
	// PayloadScalar is a bare or quoted scalar.
	PayloadScalar
	// PayloadEntry is a `key: value` mapping entry, with or without an
	// inline value.
	PayloadEntry
)

// Line is one significant physical line, classified.
type Line struct {
	Num int    // 1-based physical line number.
	Src string // The physical line without its terminator, for diagnostics.

	Depth   int   // Count of leading spaces.
	Markers []int // Depth of each sequence marker on the line, ascending.

	Payload      Payload
	PayloadDepth int // Depth at which the payload, or an expected child block, starts.

	Key      string // Decoded key (PayloadEntry).
	KeyCol   int    // 1-based column of the key's first character.
	HasValue bool   // PayloadEntry: an inline value is present.

	Value  string // Decoded scalar (PayloadScalar), or the entry's inline value.
	Quoted bool   // The scalar payload came from a quoted form.
}

// Error is a lexical failure, positioned 1-based.
type Error struct {
	Line, Col int
	Msg       string
	Src       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Source yields classified lines one at a time. The stream is lazy, finite
// and non-restartable; Next returns io.EOF once the input is exhausted.
type Source struct {
	input string
	pos   int
	lno   int
}

func New(input string) *Source {
	return &Source{input: input}
}

// Next returns the next significant line. Blank and comment-only lines are
// skipped here and never reach the caller.
func (s *Source) Next() (Line, error) {
	for s.pos < len(s.input) {
		raw := s.input[s.pos:]
		if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
			raw = raw[:nl]
			s.pos += nl + 1
		} else {
			s.pos = len(s.input)
		}
		s.lno++
		raw = strings.TrimSuffix(raw, "\r")

		ln, ok, err := classify(raw, s.lno)
		if err != nil {
			return Line{}, err
		}
		if ok {
			return ln, nil
		}
	}
	return Line{}, io.EOF
}

func errAt(num, col int, msg, src string) *Error {
	return &Error{Line: num, Col: col, Msg: msg, Src: src}
}

// classify splits one physical line into indentation, markers and payload.
// ok is false for blank and comment-only lines.
func classify(src string, num int) (Line, bool, error) {
	ln := Line{Num: num, Src: src}

	d := 0
	for d < len(src) {
		c := src[d]
		if c == ' ' {
			d++
			continue
		}
		if c == '\t' {
			return ln, false, errAt(num, d+1, "tab character in indentation", src)
		}
		break
	}
	ln.Depth = d
	if d >= len(src) || src[d] == '#' {
		return ln, false, nil
	}

	// Sequence markers: `-` followed by whitespace or end-of-content. Each
	// marker's trailing space run counts toward the depth of whatever it
	// introduces, so nested inline markers line up with their block form.
markers:
	for d < len(src) && src[d] == '-' {
		if d+1 == len(src) {
			ln.Markers = append(ln.Markers, d)
			d++
			ln.PayloadDepth = d
			return ln, true, nil
		}
		switch src[d+1] {
		case ' ':
			ln.Markers = append(ln.Markers, d)
			j := d + 1
			for j < len(src) && src[j] == ' ' {
				j++
			}
			if j < len(src) && src[j] == '\t' {
				return ln, false, errAt(num, j+1, "tab character in indentation", src)
			}
			d = j
			if d == len(src) || src[d] == '#' {
				ln.PayloadDepth = d
				return ln, true, nil
			}
		case '\t':
			return ln, false, errAt(num, d+2, "tab character in indentation", src)
		default:
			// Glued characters (`-x`, `-#`) make a bare scalar, not a marker.
			break markers
		}
	}

	ln.PayloadDepth = d
	return scanPayload(ln, src, d, num)
}

// scanPayload classifies the content after indentation and markers: a
// mapping entry or a single scalar.
func scanPayload(ln Line, src string, d, num int) (Line, bool, error) {
	if src[d] == '"' || src[d] == '\'' {
		text, end, err := decodeQuoted(src, d, num)
		if err != nil {
			return ln, false, err
		}
		if end < len(src) && src[end] == ':' {
			// Quoted key. The colon must sit directly against the closing
			// quote and be followed by whitespace or end-of-content.
			if end+1 < len(src) && src[end+1] != ' ' && src[end+1] != '\t' {
				return ln, false, errAt(num, end+2, "expected whitespace after ':'", src)
			}
			return scanEntry(ln, src, text, d, end+1, num)
		}
		if err := wantLineEnd(src, end, num, "unexpected content after quoted scalar"); err != nil {
			return ln, false, err
		}
		ln.Payload = PayloadScalar
		ln.Value = text
		ln.Quoted = true
		return ln, true, nil
	}

	// Bare scan. A colon followed by whitespace or end-of-content splits a
	// key; a glued colon stays scalar text. A hash preceded by whitespace
	// starts a comment; a glued hash stays scalar text.
	j := d
	for j < len(src) {
		switch src[j] {
		case ':':
			if j+1 == len(src) || src[j+1] == ' ' || src[j+1] == '\t' {
				key := strings.TrimRight(src[d:j], " \t")
				return scanEntry(ln, src, key, d, j+1, num)
			}
		case '#':
			if src[j-1] == ' ' || src[j-1] == '\t' {
				ln.Payload = PayloadScalar
				ln.Value = strings.TrimRight(src[d:j], " \t")
				return ln, true, nil
			}
		}
		j++
	}
	ln.Payload = PayloadScalar
	ln.Value = strings.TrimRight(src[d:], " \t")
	return ln, true, nil
}

// scanEntry finishes a `key: value` line. rest points just past the colon.
func scanEntry(ln Line, src, key string, keyIdx, rest, num int) (Line, bool, error) {
	if key == "" {
		return ln, false, errAt(num, keyIdx+1, "empty key", src)
	}
	ln.Payload = PayloadEntry
	ln.Key = key
	ln.KeyCol = keyIdx + 1

	j := rest
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}
	if j == len(src) || src[j] == '#' {
		// Value defined by the nested block that follows.
		return ln, true, nil
	}

	if src[j] == '"' || src[j] == '\'' {
		text, end, err := decodeQuoted(src, j, num)
		if err != nil {
			return ln, false, err
		}
		if err := wantLineEnd(src, end, num, "unexpected content after quoted scalar"); err != nil {
			return ln, false, err
		}
		ln.HasValue = true
		ln.Value = text
		return ln, true, nil
	}

	// Bare inline value. Nested entries and sequence markers are only
	// introduced by their own lines, so a splitting colon or a leading
	// marker here is an error rather than deeper structure.
	if src[j] == '-' && (j+1 == len(src) || src[j+1] == ' ' || src[j+1] == '\t') {
		return ln, false, errAt(num, j+1, "unexpected sequence marker in scalar value", src)
	}
	k := j
	for k < len(src) {
		switch src[k] {
		case ':':
			if k+1 == len(src) || src[k+1] == ' ' || src[k+1] == '\t' {
				return ln, false, errAt(num, k+1, "unexpected ':' in unquoted scalar", src)
			}
		case '#':
			if src[k-1] == ' ' || src[k-1] == '\t' {
				ln.HasValue = true
				ln.Value = strings.TrimRight(src[j:k], " \t")
				return ln, true, nil
			}
		}
		k++
	}
	ln.HasValue = true
	ln.Value = strings.TrimRight(src[j:], " \t")
	return ln, true, nil
}

// wantLineEnd verifies that only whitespace and an optional comment remain.
func wantLineEnd(src string, i, num int, msg string) error {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if i < len(src) && src[i] != '#' {
		return errAt(num, i+1, msg, src)
	}
	return nil
}

var simpleEscapes = map[byte]byte{'n': '\n', 't': '\t', 'r': '\r'}

// decodeQuoted decodes one quoted scalar starting at src[i] (a single or
// double quote) and returns the text plus the index just past the closing
// quote. Both quote styles share one escape alphabet.
func decodeQuoted(src string, i, num int) (string, int, error) {
	quote := src[i]
	b := &strings.Builder{}
	j := i + 1
	for {
		if j >= len(src) {
			return "", 0, errAt(num, i+1, "unterminated quoted scalar", src)
		}
		c := src[j]
		if c == quote {
			return b.String(), j + 1, nil
		}
		if c != '\\' {
			b.WriteByte(c)
			j++
			continue
		}
		if j+1 >= len(src) {
			return "", 0, errAt(num, j+1, "expected a valid escape sequence", src)
		}
		sel := src[j+1]
		switch {
		case sel == '\\' || sel == '"' || sel == '\'':
			b.WriteByte(sel)
			j += 2
		case simpleEscapes[sel] != 0:
			b.WriteByte(simpleEscapes[sel])
			j += 2
		case sel == 'x' || sel == 'u' || sel == 'U':
			width := 2
			if sel == 'u' {
				width = 4
			} else if sel == 'U' {
				width = 8
			}
			if j+2+width > len(src) {
				return "", 0, errAt(num, j+1, "expected a valid escape sequence", src)
			}
			code, err := strconv.ParseUint(src[j+2:j+2+width], 16, 32)
			if err != nil {
				return "", 0, errAt(num, j+1, "expected a valid escape sequence", src)
			}
			r := rune(code)
			if r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
				return "", 0, errAt(num, j+1, "invalid unicode escape", src)
			}
			b.WriteRune(r)
			j += 2 + width
		default:
			return "", 0, errAt(num, j+1, "expected a valid escape sequence", src)
		}
	}
}
