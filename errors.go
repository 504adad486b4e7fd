package kyss

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType   = "invalid_type"
	CodeInvalidFormat = "invalid_format"
	CodeRequired      = "required"
	CodeUnknownKey    = "unknown_key"
	CodeNoAlternative = "no_alternative"
	CodeTransform     = "transform_error"
	CodeParseError    = "parse_error"
)

// Issue represents a single schema mismatch.
type Issue struct {
	Path    string // JSON Pointer from the document root (for example: /items/2/price).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, format names, etc.
	Cause   error  // Optional: underlying error.
	Line    int    // 1-based line of the offending value (0 when unknown).
	// Params carries structured parameters (e.g., {"expected":"integer", "found":"3a"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of schema mismatches that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. invalid_type at /path: expected integer, found "3a"
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IssueAt creates an Issue at the given pointer path. Convenience for call
// sites with many parameters.
func IssueAt(path, code, msg string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: msg, Params: params}
}

// IsCode reports whether err carries at least one issue with the given code.
func IsCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// SyntaxError reports that the input text does not describe a valid value
// tree: inconsistent indentation, an unterminated quote, a tab in the
// indentation, an empty or duplicate key. It is raised by the scanner before
// any schema runs.
type SyntaxError struct {
	Line int    // 1-based line number.
	Col  int    // 1-based column number.
	Msg  string // What went wrong, phrased as the thing that was expected or found.
	Src  string // The offending physical line, if available.
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Snippet renders the error with the offending line and a caret column
// marker, for terminal diagnostics:
//
//	Line: 3
//	regeneration: eleven!
//	              ^
func (e *SyntaxError) Snippet() string {
	pad := e.Col - 1
	if pad < 0 {
		pad = 0
	}
	return fmt.Sprintf("Line: %d\n%s\n%s^", e.Line, e.Src, strings.Repeat(" ", pad))
}

// AsSyntaxError extracts a *SyntaxError from an error chain.
func AsSyntaxError(err error) (*SyntaxError, bool) {
	if err == nil {
		return nil, false
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
