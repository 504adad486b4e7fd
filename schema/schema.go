// Package schema offers composable matchers over parsed value trees: scalar
// interpretation, sequences, mappings with required and optional keys, and
// union-like alternatives. Every matcher implements kyss.Schema and reports
// violations as kyss.Issues with JSON Pointer paths rooted at the matched
// value.
package schema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/i18n"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// prefixIssues re-roots member issues one level down.
func prefixIssues(iss kyss.Issues, seg string) kyss.Issues {
	pre := "/" + pointerEscaper.Replace(seg)
	out := make(kyss.Issues, 0, len(iss))
	for _, it := range iss {
		it.Path = pre + it.Path
		out = append(out, it)
	}
	return out
}

// describe renders a value for the found side of expected/found messages.
// Scalars quote their text; containers name their kind.
func describe(v kyss.Value) string {
	switch t := v.(type) {
	case kyss.Scalar:
		return strconv.Quote(t.Text)
	case kyss.Sequence:
		return "a sequence"
	case kyss.Mapping:
		return "a mapping"
	default:
		return "an unknown value"
	}
}

// mismatch builds the standard expected/found issue at the value itself.
func mismatch(v kyss.Value, code, expected string) kyss.Issues {
	f := describe(v)
	return kyss.AppendIssues(nil, kyss.Issue{
		Code:    code,
		Message: i18n.T(code, map[string]string{"expected": expected, "found": f}),
		Line:    v.Line(),
		Params:  map[string]any{"expected": expected, "found": f},
	})
}

// keyList renders key names sorted and quoted: ["actor", "regeneration"].
func keyList(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	qs := make([]string, len(sorted))
	for i, n := range sorted {
		qs[i] = strconv.Quote(n)
	}
	return "[" + strings.Join(qs, ", ") + "]"
}
