package schema

import (
	"context"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/i18n"
)

// Alternatives tries each schema in order and returns the first success.
// When nothing matches, the issues of every branch are reported together
// behind one leading no_alternative issue. Nested Alternatives are spliced
// into one flat branch list, so chained Or calls read as a single union.
func Alternatives(alts ...kyss.Schema) kyss.Schema {
	out := make(altSchema, 0, len(alts))
	for _, s := range alts {
		if sub, ok := s.(altSchema); ok {
			out = append(out, sub...)
			continue
		}
		out = append(out, s)
	}
	return out
}

// Or is a two-way Alternatives.
func Or(a, b kyss.Schema) kyss.Schema { return Alternatives(a, b) }

type altSchema []kyss.Schema

func (a altSchema) Match(ctx context.Context, v kyss.Value) (any, error) {
	var all kyss.Issues
	for _, s := range a {
		got, err := s.Match(ctx, v)
		if err == nil {
			return got, nil
		}
		sub, ok := kyss.AsIssues(err)
		if !ok {
			return nil, err
		}
		all = append(all, sub...)
	}
	head := kyss.Issue{
		Code:    kyss.CodeNoAlternative,
		Message: i18n.T(kyss.CodeNoAlternative, nil),
		Line:    v.Line(),
	}
	return nil, append(kyss.Issues{head}, all...)
}
