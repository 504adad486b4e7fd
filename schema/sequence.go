package schema

import (
	"context"
	"strconv"
	"strings"

	"github.com/gvx/kyss"
)

// Sequence matches a sequence whose items all match item. The result is a
// []any in document order. Matching stops at the first item that fails and
// reports it under that item's index.
func Sequence(item kyss.Schema) kyss.Schema { return seqSchema{item: item} }

type seqSchema struct{ item kyss.Schema }

func (s seqSchema) Match(ctx context.Context, v kyss.Value) (any, error) {
	sv, ok := v.(kyss.Sequence)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "a sequence")
	}
	out := make([]any, 0, len(sv.Items))
	for i, member := range sv.Items {
		got, err := s.item.Match(ctx, member)
		if err != nil {
			if sub, ok := kyss.AsIssues(err); ok {
				return nil, prefixIssues(sub, strconv.Itoa(i))
			}
			return nil, err
		}
		out = append(out, got)
	}
	return out, nil
}

// SequenceOrSingle is Sequence, except that a lone value is accepted as a
// sequence of one. Issues for the lone form keep the value's own path since
// the document has no index to point at.
func SequenceOrSingle(item kyss.Schema) kyss.Schema { return seqOrSingleSchema{item: item} }

type seqOrSingleSchema struct{ item kyss.Schema }

func (s seqOrSingleSchema) Match(ctx context.Context, v kyss.Value) (any, error) {
	if _, ok := v.(kyss.Sequence); ok {
		return Sequence(s.item).Match(ctx, v)
	}
	got, err := s.item.Match(ctx, v)
	if err != nil {
		return nil, err
	}
	return []any{got}, nil
}

// CommaSeparated matches a scalar holding a comma separated list. Fields are
// trimmed of surrounding whitespace before they meet the item schema, and a
// blank scalar means an empty list. The first field that fails ends the
// match.
func CommaSeparated(item kyss.Schema) kyss.Schema { return commaSchema{item: item} }

type commaSchema struct{ item kyss.Schema }

func (c commaSchema) Match(ctx context.Context, v kyss.Value) (any, error) {
	s, ok := v.(kyss.Scalar)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "a string")
	}
	if strings.TrimSpace(s.Text) == "" {
		return []any{}, nil
	}
	fields := strings.Split(s.Text, ",")
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		fv := kyss.Scalar{Lno: s.Lno, Text: strings.TrimSpace(f)}
		got, err := c.item.Match(ctx, fv)
		if err != nil {
			return nil, err
		}
		out = append(out, got)
	}
	return out, nil
}
