package schema

import (
	"context"

	"github.com/gvx/kyss"
)

// Wrap matches inner and then pipes the result through fn, so domain
// constructors can hang off any schema. A failing fn surfaces as a
// transform_error issue at the value's position.
func Wrap(inner kyss.Schema, fn func(any) (any, error)) kyss.Schema {
	return wrapSchema{inner: inner, fn: fn}
}

type wrapSchema struct {
	inner kyss.Schema
	fn    func(any) (any, error)
}

func (w wrapSchema) Match(ctx context.Context, v kyss.Value) (any, error) {
	got, err := w.inner.Match(ctx, v)
	if err != nil {
		return nil, err
	}
	out, err := w.fn(got)
	if err != nil {
		return nil, kyss.AppendIssues(nil, kyss.Issue{
			Code:    kyss.CodeTransform,
			Message: err.Error(),
			Cause:   err,
			Line:    v.Line(),
		})
	}
	return out, nil
}
