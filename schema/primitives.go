package schema

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gvx/kyss"
)

// Str matches any scalar and yields its text unchanged.
func Str() kyss.Schema { return strSchema{} }

type strSchema struct{}

func (strSchema) Match(_ context.Context, v kyss.Value) (any, error) {
	s, ok := v.(kyss.Scalar)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "a string")
	}
	return s.Text, nil
}

// Bool matches "true" or "false", ignoring case.
func Bool() kyss.Schema { return boolSchema{} }

type boolSchema struct{}

func (boolSchema) Match(_ context.Context, v kyss.Value) (any, error) {
	s, ok := v.(kyss.Scalar)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "a boolean")
	}
	switch strings.ToLower(s.Text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return nil, mismatch(v, kyss.CodeInvalidFormat, "a boolean")
}

// Int matches base-10 integer scalars as int64.
func Int() kyss.Schema { return intSchema{} }

type intSchema struct{}

func (intSchema) Match(_ context.Context, v kyss.Value) (any, error) {
	s, ok := v.(kyss.Scalar)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "integer")
	}
	n, err := strconv.ParseInt(s.Text, 10, 64)
	if err != nil {
		return nil, mismatch(v, kyss.CodeInvalidFormat, "integer")
	}
	return n, nil
}

// Float matches scalars as float64.
func Float() kyss.Schema { return floatSchema{} }

type floatSchema struct{}

func (floatSchema) Match(_ context.Context, v kyss.Value) (any, error) {
	s, ok := v.(kyss.Scalar)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "a number")
	}
	f, err := strconv.ParseFloat(s.Text, 64)
	if err != nil {
		return nil, mismatch(v, kyss.CodeInvalidFormat, "a number")
	}
	return f, nil
}

// Decimal matches scalars as arbitrary-precision decimal numbers, for
// quantities where binary floats would drift.
func Decimal() kyss.Schema { return decimalSchema{} }

type decimalSchema struct{}

func (decimalSchema) Match(_ context.Context, v kyss.Value) (any, error) {
	s, ok := v.(kyss.Scalar)
	if !ok {
		return nil, mismatch(v, kyss.CodeInvalidType, "a decimal number")
	}
	d, err := decimal.NewFromString(s.Text)
	if err != nil {
		return nil, mismatch(v, kyss.CodeInvalidFormat, "a decimal number")
	}
	return d, nil
}

// Accept matches any value and returns the raw tree node, deferring
// interpretation to the caller.
func Accept() kyss.Schema { return acceptSchema{} }

type acceptSchema struct{}

func (acceptSchema) Match(_ context.Context, v kyss.Value) (any, error) { return v, nil }
