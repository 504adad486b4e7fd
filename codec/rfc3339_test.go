package codec

import (
	"context"
	"testing"
	"time"

	"github.com/gvx/kyss"
)

func TestTime_Basic(t *testing.T) {
	ctx := context.Background()
	v, err := kyss.ParseString("starts: 2025-01-01T00:00:00Z\n")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	raw, _ := v.(kyss.Mapping).Get("starts")

	got, err := Time().Match(ctx, raw)
	if err != nil {
		t.Fatalf("match err: %v", err)
	}
	ts := got.(time.Time)
	if !ts.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", ts)
	}
	if FormatTime(ts) != "2025-01-01T00:00:00Z" {
		t.Fatalf("canonical format: %s", FormatTime(ts))
	}
}

func TestTime_FractionalSeconds(t *testing.T) {
	v, err := kyss.ParseString("2025-06-15T12:30:00.25+02:00\n")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	got, err := Time().Match(context.Background(), v)
	if err != nil {
		t.Fatalf("match err: %v", err)
	}
	ts := got.(time.Time)
	if ts.Nanosecond() != 250_000_000 {
		t.Fatalf("nanoseconds = %d", ts.Nanosecond())
	}
}

func TestTime_Invalid(t *testing.T) {
	v, err := kyss.ParseString("yesterday\n")
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	_, err = Time().Match(context.Background(), v)
	iss, ok := kyss.AsIssues(err)
	if !ok || iss[0].Code != kyss.CodeTransform {
		t.Fatalf("expected transform issue, got %v", err)
	}
}
