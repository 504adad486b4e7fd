package codec

import (
	"fmt"
	"time"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/schema"
)

// Time matches an RFC3339 timestamp scalar as time.Time. Fractional seconds
// are accepted and the zone offset is preserved.
func Time() kyss.Schema {
	return schema.Wrap(schema.Str(), func(v any) (any, error) {
		t, err := parseRFC3339(v.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid RFC3339 time %q", v)
		}
		return t, nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// FormatTime renders t canonically: normalized to UTC, RFC3339 with
// insignificant trailing zeros trimmed.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
