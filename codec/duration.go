package codec

import (
	"fmt"
	"time"

	"github.com/gvx/kyss"
	"github.com/gvx/kyss/schema"
)

// Duration matches Go duration syntax ("250ms", "1h30m") as time.Duration.
func Duration() kyss.Schema {
	return schema.Wrap(schema.Str(), func(v any) (any, error) {
		d, err := time.ParseDuration(v.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", v)
		}
		return d, nil
	})
}
