package kyss

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// MarshalJSON renders the scalar as a JSON string. Raw scalars never become
// numbers or booleans in JSON output either.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// MarshalJSON renders the sequence as a JSON array.
func (s Sequence) MarshalJSON() ([]byte, error) {
	if len(s.Items) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Items)
}

// MarshalJSON renders the mapping as a JSON object in document key order.
// encoding packages sort map keys, so the object is assembled by hand.
func (m Mapping) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, e := range m.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
