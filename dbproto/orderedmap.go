// Package dbproto defines the wire shapes exchanged with the row store:
// the request envelope, the tagged response envelope, and the
// discriminated unions they carry.
package dbproto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// KV is one column/value pair decoded in source order.
type KV struct {
	Column string
	Value  json.RawMessage
}

// OrderedMap is a JSON object decoded (and re-encoded) in member order.
// Go's map[string]any randomizes iteration, but the where/values documents
// rely on the caller's insertion order to determine predicate and column
// order, so plain maps can't be used here.
type OrderedMap []KV

// Get returns the raw value for column, if present.
func (o OrderedMap) Get(column string) (json.RawMessage, bool) {
	for _, kv := range o {
		if kv.Column == column {
			return kv.Value, true
		}
	}
	return nil, false
}

func (o *OrderedMap) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return fmt.Errorf("dbproto: expected a JSON object, got %v", tok)
	}
	var out OrderedMap
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("dbproto: expected string key, got %v", keyTok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("dbproto: decoding value for key %q: %w", key, err)
		}
		out = append(out, KV{Column: key, Value: val})
	}
	*o = out
	return nil
}

func (o OrderedMap) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(kv.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		if len(kv.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(kv.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
