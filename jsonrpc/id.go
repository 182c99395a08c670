package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// ID is a JSON-RPC request identifier, which must be a string or a number.
// The zero value is the absent id carried on responses to input whose id
// was never readable (e.g. a parse error).
type ID struct {
	value interface{}
}

// NewID wraps a string or numeric value as an ID. Null is rejected here:
// constructed responses to real requests always echo a concrete identifier.
func NewID(id interface{}) (ID, error) {
	switch v := id.(type) {
	case ID:
		return v, nil
	case string:
		return ID{value: v}, nil
	case int, int32, int64, float32, float64:
		return ID{value: v}, nil
	case nil:
		return ID{}, fmt.Errorf("id cannot be null")
	default:
		return ID{}, fmt.Errorf("id must be string or number, got %T", id)
	}
}

// Value returns the underlying string or number, or nil when absent
func (id ID) Value() interface{} {
	return id.value
}

// IsNil reports whether the ID is absent
func (id ID) IsNil() bool {
	return id.value == nil
}

// Equal compares an ID against another ID or a raw string/number value
func (id ID) Equal(other interface{}) bool {
	if v, ok := other.(ID); ok {
		return id.value == v.value
	}
	switch other.(type) {
	case string, int, int32, int64, float32, float64:
		return id.value == other
	default:
		return false
	}
}

var _ fmt.GoStringer = ID{}

// GoString implements fmt.GoStringer
func (id ID) GoString() string {
	switch v := id.value.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	case int, int32, int64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

var _ json.Marshaler = ID{}

// MarshalJSON renders an absent id as JSON null, matching the envelope
// required for responses to unparseable input
func (id ID) MarshalJSON() ([]byte, error) {
	if id.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

var _ json.Unmarshaler = &ID{}

// UnmarshalJSON accepts a string, a number, or null (an absent id, as on
// error responses to unparseable input)
func (id *ID) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		id.value = nil
	case string:
		id.value = v
	case float64: // JSON numbers decode as float64
		id.value = int(v)
	default:
		return fmt.Errorf("id must be string or number, got %T", raw)
	}
	return nil
}
