package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores an ordered list of strings in a text column. Legacy rows
// from the source system sometimes hold the list double-encoded as a JSON
// string (e.g. `"[]"`), or a number array, or a non-list value entirely;
// scanning coerces all of those to a usable list instead of failing.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		// Non-list legacy shape, treat as empty
		return nil
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	if items, ok := decodeList(raw); ok {
		*l = items
		return nil
	}

	// Legacy double encoding: the whole list serialized as a JSON string
	var nested string
	if err := json.Unmarshal(raw, &nested); err == nil {
		if items, ok := decodeList([]byte(nested)); ok {
			*l = items
		}
	}
	return nil
}

// decodeList unmarshals a JSON array into strings, stringifying numeric
// elements written by older clients.
func decodeList(raw []byte) ([]string, bool) {
	var elements []interface{}
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}
	items := make([]string, 0, len(elements))
	for _, el := range elements {
		switch v := el.(type) {
		case string:
			items = append(items, v)
		case nil:
			items = append(items, "")
		case float64:
			items = append(items, trimFloat(v))
		default:
			items = append(items, fmt.Sprintf("%v", v))
		}
	}
	return items, true
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
