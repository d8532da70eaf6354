// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package patch

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNull = errors.New("must not be null")

// String accepts JSON strings only
func String(v interface{}) (interface{}, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case nil:
		return nil, errNull
	}
	return nil, fmt.Errorf("must be a string, got %s", kind(v))
}

// Float accepts JSON numbers
func Float(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, errors.New("must be a number")
		}
		return f, nil
	case float64:
		return n, nil
	case nil:
		return nil, errNull
	}
	return nil, fmt.Errorf("must be a number, got %s", kind(v))
}

// Int accepts JSON numbers without a fractional part
func Int(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, errors.New("must be an integer")
		}
		return i, nil
	case float64:
		if n != float64(int64(n)) {
			return nil, errors.New("must be an integer")
		}
		return int64(n), nil
	case nil:
		return nil, errNull
	}
	return nil, fmt.Errorf("must be an integer, got %s", kind(v))
}

// Bool accepts true/false and 0/1, stored as 0/1
func Bool(v interface{}) (interface{}, error) {
	switch b := v.(type) {
	case bool:
		if b {
			return 1, nil
		}
		return 0, nil
	case json.Number:
		switch b.String() {
		case "0":
			return 0, nil
		case "1":
			return 1, nil
		}
	case nil:
		return nil, errNull
	}
	return nil, fmt.Errorf("must be a boolean, got %s", kind(v))
}

func kind(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
