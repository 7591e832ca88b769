// Package input decodes the raw arguments of entry points. Account ids are
// accepted in three shapes: a bare string, a JSON string, or a JSON object with
// an "account_id" field.
package input

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/govm-net/riffs/core"
	"github.com/govm-net/riffs/types"
)

// AccountID decodes an account id argument.
func AccountID(raw []byte) (types.AccountID, error) {
	return Field(raw, "account_id")
}

// Field decodes a single string argument given bare, as a JSON string or as
// the named field of a JSON object, and validates it as an account id.
func Field(raw []byte, field string) (types.AccountID, error) {
	s, err := String(raw, field)
	if err != nil {
		return "", err
	}
	id, err := types.ParseAccountID(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	return id, nil
}

// String decodes a string argument given bare, as a JSON string or as the
// named field of a JSON object.
func String(raw []byte, field string) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: empty input", core.ErrMalformedInput)
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
		}
		return s, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return "", fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
		}
		v, ok := obj[field]
		if !ok {
			return "", fmt.Errorf("%w: missing field %q", core.ErrMalformedInput, field)
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", fmt.Errorf("%w: field %q: %v", core.ErrMalformedInput, field, err)
		}
		return s, nil
	}
	return string(trimmed), nil
}

// JSON decodes a JSON object argument into v.
func JSON(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrMalformedInput, err)
	}
	return nil
}
