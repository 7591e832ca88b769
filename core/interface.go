package core

import (
	"errors"
	"fmt"
)

// Require returns nil when condition holds and err otherwise. condition may be
// a bool or an error; a non-nil error condition is wrapped under err.
func Require(condition any, err error) error {
	switch v := condition.(type) {
	case bool:
		if !v {
			return err
		}
	case error:
		if v != nil {
			if errors.Is(v, err) {
				return v
			}
			return fmt.Errorf("%w: %v", err, v)
		}
	}
	return nil
}

// Requiref is Require with a formatted detail appended to err.
func Requiref(condition bool, err error, format string, args ...any) error {
	if condition {
		return nil
	}
	return fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...))
}
