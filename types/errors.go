package types

import "fmt"

// HostError is raised (as a panic) by host primitives that cannot continue,
// such as running out of gas or addressing an unknown promise. The runtime
// recovers it at the invocation boundary and fails the invocation.
type HostError struct {
	Func HostFunctionID
	Msg  string
}

func (e *HostError) Error() string {
	if e.Func == 0 {
		return "host error: " + e.Msg
	}
	return fmt.Sprintf("host error in %s: %s", e.Func, e.Msg)
}

// Abort panics with a HostError.
func Abort(fn HostFunctionID, format string, args ...any) {
	panic(&HostError{Func: fn, Msg: fmt.Sprintf(format, args...)})
}
