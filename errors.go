package tagcache

import (
	"fmt"
)

// SerializationError reports a structured key that could not be canonicalized.
// The operation that raised it had no effect: a failed Set stores nothing, a
// failed Get or Delete touches nothing.
type SerializationError struct {
	Namespace string
	Key       any
	Err       error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("canonicalize key %v in namespace %q: %v", e.Key, e.Namespace, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
