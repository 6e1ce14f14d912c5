package snapshot

// SerializationError signals that a value could not be encoded or decoded.
// It carries the underlying codec diagnostic; there is no partial output.
type SerializationError struct {
	inner error
}

func newSerializationError(inner error) *SerializationError {
	return &SerializationError{inner: inner}
}

// Error returns the wrapped diagnostic message
func (e *SerializationError) Error() string {
	return "serialization error: " + e.inner.Error()
}

// Unwrap returns the underlying codec error
func (e *SerializationError) Unwrap() error {
	return e.inner
}
