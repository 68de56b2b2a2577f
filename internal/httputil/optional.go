package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON merge-patch field (RFC 7396). Present is false when the
// key was absent; a present null leaves Value nil.
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Set returns a present Optional holding v. A nil v means explicit null.
func Set[T any](v *T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

// UnmarshalJSON only runs for keys present in the document
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
