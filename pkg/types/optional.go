package types

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a JSON field was present at all.
// A present null yields Set=true with a nil Value, which clears the field.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a present null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
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

// Apply writes the value into dst when the field was present.
func (o Optional[T]) Apply(dst **T) {
	if o.Set {
		*dst = o.Value
	}
}

// ApplyValue writes a non-null value into dst; null is ignored.
func (o Optional[T]) ApplyValue(dst *T) {
	if o.Set && o.Value != nil {
		*dst = *o.Value
	}
}
