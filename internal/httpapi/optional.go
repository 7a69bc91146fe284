package httpapi

import "encoding/json"

// optional tracks whether a JSON field was present, so PATCH bodies can tell
// an explicit null from an omitted field.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
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

// patch returns nil when the field was omitted, otherwise a pointer to the
// (possibly nil) value.
func (o optional[T]) patch() **T {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}
