// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference the backend sends either as a bare id string or as the
// embedded document it points to.
type Ref[T any] struct {
	ID    string
	Value *T
}

// Populated reports whether the referenced document was embedded.
func (r Ref[T]) Populated() bool {
	return r.Value != nil
}

// UnmarshalJSON accepts "id", {"_id": "id", ...} and null.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*r = Ref[T]{}
		return nil

	case len(data) > 0 && data[0] == '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref[T]{ID: id}
		return nil

	case len(data) > 0 && data[0] == '{':
		var head struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			return err
		}
		value := new(T)
		if err := json.Unmarshal(data, value); err != nil {
			return err
		}
		*r = Ref[T]{ID: head.ID, Value: value}
		return nil
	}

	return fmt.Errorf("admin: reference must be a string or an object, got %s", data)
}

// MarshalJSON writes the embedded document when present, otherwise the id.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}
