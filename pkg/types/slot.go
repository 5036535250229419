// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
)

// Slot holds the outcome of one upstream fetch: either a value or an error
// message. A failed fetch degrades its own slot and never the whole bundle.
//
// On the wire an ok slot is the value's own JSON object and a failed slot is
// {"error": "<message>"}.
type Slot[T any] struct {
	value T
	err   string
	ok    bool
}

// OK returns a slot holding v.
func OK[T any](v T) Slot[T] {
	return Slot[T]{value: v, ok: true}
}

// Failed returns a slot holding the error message msg.
func Failed[T any](msg string) Slot[T] {
	return Slot[T]{err: msg}
}

// Value returns the held value and whether the slot is ok.
func (s Slot[T]) Value() (T, bool) {
	return s.value, s.ok
}

// OK reports whether the slot holds a value.
func (s Slot[T]) OK() bool { return s.ok }

// Err returns the error message of a failed slot, or "" for an ok slot.
func (s Slot[T]) Err() string {
	if s.ok {
		return ""
	}
	if s.err == "" {
		return "no data"
	}
	return s.err
}

type slotError struct {
	Error string `json:"error"`
}

// MarshalJSON implements json.Marshaler.
func (s Slot[T]) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return json.Marshal(slotError{Error: s.Err()})
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON implements json.Unmarshaler. An object with an "error" key
// decodes as a failed slot; null decodes as a failed slot with no message.
func (s *Slot[T]) UnmarshalJSON(data []byte) error {
	*s = Slot[T]{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err == nil {
		if raw, found := probe["error"]; found {
			var msg string
			if err := json.Unmarshal(raw, &msg); err != nil {
				msg = string(raw)
			}
			s.err = msg
			return nil
		}
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.value = v
	s.ok = true
	return nil
}
