// Package envelope unwraps the inconsistent response shapes of the legacy
// book-distribution backend. Depending on the endpoint and its version a list
// arrives as a bare array, {data:[...]}, {rows:[...]}, {data:{data:[...]}} or
// {data:{rows:[...]}}; single objects arrive bare, under .data or under
// .bundle. Every helper here is pure and total: malformed or unrecognized
// input yields an empty result, never an error.
package envelope

import "encoding/json"

type listWrapper struct {
	Data json.RawMessage `json:"data"`
	Rows json.RawMessage `json:"rows"`
}

type objectWrapper struct {
	Data   json.RawMessage `json:"data"`
	Bundle json.RawMessage `json:"bundle"`
}

// List extracts the element slice from any of the known list envelopes.
// Order is preserved. Unrecognized shapes return an empty slice.
func List(raw []byte) []json.RawMessage {
	if items, ok := asArray(raw); ok {
		return items
	}
	var w listWrapper
	if err := json.Unmarshal(raw, &w); err != nil {
		return []json.RawMessage{}
	}
	if items, ok := asArray(w.Rows); ok {
		return items
	}
	if items, ok := asArray(w.Data); ok {
		return items
	}
	// One level of nesting: {data:{data:[...]}} / {data:{rows:[...]}}.
	if len(w.Data) > 0 {
		var inner listWrapper
		if err := json.Unmarshal(w.Data, &inner); err == nil {
			if items, ok := asArray(inner.Data); ok {
				return items
			}
			if items, ok := asArray(inner.Rows); ok {
				return items
			}
		}
	}
	return []json.RawMessage{}
}

// Object extracts the payload object from any of the known object envelopes.
// Returns nil when nothing object-shaped is found.
func Object(raw []byte) json.RawMessage {
	var w objectWrapper
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil
	}
	if isObject(w.Data) {
		return w.Data
	}
	if isObject(w.Bundle) {
		return w.Bundle
	}
	if isObject(raw) {
		return json.RawMessage(raw)
	}
	return nil
}

// DecodeList unwraps a list envelope and unmarshals each element into T.
// Elements that fail to decode are skipped rather than failing the batch.
func DecodeList[T any](raw []byte) []T {
	items := List(raw)
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DecodeObject unwraps an object envelope into T. The boolean reports whether
// an object was found and decoded.
func DecodeObject[T any](raw []byte) (T, bool) {
	var v T
	obj := Object(raw)
	if obj == nil {
		return v, false
	}
	if err := json.Unmarshal(obj, &v); err != nil {
		return v, false
	}
	return v, true
}

func asArray(raw json.RawMessage) ([]json.RawMessage, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, true
}

func isObject(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var m map[string]json.RawMessage
	return json.Unmarshal(raw, &m) == nil && m != nil
}
