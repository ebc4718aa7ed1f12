package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is a decoded collection response.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// DecodeList accepts a bare array or an object carrying the array under key
// with optional totalPages. An object without key decodes to an empty page.
func DecodeList[T any](raw json.RawMessage, key string) (Page[T], error) {
	raw = bytes.TrimSpace(raw)
	page := Page[T]{Items: []T{}, TotalPages: 1}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return page, nil
	}

	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &page.Items); err != nil {
			return page, fmt.Errorf("decode list: %w", err)
		}
		return page, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return page, fmt.Errorf("decode list: %w", err)
		}
		if inner, ok := wrapper[key]; ok && key != "" {
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '[' {
				if err := json.Unmarshal(inner, &page.Items); err != nil {
					return page, fmt.Errorf("decode list %q: %w", key, err)
				}
			}
		}
		if tp, ok := wrapper["totalPages"]; ok {
			var n int
			if err := json.Unmarshal(tp, &n); err == nil && n > 0 {
				page.TotalPages = n
			}
		}
		return page, nil
	}
	return page, ErrUnexpectedShape
}

// DecodeRecord accepts a bare record or one wrapped under key.
func DecodeRecord[T any](raw json.RawMessage, key string) (T, error) {
	var rec T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return rec, ErrUnexpectedShape
	}
	if key != "" {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return rec, fmt.Errorf("decode record: %w", err)
		}
		if inner, ok := wrapper[key]; ok {
			inner = bytes.TrimSpace(inner)
			if len(inner) > 0 && inner[0] == '{' {
				raw = inner
			}
		}
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// DecodeOne reads a single record from a response that may also be a list.
// A list yields its first entry; an empty list reports false.
func DecodeOne[T any](raw json.RawMessage, key string) (T, bool, error) {
	var zero T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		page, err := DecodeList[T](trimmed, key)
		if err != nil || len(page.Items) == 0 {
			return zero, false, err
		}
		return page.Items[0], true, nil
	}
	rec, err := DecodeRecord[T](trimmed, key)
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}
