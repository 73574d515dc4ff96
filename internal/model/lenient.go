package model

import (
	"bytes"
	"encoding/json"
)

// The registry documents are read with a projection of the fields the report
// uses. Fields of an unexpected JSON type decode to their zero value instead
// of failing the whole document.

// Text is a string field. Any non-string value decodes to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

// Count is a numeric total. Any non-numeric value decodes to 0.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		*c = 0
		return nil
	}
	*c = Count(n)
	return nil
}

// Tags is a list of string tags. Non-string elements are dropped and a
// non-list value decodes to an empty list.
type Tags []string

func (t *Tags) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = Tags{}
		return nil
	}

	tags := make(Tags, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil && !isNull(r) {
			tags = append(tags, s)
		}
	}
	*t = tags
	return nil
}

// List is the items array of a registry envelope. Elements that are not
// objects are skipped and a non-list value decodes to an empty list.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = nil
		return nil
	}

	items := make(List[T], 0, len(raw))
	for _, r := range raw {
		if isNull(r) {
			continue
		}
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		items = append(items, v)
	}
	*l = items
	return nil
}

func isNull(data []byte) bool {
	return len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
