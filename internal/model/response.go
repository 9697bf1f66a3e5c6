package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrNotObject is returned by DecodeOwnerResponse when the payload is valid
// JSON but not an object (for example an array or a bare string).
var ErrNotObject = errors.New("response is not a JSON object")

// OwnerResponse is the raw registry payload for one company.
// No schema is enforced: field names and presence vary between response
// shapes, so the payload is kept as a generic object and read through Field
// aliases. Numbers are decoded as json.Number to keep integer birth years
// and decimal percentages exact.
type OwnerResponse map[string]any

// DecodeOwnerResponse decodes a single JSON object from r.
func DecodeOwnerResponse(r io.Reader) (OwnerResponse, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return OwnerResponse(obj), nil
}

// Entries returns the shareholder collection stored under the first present
// key of collection. The second return value is false when no alias is
// present or the value is not a list; an empty list returns (nil, true).
// List items that are not objects are ignored.
func (r OwnerResponse) Entries(collection Field) ([]map[string]any, bool) {
	v, ok := Lookup(r, collection)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}

	entries := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if entry, ok := item.(map[string]any); ok {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return nil, true
	}
	return entries, true
}

// CompanyName returns the company name carried by the response, if any.
func (r OwnerResponse) CompanyName() string {
	return LookupString(r, FieldCompanyName)
}

// Keys returns the top-level keys of the response in sorted order.
// It is used for diagnostics when the expected collection is missing.
func (r OwnerResponse) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
