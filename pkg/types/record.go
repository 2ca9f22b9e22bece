package types

import (
	"encoding/json"
	"fmt"
)

// Record is a stored JSON document. The id field is the primary key; any
// other fields are carried through unchanged.
type Record map[string]any

// ID returns the record's primary key.
// Returns ErrInvalidID if the id field is missing, empty, or not a string.
func (r Record) ID() (string, error) {
	v, ok := r[FieldID]
	if !ok {
		return "", ErrInvalidID
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", ErrInvalidID
	}
	return id, nil
}

// String returns the string value of field, or "" when it is absent or not
// a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// DecodeRecord parses a JSON object into a Record.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidRecord)
	}
	return r, nil
}

// ToRecord converts any JSON-marshalable value (a Task, a Notebook, a struct
// or a map) into a Record.
func ToRecord(v any) (Record, error) {
	if r, ok := v.(Record); ok {
		return r, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return DecodeRecord(data)
}

// takeString removes doc[key] and returns it when it is a string or null.
// Any other value is left in doc so that it is carried in Fields.
func takeString(doc map[string]any, key string) string {
	v, ok := doc[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case nil:
		delete(doc, key)
		return ""
	case string:
		delete(doc, key)
		return s
	default:
		return ""
	}
}

// restFields returns what is left of doc, or nil if nothing is left.
func restFields(doc map[string]any) map[string]any {
	if len(doc) == 0 {
		return nil
	}
	return doc
}

// mergeFields copies extra into a new document and then lays the known
// fields over it. An empty known field does not override extra.
func mergeFields(extra map[string]any, known map[string]any) map[string]any {
	doc := make(map[string]any, len(extra)+len(known))
	for k, v := range extra {
		doc[k] = v
	}
	for k, v := range known {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		doc[k] = v
	}
	return doc
}
