package types

import (
	"encoding/json"
	"time"
)

// Notebook is a record in the notebooks collection. CreatedAt and UserEmail
// are indexed. CreatedAt is stored as an RFC 3339 string so that index
// lookups compare text.
type Notebook struct {
	ID        string
	CreatedAt time.Time
	UserEmail string
	Fields    map[string]any
}

// MarshalJSON emits the notebook as a flat document. A zero CreatedAt is
// omitted.
func (n Notebook) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		FieldID:        n.ID,
		FieldUserEmail: n.UserEmail,
		FieldCreatedAt: "",
	}
	if !n.CreatedAt.IsZero() {
		known[FieldCreatedAt] = FormatTimestamp(n.CreatedAt)
	}
	return json.Marshal(mergeFields(n.Fields, known))
}

// UnmarshalJSON reads a flat document. Unknown keys land in Fields, as do
// a created_at that is not an RFC 3339 string (such as epoch milliseconds)
// and a non-string id or user_email.
func (n *Notebook) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*n = Notebook{
		ID:        takeString(doc, FieldID),
		UserEmail: takeString(doc, FieldUserEmail),
	}
	if s, ok := doc[FieldCreatedAt].(string); ok {
		if created, err := time.Parse(time.RFC3339Nano, s); err == nil {
			n.CreatedAt = created
			delete(doc, FieldCreatedAt)
		}
	} else if doc[FieldCreatedAt] == nil {
		delete(doc, FieldCreatedAt)
	}
	n.Fields = restFields(doc)
	return nil
}

// FormatTimestamp renders t the way created_at is stored and indexed.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
