package types

import "encoding/json"

// Task is a record in the tasks collection. ColumnID, Status, and UserEmail
// are indexed. Fields carries any other application fields.
type Task struct {
	ID        string
	ColumnID  string
	Status    string
	UserEmail string
	Fields    map[string]any
}

// MarshalJSON emits the task as a flat document: the named fields next to
// the entries of Fields. Empty named fields are omitted.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(mergeFields(t.Fields, map[string]any{
		FieldID:        t.ID,
		FieldColumnID:  t.ColumnID,
		FieldStatus:    t.Status,
		FieldUserEmail: t.UserEmail,
	}))
}

// UnmarshalJSON reads a flat document. Unknown keys land in Fields, as do
// named fields whose stored value is not a string, so any stored task
// decodes.
func (t *Task) UnmarshalJSON(data []byte) error {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*t = Task{
		ID:        takeString(doc, FieldID),
		ColumnID:  takeString(doc, FieldColumnID),
		Status:    takeString(doc, FieldStatus),
		UserEmail: takeString(doc, FieldUserEmail),
	}
	t.Fields = restFields(doc)
	return nil
}
