package types

// Standard collection names.
const (
	TasksCollection     = "tasks"
	NotebooksCollection = "notebooks"
)

// Field names that are keys or secondary index paths.
const (
	FieldID        = "id"
	FieldColumnID  = "column_id"
	FieldStatus    = "status"
	FieldUserEmail = "user_email"
	FieldCreatedAt = "created_at"
)

// CollectionSchema describes one collection: its name, primary key path, and
// the non-unique secondary indexes over document fields. Each index is named
// after the field it covers.
type CollectionSchema struct {
	Name    string
	KeyPath string
	Indexes []string
}

// HasIndex reports whether the collection declares an index with the name.
func (s CollectionSchema) HasIndex(name string) bool {
	for _, idx := range s.Indexes {
		if idx == name {
			return true
		}
	}
	return false
}

// Collections is the persisted schema. Changing it requires a new
// SchemaVersion.
var Collections = []CollectionSchema{
	{
		Name:    TasksCollection,
		KeyPath: FieldID,
		Indexes: []string{FieldColumnID, FieldStatus, FieldUserEmail},
	},
	{
		Name:    NotebooksCollection,
		KeyPath: FieldID,
		Indexes: []string{FieldCreatedAt, FieldUserEmail},
	},
}

// LookupCollection returns the schema for name.
// Returns ErrCollectionNotFound if the name is not a standard collection.
func LookupCollection(name string) (CollectionSchema, error) {
	for _, c := range Collections {
		if c.Name == name {
			return c, nil
		}
	}
	return CollectionSchema{}, ErrCollectionNotFound
}

// CollectionNames lists the standard collection names for enumeration.
func CollectionNames() []string {
	names := make([]string, len(Collections))
	for i, c := range Collections {
		names[i] = c.Name
	}
	return names
}
