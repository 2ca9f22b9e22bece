package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionsSchema(t *testing.T) {
	tasks, err := LookupCollection(TasksCollection)
	require.NoError(t, err)
	assert.Equal(t, FieldID, tasks.KeyPath)
	assert.Equal(t, []string{"column_id", "status", "user_email"}, tasks.Indexes)

	notebooks, err := LookupCollection(NotebooksCollection)
	require.NoError(t, err)
	assert.Equal(t, FieldID, notebooks.KeyPath)
	assert.Equal(t, []string{"created_at", "user_email"}, notebooks.Indexes)

	_, err = LookupCollection("users")
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestCollectionSchemaHasIndex(t *testing.T) {
	tasks, err := LookupCollection(TasksCollection)
	require.NoError(t, err)
	assert.True(t, tasks.HasIndex(FieldStatus))
	assert.False(t, tasks.HasIndex(FieldCreatedAt))
}

func TestCollectionNames(t *testing.T) {
	assert.Equal(t, []string{"tasks", "notebooks"}, CollectionNames())
}
