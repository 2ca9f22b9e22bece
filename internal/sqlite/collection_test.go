package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

func TestGenericOps_NotInitialized(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	_, err := b.GetAll(ctx, types.TasksCollection)
	assert.ErrorIs(t, err, types.ErrNotInitialized)

	_, err = b.Get(ctx, types.TasksCollection, "t1")
	assert.ErrorIs(t, err, types.ErrNotInitialized)

	_, err = b.GetAllByIndex(ctx, types.TasksCollection, types.FieldStatus, "open")
	assert.ErrorIs(t, err, types.ErrNotInitialized)

	_, err = b.Add(ctx, types.TasksCollection, types.Record{"id": "t1"})
	assert.ErrorIs(t, err, types.ErrNotInitialized)

	err = b.Delete(ctx, types.TasksCollection, "t1")
	assert.ErrorIs(t, err, types.ErrNotInitialized)
}

func TestGenericOps_RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	for _, collection := range types.CollectionNames() {
		t.Run(collection, func(t *testing.T) {
			rec := types.Record{
				"id":    "k1",
				"title": "hello",
				"n":     float64(3),
				"tags":  []any{"a", "b"},
				"meta":  map[string]any{"pinned": true},
			}
			written, err := b.Add(ctx, collection, rec)
			require.NoError(t, err)
			assert.Equal(t, rec, written)

			got, err := b.Get(ctx, collection, "k1")
			require.NoError(t, err)
			assert.Equal(t, rec, got)
		})
	}
}

func TestGenericOps_NumbersReadBackAsFloat64(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	rec := types.Record{"id": "k1", "n": 1, "big": int64(1 << 40)}
	written, err := b.Add(ctx, types.TasksCollection, rec)
	require.NoError(t, err)
	assert.Equal(t, rec, written, "Add returns the caller's record untouched")

	got, err := b.Get(ctx, types.TasksCollection, "k1")
	require.NoError(t, err)
	assert.Equal(t, types.Record{"id": "k1", "n": float64(1), "big": float64(1 << 40)}, got)
	assert.NotEqual(t, rec, got)
}

func TestGenericOps_NumericIDRejected(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	_, err := b.Add(ctx, types.TasksCollection, types.Record{"id": 1, "status": "open"})
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestGenericOps_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	_, err := b.Add(ctx, types.TasksCollection, types.Record{"id": "t1", "status": "open", "title": "a"})
	require.NoError(t, err)
	_, err = b.Add(ctx, types.TasksCollection, types.Record{"id": "t1", "status": "done"})
	require.NoError(t, err)

	all, err := b.GetAll(ctx, types.TasksCollection)
	require.NoError(t, err)
	require.Len(t, all, 1)
	// The stored document is replaced, not merged.
	assert.Equal(t, types.Record{"id": "t1", "status": "done"}, all[0])
}

func TestGenericOps_Delete(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	_, err := b.Add(ctx, types.NotebooksCollection, types.Record{"id": "n1"})
	require.NoError(t, err)

	require.NoError(t, b.Delete(ctx, types.NotebooksCollection, "n1"))
	got, err := b.Get(ctx, types.NotebooksCollection, "n1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent id succeeds.
	assert.NoError(t, b.Delete(ctx, types.NotebooksCollection, "missing"))

	assert.ErrorIs(t, b.Delete(ctx, types.NotebooksCollection, ""), types.ErrInvalidID)
}

func TestGenericOps_GetMissing(t *testing.T) {
	b := newTestBackend(t)
	got, err := b.Get(context.Background(), types.TasksCollection, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGenericOps_GetAllOrderedByID(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	for _, id := range []string{"c", "a", "b"} {
		_, err := b.Add(ctx, types.TasksCollection, types.Record{"id": id})
		require.NoError(t, err)
	}

	all, err := b.GetAll(ctx, types.TasksCollection)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.String("id")
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestGenericOps_GetAllEmpty(t *testing.T) {
	b := newTestBackend(t)
	all, err := b.GetAll(context.Background(), types.NotebooksCollection)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestGenericOps_InvalidInput(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	_, err := b.GetAll(ctx, "users")
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)

	_, err = b.Add(ctx, types.TasksCollection, types.Record{"title": "no id"})
	assert.ErrorIs(t, err, types.ErrInvalidID)

	_, err = b.Add(ctx, types.TasksCollection, types.Record{"id": float64(1)})
	assert.ErrorIs(t, err, types.ErrInvalidID)

	_, err = b.Add(ctx, types.TasksCollection, types.Record{"id": "x", "bad": func() {}})
	assert.ErrorIs(t, err, types.ErrInvalidRecord)

	_, err = b.GetAllByIndex(ctx, types.NotebooksCollection, types.FieldStatus, "open")
	assert.ErrorIs(t, err, types.ErrIndexNotFound)
}

func TestGenericOps_GetAllByIndex(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	records := []types.Record{
		{"id": "1", "column_id": "todo", "status": "open"},
		{"id": "2", "column_id": "todo", "status": "done"},
		{"id": "3", "column_id": "doing", "status": "open"},
		{"id": "4", "column_id": "todo-later", "status": "open"},
		{"id": "5"},
	}
	for _, r := range records {
		_, err := b.Add(ctx, types.TasksCollection, r)
		require.NoError(t, err)
	}

	tests := []struct {
		index string
		value string
		want  []string
	}{
		{index: types.FieldStatus, value: "open", want: []string{"1", "3", "4"}},
		{index: types.FieldStatus, value: "done", want: []string{"2"}},
		// Exact match, not prefix.
		{index: types.FieldColumnID, value: "todo", want: []string{"1", "2"}},
		{index: types.FieldColumnID, value: "none", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.index+"="+tt.value, func(t *testing.T) {
			got, err := b.GetAllByIndex(ctx, types.TasksCollection, tt.index, tt.value)
			require.NoError(t, err)
			ids := make([]string, len(got))
			for i, r := range got {
				ids[i] = r.String("id")
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
