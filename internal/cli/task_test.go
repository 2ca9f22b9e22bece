package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/haldai/internal/sqlite"
	"github.com/mesh-intelligence/haldai/pkg/types"
)

// indexSpy records the index lookups made through a store.
type indexSpy struct {
	types.Store
	indexes []string
}

func (s *indexSpy) GetAllByIndex(ctx context.Context, collection, index, value string) ([]types.Record, error) {
	s.indexes = append(s.indexes, index)
	return s.Store.GetAllByIndex(ctx, collection, index, value)
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Init(ctx, types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { _ = backend.Close() })

	for _, task := range []*types.Task{
		{ID: "t1", ColumnID: "todo", Status: "open", UserEmail: "a@x.io"},
		{ID: "t2", ColumnID: "todo", Status: "done", UserEmail: "b@x.io"},
		{ID: "t3", ColumnID: "doing", Status: "open", UserEmail: "a@x.io", Fields: map[string]any{"title": "x"}},
	} {
		_, err := backend.SaveTask(ctx, task)
		require.NoError(t, err)
	}

	tests := []struct {
		name                  string
		owner, status, column string
		wantIDs               []string
		wantIndexes           []string
	}{
		{"all", "", "", "", []string{"t1", "t2", "t3"}, nil},
		{"status index", "", "open", "", []string{"t1", "t3"}, []string{types.FieldStatus}},
		{"column index", "", "", "todo", []string{"t1", "t2"}, []string{types.FieldColumnID}},
		{"status index then column", "", "open", "todo", []string{"t1"}, []string{types.FieldStatus}},
		{"owner then status", "a@x.io", "open", "doing", []string{"t3"}, nil},
		{"no match", "", "blocked", "", []string{}, []string{types.FieldStatus}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &indexSpy{Store: backend}
			tasks, err := listTasks(ctx, spy, tt.owner, tt.status, tt.column)
			require.NoError(t, err)

			ids := make([]string, 0, len(tasks))
			for _, task := range tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantIndexes, spy.indexes)
		})
	}

	t.Run("index path decodes extra fields", func(t *testing.T) {
		tasks, err := listTasks(ctx, backend, "", "open", "doing")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, map[string]any{"title": "x"}, tasks[0].Fields)
	})
}
