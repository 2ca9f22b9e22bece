package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

func TestNewBackend_Scenario(t *testing.T) {
	ctx := context.Background()
	store := NewBackend(WithSession(types.SessionFor("u@x.com")))
	require.NoError(t, store.Init(ctx, types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer store.Close()

	_, err := store.SaveTask(ctx, &types.Task{ID: "1", ColumnID: "todo", Status: "open"})
	require.NoError(t, err)

	tasks, err := store.GetTasks(ctx, "u@x.com")
	require.NoError(t, err)
	assert.Equal(t, []*types.Task{
		{ID: "1", ColumnID: "todo", Status: "open", UserEmail: "u@x.com"},
	}, tasks)
}
