package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/haldai/pkg/types"
)

// newTestBackend returns an initialized backend in a temp dir. It is closed
// when the test ends.
func newTestBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b := NewBackend(opts...)
	require.NoError(t, b.Init(context.Background(), types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { _ = b.Close() })
	return b
}
