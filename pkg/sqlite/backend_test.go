package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BakaI9/excalidraw/pkg/types"
)

func TestNewBackendImplementsBoard(t *testing.T) {
	board := NewBackend()
	require.NoError(t, board.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer board.Detach()

	require.NoError(t, board.Save([]*types.Element{{ID: "a", Type: types.TypeRectangle, Index: "a"}}))
	got, err := board.Load()
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
