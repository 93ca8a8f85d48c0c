// Package sqlite exposes the SQLite board backend while keeping its
// implementation internal.
package sqlite

import (
	"github.com/BakaI9/excalidraw/internal/sqlite"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	board := sqlite.NewBackend()
//	err := board.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".board",
//	})
//	defer board.Detach()
func NewBackend() types.Board {
	return sqlite.NewBackend()
}
