package types

// Board defines the storage interface for a persisted element collection.
// Callers attach to a backend, load or save the full element list, and
// detach when done.
type Board interface {
	// Attach connects the Board to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, operations return ErrBoardDetached.
	Detach() error

	// Load returns every element, deleted ones included, in paint order.
	Load() ([]*Element, error)

	// Save replaces the stored board with elements, in the given order.
	Save(elements []*Element) error
}
