// Package types defines the board element model, partial element updates,
// selection state, the Board storage interface, and the standard error types
// shared by the mutation, binding, and duplication packages.
//
// Elements reference each other only by ID (bindings, bound elements, group
// and frame membership). Nothing in this package holds pointers between
// elements, so a board is always a flat, serializable list.
package types
