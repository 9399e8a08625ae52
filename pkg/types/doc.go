// Package types defines the Grid and Table interfaces, the field, row and
// cell entities, and the standard error types for the grid storage system.
// See docs/ARCHITECTURE.md § Main Interface.
package types
