// Package grid holds module-wide identifiers for the grid tool.
package grid

// Version is the current release of the grid module.
const Version = "0.1.0"

// ModulePath is the Go module path of this repository.
const ModulePath = "github.com/mesh-intelligence/grid"
