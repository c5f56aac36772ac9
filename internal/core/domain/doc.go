// Package domain defines the core business entities for the DAM.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Asset: A tracked physical file and all metadata derived from it
//   - Link: A directed, weighted edge between two assets
//   - Album: A named, ordered collection of assets
//   - AssetFilter / SearchRequest: Structured query types
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
