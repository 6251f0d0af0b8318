// Package domain defines the core business types and interfaces for the
// keyword-to-link annotation engine.
//
// This package contains pure domain logic with ZERO external dependencies
// outside the Go standard library. All types in this package are:
//
// - Independent of infrastructure (no database, HTTP, file watching, etc.)
// - Technology-agnostic (no framework coupling)
// - Testable in isolation without mocks
//
// Other packages (rules, linker, audit, storage, config) implement the
// interfaces defined here and depend on these types. The dependency direction
// is always:
//
//	Infrastructure → Domain (CORRECT)
//	Domain → Infrastructure (FORBIDDEN)
package domain
