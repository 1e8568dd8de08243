// Package types defines the shared domain types for the cellarplan library.
//
// It contains the immutable zone and row model, the sealed Action union
// produced by the solver and consumed by the simulator, the Plan container,
// and the Logger/MetricsCollector/Hooks interfaces used across packages.
//
// Keeping these definitions in a leaf package lets internal packages depend
// on them without importing the root cellarplan package, which re-exports
// the most useful names as aliases for convenience.
package types
