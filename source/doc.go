// Package source provides built-in zone source implementations.
//
// Zone sources supply the zone metadata an engine invocation works against.
// The package includes:
//
//   - Static: Fixed list of zones
//   - YAMLFile: Zones loaded from a YAML definition file
//
// Custom sources can be implemented by satisfying the types.ZoneSource
// interface.
package source
