package cellarplan

import "github.com/Lbstrydom/cellarplan/types"

// Sentinel errors returned by the Engine.
//
// Re-exported from the types package so callers can use errors.Is without
// importing types directly.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrNilRequest is returned when Propose receives a nil request.
	ErrNilRequest = types.ErrNilRequest

	// ErrNilActions is returned when the simulator receives a nil action list.
	ErrNilActions = types.ErrNilActions

	// ErrNoZones is returned when no zone metadata is available for a run.
	ErrNoZones = types.ErrNoZones

	// ErrDuplicateRowOwner is returned when the input allocation lists one
	// row under two zones.
	ErrDuplicateRowOwner = types.ErrDuplicateRowOwner

	// ErrZoneSourceRequired is returned when the zone source is nil.
	ErrZoneSourceRequired = types.ErrZoneSourceRequired

	// ErrPublishFailed is returned when persisting a plan fails.
	ErrPublishFailed = types.ErrPublishFailed
)
