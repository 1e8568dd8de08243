package types

import "errors"

// Sentinel errors for the cellarplan library.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components use these sentinels for known error conditions and
// wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Note that solver soft failures (no eligible donor, no merge candidate) are
// not errors at all: they simply yield fewer actions. Simulation failures are
// reported as violation strings, never as Go errors. The sentinels below
// cover only blatantly malformed input at the API boundary.

// Engine errors - Public API errors returned by the Engine facade.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNilRequest is returned when Solve or Propose receives a nil request.
	ErrNilRequest = errors.New("nil solve request")

	// ErrNilActions is returned when the simulator receives a nil action list.
	ErrNilActions = errors.New("nil action list")

	// ErrNoZones is returned when a request carries no zone metadata.
	ErrNoZones = errors.New("no zones supplied")

	// ErrDuplicateRowOwner is returned when the input allocation lists one
	// row under two zones.
	ErrDuplicateRowOwner = errors.New("duplicate row ownership")
)

// Model errors - Capacity model and domain type errors.
var (
	// ErrInvalidCapacity is returned for a non-positive row count or slot
	// capacity.
	ErrInvalidCapacity = errors.New("invalid capacity model")

	// ErrInvalidAction is returned when an action fails field-level
	// validation or cannot be encoded.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidColorFamily is returned for an unrecognized serialized color.
	ErrInvalidColorFamily = errors.New("invalid color family")

	// ErrInvalidStabilityBias is returned for an unrecognized serialized bias.
	ErrInvalidStabilityBias = errors.New("invalid stability bias")
)

// Collaborator errors - Source and publisher component errors.
var (
	// ErrZoneSourceRequired is returned when a nil zone source is supplied.
	ErrZoneSourceRequired = errors.New("zone source is required")

	// ErrPublishFailed is returned when persisting a plan to the KV store
	// fails.
	ErrPublishFailed = errors.New("failed to publish plan")

	// ErrKVRequired is returned when a nil KV bucket is supplied to the
	// publisher.
	ErrKVRequired = errors.New("KV bucket is required")
)
