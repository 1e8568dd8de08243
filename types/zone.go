package types

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Zone is the immutable metadata for a logical grouping of rows.
//
// Zones are supplied by a ZoneSource at the start of an engine invocation and
// never mutated by the engine. The Rules payload carries the static matching
// rules used by external classification; the engine treats it as opaque.
type Zone struct {
	// ID uniquely identifies the zone (e.g., "cabernet").
	ID string `json:"id" yaml:"id"`

	// Name is the display name shown to users.
	Name string `json:"name" yaml:"name"`

	// Color is the zone's color family (red, white, or any).
	Color ColorFamily `json:"color" yaml:"color"`

	// Rules is the opaque static matching-rule payload. The engine never
	// inspects it; it exists so zone metadata can round-trip through sources
	// unchanged.
	Rules map[string]any `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// EffectiveColor returns the zone's color family for layout decisions.
//
// Returns:
//   - ColorFamily: The zone's color, ColorNeutral for wildcard zones
func (z Zone) EffectiveColor() ColorFamily {
	return z.Color
}

// ZoneUtilization is a read-only per-zone snapshot of current occupancy.
//
// Supplied by the persistence/analytics collaborator; the engine never
// mutates it (mutating it would imply inventory changed, which is out of
// scope for a reconfiguration run).
type ZoneUtilization struct {
	// BottleCount is the number of bottles currently stored in the zone.
	BottleCount int `json:"bottleCount"`

	// RowCount is the number of rows the zone currently owns.
	RowCount int `json:"rowCount"`

	// Capacity is the total slot capacity of the zone's rows.
	Capacity int `json:"capacity"`

	// UtilizationPct is BottleCount as a percentage of Capacity (0-100).
	UtilizationPct float64 `json:"utilizationPct"`

	// IsOverflowing reports whether the zone holds more bottles than it can
	// shelve in its current rows.
	IsOverflowing bool `json:"isOverflowing"`
}

// Allocation is the mutable many-to-one mapping of rows to zones, keyed by
// zone ID with each zone's owned row numbers.
//
// A row belongs to at most one zone at any instant; BuildRowIndex reports a
// duplicate as an error so inconsistent input is caught at the boundary.
type Allocation map[string][]int

// Clone returns a deep copy of the allocation.
//
// The solver and simulator clone the caller's allocation before mutating
// their private ledgers, so the input is never written back.
func (a Allocation) Clone() Allocation {
	out := make(Allocation, len(a))
	for zoneID, rows := range a {
		copied := make([]int, len(rows))
		copy(copied, rows)
		out[zoneID] = copied
	}

	return out
}

// ZoneIDs returns the allocation's zone IDs in sorted order for
// deterministic iteration.
func (a Allocation) ZoneIDs() []string {
	ids := make([]string, 0, len(a))
	for zoneID := range a {
		ids = append(ids, zoneID)
	}
	sort.Strings(ids)

	return ids
}

// BuildRowIndex inverts the allocation into a row → zone map.
//
// Returns:
//   - map[int]string: Row number → owning zone ID
//   - error: ErrDuplicateRowOwner if a row appears under two zones
func (a Allocation) BuildRowIndex() (map[int]string, error) {
	index := make(map[int]string)
	for _, zoneID := range a.ZoneIDs() {
		for _, row := range a[zoneID] {
			if other, ok := index[row]; ok {
				return nil, fmt.Errorf("%w: %s owned by both %s and %s",
					ErrDuplicateRowOwner, FormatRowID(row), other, zoneID)
			}
			index[row] = zoneID
		}
	}

	return index, nil
}

// FormatRowID renders a row number in its canonical "R<n>" identity.
func FormatRowID(row int) string {
	return fmt.Sprintf("R%d", row)
}

// StabilityBias controls how aggressively the solver reshuffles the rack.
//
// Higher bias trades optimization for fewer moves: it raises the donor
// scoring penalty, lowers the merge cap, caps the final plan length, and
// (at high bias) skips scattered-wine consolidation entirely.
type StabilityBias int

const (
	// BiasLow permits aggressive reorganization (up to 10 actions).
	BiasLow StabilityBias = iota

	// BiasModerate is the default balance (up to 6 actions).
	BiasModerate

	// BiasHigh keeps the rack as stable as possible (up to 3 actions).
	BiasHigh
)

// String returns the serialized form of the stability bias.
func (b StabilityBias) String() string {
	switch b {
	case BiasHigh:
		return "high"
	case BiasModerate:
		return "moderate"
	case BiasLow:
		return "low"
	default:
		return "unknown"
	}
}

// MovePenalty is the uniform deduction applied to every donor-row score.
func (b StabilityBias) MovePenalty() int {
	switch b {
	case BiasHigh:
		return -15
	case BiasModerate:
		return -5
	default:
		return 0
	}
}

// MaxMerges is the maximum number of merge/retire actions per plan.
func (b StabilityBias) MaxMerges() int {
	switch b {
	case BiasHigh:
		return 1
	case BiasModerate:
		return 2
	default:
		return 3
	}
}

// MaxActions is the cap applied to the final prioritized plan.
func (b StabilityBias) MaxActions() int {
	switch b {
	case BiasHigh:
		return 3
	case BiasModerate:
		return 6
	default:
		return 10
	}
}

// SkipConsolidation reports whether scattered-wine consolidation is skipped.
func (b StabilityBias) SkipConsolidation() bool {
	return b == BiasHigh
}

// MarshalYAML serializes the stability bias as its string form.
func (b StabilityBias) MarshalYAML() (any, error) {
	return b.String(), nil
}

// UnmarshalYAML parses the string form of a stability bias.
func (b *StabilityBias) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseStabilityBias(s)
	if err != nil {
		return err
	}
	*b = parsed

	return nil
}

// ParseStabilityBias converts a serialized bias to its enum value.
func ParseStabilityBias(s string) (StabilityBias, error) {
	switch s {
	case "low":
		return BiasLow, nil
	case "moderate", "":
		return BiasModerate, nil
	case "high":
		return BiasHigh, nil
	default:
		return BiasModerate, fmt.Errorf("%w: stability bias %q", ErrInvalidStabilityBias, s)
	}
}
