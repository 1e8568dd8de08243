package solver

import "github.com/Lbstrydom/cellarplan/types"

// Request carries the full context for one solver invocation.
//
// The solver treats every field as read-only; mutation happens only on its
// private ledger. Callers assemble a Request from the zone metadata source
// and the persistence/analytics collaborator.
type Request struct {
	// Zones is the immutable zone metadata for this invocation.
	Zones []types.Zone

	// Allocation is the current row ownership (zone ID → row numbers).
	Allocation types.Allocation

	// Utilization is the read-only per-zone occupancy snapshot.
	Utilization map[string]types.ZoneUtilization

	// Overflowing lists zone IDs holding more bottles than their rows can
	// shelve. A deficit zone in this list with no eligible donor yields an
	// informational ExpandZone action.
	Overflowing []string

	// Underutilized lists zone IDs flagged by the caller as wasting space.
	// Advisory only; the ledger's own demand computation drives donations.
	Underutilized []string

	// MergeCandidates are affinity-scored zone pairs precomputed by the
	// caller. The solver only merges pairs that appear here.
	MergeCandidates []MergeCandidate

	// NeverMerge protects zones from appearing on either side of a merge.
	NeverMerge map[string]bool

	// Bias controls how aggressively the solver reshuffles the rack.
	Bias types.StabilityBias

	// ScatteredWines lists wines whose bottles span multiple rows, candidates
	// for consolidation.
	ScatteredWines []ScatteredWine
}

// MergeCandidate is an affinity-scored zone pair supplied by the caller.
type MergeCandidate struct {
	// SourceZoneID is the zone that would be folded away.
	SourceZoneID string

	// TargetZoneID is the zone that would absorb the source.
	TargetZoneID string

	// Affinity ranks candidates; higher pairs are considered first.
	Affinity float64
}

// ScatteredWine describes one wine spread across multiple rows.
type ScatteredWine struct {
	// Name identifies the wine (used only for deterministic ordering and
	// reasoning text).
	Name string

	// Bottles is the wine's total bottle count.
	Bottles int

	// Rows lists the rows currently holding at least one of its bottles.
	Rows []int
}
