// Package tracker decides when a cellar snapshot has drifted far enough
// from its last reconfigured state to justify another engine run.
//
// Callers feed each (allocation, utilization) snapshot to a Tracker;
// Assess compares it against the baseline recorded by the last
// MarkReconfigured call and reports whether a reconfiguration is worth
// proposing. Fingerprints make the layout comparison cheap: two snapshots
// with the same canonical encoding always hash equal, so an unchanged rack
// never triggers a run.
package tracker

import (
	"encoding/binary"
	"sort"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/Lbstrydom/cellarplan/types"
)

// DefaultBottleDeltaThreshold is the bottle-count drift that marks a
// snapshot significant even when the layout itself is unchanged.
const DefaultBottleDeltaThreshold = 6

// Change describes how a snapshot differs from the last reconfigured
// baseline.
type Change struct {
	// Fingerprint is the snapshot's layout fingerprint.
	Fingerprint uint64

	// LayoutChanged reports whether row ownership differs from the baseline.
	LayoutChanged bool

	// BottleDelta is the absolute bottle-count drift since the baseline.
	BottleDelta int
}

// Significant reports whether the change justifies a reconfiguration run:
// either the layout moved, or inventory drifted by at least threshold
// bottles.
func (c Change) Significant(threshold int) bool {
	return c.LayoutChanged || c.BottleDelta >= threshold
}

// Tracker holds the baseline snapshot recorded at the last
// reconfiguration. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	threshold int

	hasBaseline     bool
	baselinePrint   uint64
	baselineBottles int
}

// New creates a tracker with the given bottle-delta threshold.
//
// Parameters:
//   - bottleDeltaThreshold: Bottle drift that alone makes a change
//     significant (DefaultBottleDeltaThreshold if non-positive)
//
// Returns:
//   - *Tracker: Tracker with no baseline; the first Assess is always
//     significant
func New(bottleDeltaThreshold int) *Tracker {
	if bottleDeltaThreshold <= 0 {
		bottleDeltaThreshold = DefaultBottleDeltaThreshold
	}

	return &Tracker{threshold: bottleDeltaThreshold}
}

// Assess compares a snapshot against the last reconfigured baseline.
//
// Parameters:
//   - alloc: Current row ownership
//   - util: Current per-zone occupancy
//
// Returns:
//   - Change: Drift description; Significant(threshold) uses the tracker's
//     configured threshold when called via ShouldReconfigure
func (t *Tracker) Assess(alloc types.Allocation, util map[string]types.ZoneUtilization) Change {
	fp := Fingerprint(alloc)
	bottles := totalBottles(util)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.hasBaseline {
		return Change{Fingerprint: fp, LayoutChanged: true, BottleDelta: bottles}
	}

	delta := bottles - t.baselineBottles
	if delta < 0 {
		delta = -delta
	}

	return Change{
		Fingerprint:   fp,
		LayoutChanged: fp != t.baselinePrint,
		BottleDelta:   delta,
	}
}

// ShouldReconfigure reports whether the snapshot's drift from the baseline
// crosses the tracker's threshold.
func (t *Tracker) ShouldReconfigure(alloc types.Allocation, util map[string]types.ZoneUtilization) bool {
	return t.Assess(alloc, util).Significant(t.threshold)
}

// MarkReconfigured records the snapshot as the new baseline, typically
// right after a proposed plan has been applied.
func (t *Tracker) MarkReconfigured(alloc types.Allocation, util map[string]types.ZoneUtilization) {
	fp := Fingerprint(alloc)
	bottles := totalBottles(util)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.hasBaseline = true
	t.baselinePrint = fp
	t.baselineBottles = bottles
}

// Fingerprint computes a 64-bit xxh3 hash of an allocation's canonical
// encoding.
//
// Zones are folded in sorted ID order with each zone's sorted rows, earlier
// values seeding later ones, so two allocations with identical ownership
// always hash equal regardless of map iteration order.
func Fingerprint(alloc types.Allocation) uint64 {
	var h uint64
	var ib [8]byte

	for _, zoneID := range alloc.ZoneIDs() {
		h = xxh3.HashStringSeed(zoneID, h)
		rows := make([]int, len(alloc[zoneID]))
		copy(rows, alloc[zoneID])
		sort.Ints(rows)
		for _, row := range rows {
			binary.LittleEndian.PutUint64(ib[:], uint64(row)) //nolint:gosec
			h = xxh3.HashSeed(ib[:], h)
		}
	}

	return h
}

func totalBottles(util map[string]types.ZoneUtilization) int {
	total := 0
	for _, u := range util {
		total += u.BottleCount
	}

	return total
}
