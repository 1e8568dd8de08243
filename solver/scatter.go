package solver

import (
	"fmt"
	"sort"

	"github.com/Lbstrydom/cellarplan/types"
)

const consolidatePriority = 4

// consolidateScattered pulls gap rows into the majority owner of wines that
// span multiple rows.
//
// Only the top-N wines by bottle count are considered. For each, the zone
// owning most of the wine's rows is the consolidation target; gap rows
// inside that zone's span owned by a color-compatible zone with row surplus
// are reallocated into it. Skipped entirely under high stability bias.
func (s *Solver) consolidateScattered(led *ledger, wines []ScatteredWine, bias types.StabilityBias) ([]types.Action, string) {
	if bias.SkipConsolidation() || len(wines) == 0 {
		return nil, ""
	}

	ordered := make([]ScatteredWine, len(wines))
	copy(ordered, wines)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Bottles != ordered[j].Bottles {
			return ordered[i].Bottles > ordered[j].Bottles
		}

		return ordered[i].Name < ordered[j].Name
	})
	if len(ordered) > s.consolidateTopN {
		ordered = ordered[:s.consolidateTopN]
	}

	var actions []types.Action

	for _, wine := range ordered {
		majority := majorityOwner(led, wine.Rows)
		if majority == "" {
			continue
		}
		span := led.rows(majority)
		if len(span) < 2 {
			continue
		}

		for gap := span[0] + 1; gap < span[len(span)-1]; gap++ {
			donor, owned := led.owner(gap)
			if !owned || donor == majority {
				continue
			}
			if led.surplus(donor) <= 0 {
				continue
			}
			if !led.zoneColor(donor).Compatible(led.zoneColor(majority)) {
				continue
			}

			actions = append(actions, types.ReallocateRow{
				ActionMeta: types.ActionMeta{
					Priority: consolidatePriority,
					Reason: fmt.Sprintf("close gap at %s so %q sits contiguously in %s",
						types.FormatRowID(gap), wine.Name, majority),
					BottlesAffected: led.estRowBottles(donor),
				},
				FromZoneID: donor,
				ToZoneID:   majority,
				RowNumber:  gap,
			})
			led.move(gap, donor, majority)
		}
	}

	if len(actions) == 0 {
		return nil, ""
	}

	return actions, fmt.Sprintf("Scatter: %d gap row(s) reclaimed to keep multi-row wines contiguous.", len(actions))
}

// majorityOwner returns the zone owning the most of the given rows, ties
// broken by zone ID.
func majorityOwner(led *ledger, rows []int) string {
	counts := make(map[string]int)
	for _, row := range rows {
		if zoneID, ok := led.owner(row); ok {
			counts[zoneID]++
		}
	}

	best, bestCount := "", 0
	ids := make([]string, 0, len(counts))
	for zoneID := range counts {
		ids = append(ids, zoneID)
	}
	sort.Strings(ids)
	for _, zoneID := range ids {
		if counts[zoneID] > bestCount {
			best, bestCount = zoneID, counts[zoneID]
		}
	}

	return best
}
