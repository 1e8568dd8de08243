package solver

import (
	"fmt"
	"sort"

	"github.com/Lbstrydom/cellarplan/types"
)

const mergePriority = 3

// detectMerges proposes retiring or merging near-empty zones into affine
// targets.
//
// Only caller-supplied candidate pairs are considered, highest affinity
// first. Sources at or below the retire threshold are retired; sources at or
// below the merge threshold with low utilization are merged. Either way the
// combined rows must be able to shelve the combined bottles, and zones in
// the protected set are never touched. The count is capped by stability
// bias.
func (s *Solver) detectMerges(led *ledger, candidates []MergeCandidate, neverMerge map[string]bool, bias types.StabilityBias) ([]types.Action, string) {
	if len(candidates) == 0 {
		return nil, ""
	}

	ordered := make([]MergeCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Affinity != ordered[j].Affinity {
			return ordered[i].Affinity > ordered[j].Affinity
		}
		if ordered[i].SourceZoneID != ordered[j].SourceZoneID {
			return ordered[i].SourceZoneID < ordered[j].SourceZoneID
		}

		return ordered[i].TargetZoneID < ordered[j].TargetZoneID
	})

	limit := bias.MaxMerges()
	used := make(map[string]bool)
	var actions []types.Action
	retired, merged := 0, 0

	for _, cand := range ordered {
		if len(actions) >= limit {
			break
		}

		src, tgt := cand.SourceZoneID, cand.TargetZoneID
		if src == tgt || neverMerge[src] || neverMerge[tgt] {
			continue
		}
		if !led.hasZone(src) || !led.hasZone(tgt) {
			continue
		}
		if used[src] || used[tgt] {
			continue
		}

		srcBottles, tgtBottles := led.bottles[src], led.bottles[tgt]
		combined := led.model.SlotsFor(led.rows(src)) + led.model.SlotsFor(led.rows(tgt))
		if combined < srcBottles+tgtBottles {
			continue
		}

		switch {
		case srcBottles <= s.retireBottleMax:
			actions = append(actions, types.RetireZone{
				ActionMeta: types.ActionMeta{
					Priority:        mergePriority,
					Reason:          fmt.Sprintf("%s holds only %d bottle(s); retire into %s", src, srcBottles, tgt),
					BottlesAffected: srcBottles,
				},
				ZoneID:          src,
				MergeIntoZoneID: tgt,
			})
			led.mergeInto(src, tgt)
			used[src], used[tgt] = true, true
			retired++
		case srcBottles <= s.mergeBottleMax && led.util[src].UtilizationPct < s.mergeUtilizationMax:
			actions = append(actions, types.MergeZones{
				ActionMeta: types.ActionMeta{
					Priority: mergePriority,
					Reason: fmt.Sprintf("%s is %.0f%% utilized with %d bottle(s); merge into %s",
						src, led.util[src].UtilizationPct, srcBottles, tgt),
					BottlesAffected: srcBottles,
				},
				SourceZones:  []string{src},
				TargetZoneID: tgt,
			})
			led.mergeInto(src, tgt)
			used[src], used[tgt] = true, true
			merged++
		}
	}

	if retired == 0 && merged == 0 {
		return nil, ""
	}

	return actions, fmt.Sprintf("Consolidation: %d zone(s) retired, %d merged into higher-affinity neighbours.",
		retired, merged)
}
