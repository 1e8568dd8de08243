package solver

import (
	"sort"

	"github.com/Lbstrydom/cellarplan/types"
)

// prioritizeAndLimit finalizes a plan's action list.
//
// Row moves are deduplicated by row number with the first action winning,
// actions are stably sorted by ascending priority (generation order
// preserved for ties), and the list is truncated to the stability bias cap.
func prioritizeAndLimit(actions []types.Action, bias types.StabilityBias) []types.Action {
	seenRow := make(map[int]bool)
	deduped := make([]types.Action, 0, len(actions))
	for _, action := range actions {
		if realloc, ok := action.(types.ReallocateRow); ok {
			if seenRow[realloc.RowNumber] {
				continue
			}
			seenRow[realloc.RowNumber] = true
		}
		deduped = append(deduped, action)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Meta().Priority < deduped[j].Meta().Priority
	})

	if limit := bias.MaxActions(); len(deduped) > limit {
		deduped = deduped[:limit]
	}

	return deduped
}
