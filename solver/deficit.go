package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/Lbstrydom/cellarplan/types"
)

const (
	deficitPriority = 2
	expandPriority  = 5

	colorMatchBonus    = 30
	colorClashPenalty  = -20
	runExtensionBonus  = 8
	donorSlackWeight   = 20
	retainedSurplusMin = 2
	retainedSurplusPts = 10
)

// adjacencyPoints scores the distance from a donor row to the recipient's
// nearest owned row.
var adjacencyPoints = map[int]int{1: 25, 2: 12, 3: 5}

type donorPick struct {
	row   int
	donor string
	score int
}

// resolveDeficits performs greedy best-first donor selection for every zone
// owning fewer rows than its demand.
//
// Each iteration scores every surplus row of every other zone and takes the
// highest-scoring (row, donor) pair, ties broken by encounter order over
// sorted zone IDs and ascending rows. A donated row is marked unavailable
// for the rest of the phase. A deficit with no eligible donor is left
// under-provisioned; if the zone is overflowing it yields an informational
// ExpandZone action instead.
func (s *Solver) resolveDeficits(led *ledger, overflowing []string, bias types.StabilityBias) ([]types.Action, string) {
	overflowSet := make(map[string]bool, len(overflowing))
	for _, zoneID := range overflowing {
		overflowSet[zoneID] = true
	}

	type deficit struct {
		zoneID string
		need   int
	}
	var deficits []deficit
	for _, zoneID := range led.zoneIDs() {
		need := led.demand(zoneID) - len(led.rows(zoneID))
		if need > 0 {
			deficits = append(deficits, deficit{zoneID: zoneID, need: need})
		}
	}
	// Largest shortfall first; zone ID breaks ties deterministically.
	sort.Slice(deficits, func(i, j int) bool {
		if deficits[i].need != deficits[j].need {
			return deficits[i].need > deficits[j].need
		}

		return deficits[i].zoneID < deficits[j].zoneID
	})

	donated := make(map[int]bool)
	var actions []types.Action
	moved, expands := 0, 0

	for _, d := range deficits {
		for remaining := d.need; remaining > 0; remaining-- {
			pick, found := s.bestDonorRow(led, d.zoneID, donated, bias)
			if !found {
				if overflowSet[d.zoneID] {
					actions = append(actions, types.ExpandZone{
						ActionMeta: types.ActionMeta{
							Priority:        expandPriority,
							Reason:          fmt.Sprintf("%s is overflowing and no donor row is available", d.zoneID),
							BottlesAffected: led.bottles[d.zoneID],
						},
						ZoneID: d.zoneID,
					})
					expands++
				}

				break
			}

			actions = append(actions, types.ReallocateRow{
				ActionMeta: types.ActionMeta{
					Priority: deficitPriority,
					Reason: fmt.Sprintf("%s needs %d more row(s); %s has surplus (score %d)",
						d.zoneID, remaining, pick.donor, pick.score),
					BottlesAffected: led.estRowBottles(pick.donor),
				},
				FromZoneID: pick.donor,
				ToZoneID:   d.zoneID,
				RowNumber:  pick.row,
			})
			led.move(pick.row, pick.donor, d.zoneID)
			donated[pick.row] = true
			moved++
		}
	}

	if moved == 0 && expands == 0 {
		return nil, ""
	}

	note := fmt.Sprintf("Capacity: %d row(s) reassigned to under-provisioned zones.", moved)
	if expands > 0 {
		note += fmt.Sprintf(" %d zone(s) flagged for expansion with no eligible donor.", expands)
	}

	return actions, note
}

// bestDonorRow scores every surplus row of every other zone and returns the
// best pick. Strict comparison keeps the first-encountered pair on ties.
func (s *Solver) bestDonorRow(led *ledger, recipientID string, donated map[int]bool, bias types.StabilityBias) (donorPick, bool) {
	var best donorPick
	found := false

	for _, donorID := range led.zoneIDs() {
		if donorID == recipientID {
			continue
		}
		surplus := led.surplus(donorID)
		if surplus <= 0 {
			continue
		}

		for _, row := range led.rows(donorID) {
			if donated[row] {
				continue
			}
			score := s.scoreDonorRow(led, recipientID, donorID, row, surplus, bias)
			if !found || score > best.score {
				best = donorPick{row: row, donor: donorID, score: score}
				found = true
			}
		}
	}

	return best, found
}

// scoreDonorRow rates one candidate donation; higher is better.
func (s *Solver) scoreDonorRow(led *ledger, recipientID, donorID string, row, surplus int, bias types.StabilityBias) int {
	score := 0

	if led.zoneColor(donorID).Compatible(led.zoneColor(recipientID)) {
		score += colorMatchBonus
	} else {
		score += colorClashPenalty
	}

	recipientRows := led.rows(recipientID)
	if dist, ok := nearestDistance(row, recipientRows); ok {
		score += adjacencyPoints[dist]
		if dist == 1 {
			score += runExtensionBonus
		}
	}

	u := led.util[donorID].UtilizationPct / 100
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}
	score += int(math.Round(donorSlackWeight * (1 - u)))

	if surplus-1 >= retainedSurplusMin {
		score += retainedSurplusPts
	}

	score += bias.MovePenalty()

	return score
}

// nearestDistance returns the minimum absolute distance from row to any of
// rows, and false when rows is empty.
func nearestDistance(row int, rows []int) (int, bool) {
	if len(rows) == 0 {
		return 0, false
	}

	best := 0
	for _, r := range rows {
		dist := row - r
		if dist < 0 {
			dist = -dist
		}
		if best == 0 || dist < best {
			best = dist
		}
	}

	return best, true
}
