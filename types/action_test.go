package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAction_Validate(t *testing.T) {
	t.Run("accepts well-formed reallocate", func(t *testing.T) {
		action := ReallocateRow{
			ActionMeta: ActionMeta{Priority: 2, Reason: "needs space"},
			FromZoneID: "chardonnay",
			ToZoneID:   "cabernet",
			RowNumber:  4,
		}

		require.NoError(t, action.Validate())
	})

	t.Run("rejects priority outside bounds", func(t *testing.T) {
		action := ReallocateRow{
			ActionMeta: ActionMeta{Priority: 6},
			FromZoneID: "a",
			ToZoneID:   "b",
			RowNumber:  1,
		}

		err := action.Validate()
		require.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("rejects reallocate to same zone", func(t *testing.T) {
		action := ReallocateRow{
			ActionMeta: ActionMeta{Priority: 2},
			FromZoneID: "cabernet",
			ToZoneID:   "cabernet",
			RowNumber:  1,
		}

		require.ErrorIs(t, action.Validate(), ErrInvalidAction)
	})

	t.Run("rejects merge with no sources", func(t *testing.T) {
		action := MergeZones{
			ActionMeta:   ActionMeta{Priority: 3},
			TargetZoneID: "cabernet",
		}

		require.ErrorIs(t, action.Validate(), ErrInvalidAction)
	})

	t.Run("rejects merge where source is the target", func(t *testing.T) {
		action := MergeZones{
			ActionMeta:   ActionMeta{Priority: 3},
			SourceZones:  []string{"cabernet"},
			TargetZoneID: "cabernet",
		}

		require.ErrorIs(t, action.Validate(), ErrInvalidAction)
	})

	t.Run("rejects retire into itself", func(t *testing.T) {
		action := RetireZone{
			ActionMeta:      ActionMeta{Priority: 3},
			ZoneID:          "rose",
			MergeIntoZoneID: "rose",
		}

		require.ErrorIs(t, action.Validate(), ErrInvalidAction)
	})

	t.Run("accepts expand with zone id", func(t *testing.T) {
		action := ExpandZone{
			ActionMeta: ActionMeta{Priority: 5},
			ZoneID:     "cabernet",
		}

		require.NoError(t, action.Validate())
	})
}

func TestEncodeActions_RoundTrip(t *testing.T) {
	actions := []Action{
		ReallocateRow{
			ActionMeta: ActionMeta{Priority: 1, Reason: "boundary", BottlesAffected: 4},
			FromZoneID: "riesling",
			ToZoneID:   "cabernet",
			RowNumber:  7,
		},
		MergeZones{
			ActionMeta:   ActionMeta{Priority: 3, Reason: "low utilization"},
			SourceZones:  []string{"rose"},
			TargetZoneID: "curiosities",
		},
		RetireZone{
			ActionMeta:      ActionMeta{Priority: 3, Reason: "nearly empty"},
			ZoneID:          "port",
			MergeIntoZoneID: "curiosities",
		},
		ExpandZone{
			ActionMeta: ActionMeta{Priority: 5, Reason: "overflowing"},
			ZoneID:     "cabernet",
		},
	}

	data, err := EncodeActions(actions)
	require.NoError(t, err)

	decoded, err := DecodeActions(data)
	require.NoError(t, err)
	require.Equal(t, actions, decoded)

	t.Run("rejects nil entries", func(t *testing.T) {
		_, err := EncodeActions([]Action{nil})
		require.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("rejects unknown type tag", func(t *testing.T) {
		_, err := DecodeActions([]byte(`[{"type":"swap_everything"}]`))
		require.ErrorIs(t, err, ErrInvalidAction)
	})

	t.Run("rejects envelope missing its payload", func(t *testing.T) {
		_, err := DecodeActions([]byte(`[{"type":"reallocate_row"}]`))
		require.ErrorIs(t, err, ErrInvalidAction)
	})
}

func TestPlan_JSONRoundTrip(t *testing.T) {
	plan := Plan{
		Actions: []Action{
			ReallocateRow{
				ActionMeta: ActionMeta{Priority: 2, Reason: "deficit", BottlesAffected: 3},
				FromZoneID: "chardonnay",
				ToZoneID:   "cabernet",
				RowNumber:  5,
			},
		},
		Reasoning: "Capacity: 1 row(s) reassigned to under-provisioned zones.",
		Summary:   &PlanSummary{ZonesChanged: 2, BottlesAffected: 3},
	}

	data, err := json.Marshal(plan)
	require.NoError(t, err)

	var decoded Plan
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, plan, decoded)
}
