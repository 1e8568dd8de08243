package types

import "encoding/json"

// Plan is an ordered sequence of proposed actions plus the solver's
// narrative. It is created once per reconfiguration attempt and immutable
// once returned; persistence of an approved plan is the caller's job.
type Plan struct {
	// Actions are applied in list order; the solver emits them sorted by
	// ascending priority with generation order preserved for ties.
	Actions []Action `json:"actions"`

	// Reasoning is the human-readable narrative assembled from per-phase
	// summaries.
	Reasoning string `json:"reasoning"`

	// Summary aggregates the plan's expected impact (optional).
	Summary *PlanSummary `json:"summary,omitempty"`
}

// PlanSummary aggregates a plan's expected impact.
type PlanSummary struct {
	// ZonesChanged is the number of distinct zones touched by mutating
	// actions.
	ZonesChanged int `json:"zonesChanged"`

	// BottlesAffected is the estimated bottle count the plan touches.
	BottlesAffected int `json:"bottlesAffected"`

	// MisplacedBefore counts rows on the wrong side of the color boundary
	// before the plan.
	MisplacedBefore int `json:"misplacedBefore"`

	// MisplacedAfter counts rows still misplaced after the plan.
	MisplacedAfter int `json:"misplacedAfter"`
}

// planJSON is the serialized form of a Plan with tagged actions.
type planJSON struct {
	Actions   json.RawMessage `json:"actions"`
	Reasoning string          `json:"reasoning"`
	Summary   *PlanSummary    `json:"summary,omitempty"`
}

// MarshalJSON serializes the plan with tagged action envelopes so the sealed
// union survives a round-trip through external collaborators.
func (p Plan) MarshalJSON() ([]byte, error) {
	actions, err := EncodeActions(p.Actions)
	if err != nil {
		return nil, err
	}

	return json.Marshal(planJSON{
		Actions:   actions,
		Reasoning: p.Reasoning,
		Summary:   p.Summary,
	})
}

// UnmarshalJSON parses a plan serialized by MarshalJSON.
func (p *Plan) UnmarshalJSON(data []byte) error {
	var raw planJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	actions, err := DecodeActions(raw.Actions)
	if err != nil {
		return err
	}

	p.Actions = actions
	p.Reasoning = raw.Reasoning
	p.Summary = raw.Summary

	return nil
}
