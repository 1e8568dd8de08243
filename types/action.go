package types

import (
	"encoding/json"
	"fmt"
)

// ActionKind identifies an Action variant in logs and serialized plans.
type ActionKind string

const (
	// KindReallocateRow moves exactly one row between zones.
	KindReallocateRow ActionKind = "reallocate_row"

	// KindMergeZones folds one or more zones into a target.
	KindMergeZones ActionKind = "merge_zones"

	// KindRetireZone folds a zone into a target and retires it.
	KindRetireZone ActionKind = "retire_zone"

	// KindExpandZone signals a zone needs more space (informational).
	KindExpandZone ActionKind = "expand_zone"
)

// Priority bounds for plan actions: 1 is most urgent, 5 least.
const (
	PriorityMin = 1
	PriorityMax = 5
)

// Action is one proposed change to the rack layout.
//
// This is a sealed union: the four variants in this package are the only
// implementations, and the simulator dispatches on them exhaustively. The
// unexported marker method prevents implementations outside this package, so
// an "unknown action type" can only arise from a nil entry in a plan.
type Action interface {
	// Kind identifies the variant.
	Kind() ActionKind

	// Meta returns the fields shared by all variants.
	Meta() ActionMeta

	// Validate checks field-level constraints.
	Validate() error

	isAction()
}

// ActionMeta carries the fields shared by all action variants.
type ActionMeta struct {
	// Priority orders application: 1 (most urgent) to 5 (least).
	Priority int `json:"priority"`

	// Reason is the human-readable justification for the action.
	Reason string `json:"reason"`

	// BottlesAffected estimates how many bottles the action touches.
	BottlesAffected int `json:"bottlesAffected"`
}

// Meta returns the shared action fields.
func (m ActionMeta) Meta() ActionMeta { return m }

func (m ActionMeta) isAction() {}

func (m ActionMeta) validateMeta() error {
	if m.Priority < PriorityMin || m.Priority > PriorityMax {
		return fmt.Errorf("%w: priority %d outside [%d, %d]",
			ErrInvalidAction, m.Priority, PriorityMin, PriorityMax)
	}

	return nil
}

// ReallocateRow moves the ownership of exactly one row from one zone to
// another.
type ReallocateRow struct {
	ActionMeta

	// FromZoneID is the donor zone that currently owns the row.
	FromZoneID string `json:"fromZoneId"`

	// ToZoneID is the recipient zone.
	ToZoneID string `json:"toZoneId"`

	// RowNumber is the row being moved (1-based).
	RowNumber int `json:"rowNumber"`
}

// Kind identifies the variant.
func (a ReallocateRow) Kind() ActionKind { return KindReallocateRow }

// Validate checks field-level constraints.
func (a ReallocateRow) Validate() error {
	if err := a.validateMeta(); err != nil {
		return err
	}
	if a.FromZoneID == "" || a.ToZoneID == "" {
		return fmt.Errorf("%w: reallocate requires both zone ids", ErrInvalidAction)
	}
	if a.FromZoneID == a.ToZoneID {
		return fmt.Errorf("%w: reallocate from and to zone are both %q", ErrInvalidAction, a.FromZoneID)
	}
	if a.RowNumber < 1 {
		return fmt.Errorf("%w: row number %d", ErrInvalidAction, a.RowNumber)
	}

	return nil
}

// MergeZones folds one or more source zones' rows and bottles into a target
// zone. Sources become empty but are not retired.
type MergeZones struct {
	ActionMeta

	// SourceZones are the zones being folded into the target.
	SourceZones []string `json:"sourceZones"`

	// TargetZoneID receives the sources' rows and bottles.
	TargetZoneID string `json:"targetZoneId"`
}

// Kind identifies the variant.
func (a MergeZones) Kind() ActionKind { return KindMergeZones }

// Validate checks field-level constraints.
func (a MergeZones) Validate() error {
	if err := a.validateMeta(); err != nil {
		return err
	}
	if len(a.SourceZones) == 0 {
		return fmt.Errorf("%w: merge requires at least one source zone", ErrInvalidAction)
	}
	if a.TargetZoneID == "" {
		return fmt.Errorf("%w: merge requires a target zone", ErrInvalidAction)
	}
	for _, src := range a.SourceZones {
		if src == "" {
			return fmt.Errorf("%w: merge source zone id is empty", ErrInvalidAction)
		}
		if src == a.TargetZoneID {
			return fmt.Errorf("%w: merge source and target are both %q", ErrInvalidAction, src)
		}
	}

	return nil
}

// RetireZone folds a zone into a target like a single-source merge and
// additionally marks it permanently retired for the rest of the plan.
type RetireZone struct {
	ActionMeta

	// ZoneID is the zone being retired.
	ZoneID string `json:"zoneId"`

	// MergeIntoZoneID receives the retired zone's rows and bottles.
	MergeIntoZoneID string `json:"mergeIntoZoneId"`
}

// Kind identifies the variant.
func (a RetireZone) Kind() ActionKind { return KindRetireZone }

// Validate checks field-level constraints.
func (a RetireZone) Validate() error {
	if err := a.validateMeta(); err != nil {
		return err
	}
	if a.ZoneID == "" || a.MergeIntoZoneID == "" {
		return fmt.Errorf("%w: retire requires both zone ids", ErrInvalidAction)
	}
	if a.ZoneID == a.MergeIntoZoneID {
		return fmt.Errorf("%w: retire zone and merge target are both %q", ErrInvalidAction, a.ZoneID)
	}

	return nil
}

// ExpandZone signals that a zone needs more space without committing to a
// donor. It never mutates ownership.
type ExpandZone struct {
	ActionMeta

	// ZoneID is the zone that needs more rows.
	ZoneID string `json:"zoneId"`
}

// Kind identifies the variant.
func (a ExpandZone) Kind() ActionKind { return KindExpandZone }

// Validate checks field-level constraints.
func (a ExpandZone) Validate() error {
	if err := a.validateMeta(); err != nil {
		return err
	}
	if a.ZoneID == "" {
		return fmt.Errorf("%w: expand requires a zone id", ErrInvalidAction)
	}

	return nil
}

// actionEnvelope is the serialized form of an Action, tagged by kind.
type actionEnvelope struct {
	Type       ActionKind     `json:"type"`
	Reallocate *ReallocateRow `json:"reallocate,omitempty"`
	Merge      *MergeZones    `json:"merge,omitempty"`
	Retire     *RetireZone    `json:"retire,omitempty"`
	Expand     *ExpandZone    `json:"expand,omitempty"`
}

func envelopeFor(action Action) (actionEnvelope, error) {
	switch a := action.(type) {
	case ReallocateRow:
		return actionEnvelope{Type: KindReallocateRow, Reallocate: &a}, nil
	case MergeZones:
		return actionEnvelope{Type: KindMergeZones, Merge: &a}, nil
	case RetireZone:
		return actionEnvelope{Type: KindRetireZone, Retire: &a}, nil
	case ExpandZone:
		return actionEnvelope{Type: KindExpandZone, Expand: &a}, nil
	default:
		return actionEnvelope{}, fmt.Errorf("%w: cannot encode nil action", ErrInvalidAction)
	}
}

func (e actionEnvelope) action() (Action, error) {
	switch e.Type {
	case KindReallocateRow:
		if e.Reallocate == nil {
			return nil, fmt.Errorf("%w: envelope %s missing payload", ErrInvalidAction, e.Type)
		}

		return *e.Reallocate, nil
	case KindMergeZones:
		if e.Merge == nil {
			return nil, fmt.Errorf("%w: envelope %s missing payload", ErrInvalidAction, e.Type)
		}

		return *e.Merge, nil
	case KindRetireZone:
		if e.Retire == nil {
			return nil, fmt.Errorf("%w: envelope %s missing payload", ErrInvalidAction, e.Type)
		}

		return *e.Retire, nil
	case KindExpandZone:
		if e.Expand == nil {
			return nil, fmt.Errorf("%w: envelope %s missing payload", ErrInvalidAction, e.Type)
		}

		return *e.Expand, nil
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidAction, e.Type)
	}
}

// EncodeActions serializes an action list as tagged JSON.
//
// Parameters:
//   - actions: Actions to encode (nil entries are rejected)
//
// Returns:
//   - []byte: JSON array of tagged action envelopes
//   - error: Encoding error for nil entries
func EncodeActions(actions []Action) ([]byte, error) {
	envelopes := make([]actionEnvelope, 0, len(actions))
	for i, action := range actions {
		env, err := envelopeFor(action)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		envelopes = append(envelopes, env)
	}

	return json.Marshal(envelopes)
}

// DecodeActions parses a tagged JSON action list produced by EncodeActions.
//
// Parameters:
//   - data: JSON array of tagged action envelopes
//
// Returns:
//   - []Action: Decoded actions
//   - error: Decoding error for malformed or unknown-typed entries
func DecodeActions(data []byte) ([]Action, error) {
	var envelopes []actionEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return nil, fmt.Errorf("decode actions: %w", err)
	}

	actions := make([]Action, 0, len(envelopes))
	for i, env := range envelopes {
		action, err := env.action()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, action)
	}

	return actions, nil
}
