package cellarplan

import "github.com/Lbstrydom/cellarplan/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `cellarplan`
// package, while still providing a convenient `cellarplan.Zone`,
// `cellarplan.Plan`, etc. for users.
type (
	Zone            = types.Zone
	ZoneUtilization = types.ZoneUtilization
	Allocation      = types.Allocation
	Plan            = types.Plan
	PlanSummary     = types.PlanSummary
	Action          = types.Action
	ActionMeta      = types.ActionMeta
	ReallocateRow   = types.ReallocateRow
	MergeZones      = types.MergeZones
	RetireZone      = types.RetireZone
	ExpandZone      = types.ExpandZone
)

// Re-export interfaces from the types package for convenience.
type (
	ZoneSource       = types.ZoneSource
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export enums and their values from the types package.
type (
	ColorFamily   = types.ColorFamily
	ColorOrder    = types.ColorOrder
	StabilityBias = types.StabilityBias
)

const (
	ColorNeutral = types.ColorNeutral
	ColorRed     = types.ColorRed
	ColorWhite   = types.ColorWhite

	RedFirst   = types.RedFirst
	WhiteFirst = types.WhiteFirst

	BiasLow      = types.BiasLow
	BiasModerate = types.BiasModerate
	BiasHigh     = types.BiasHigh
)
