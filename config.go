package cellarplan

import (
	"fmt"

	"github.com/Lbstrydom/cellarplan/types"
)

// PublishConfig configures the optional plan publisher.
type PublishConfig struct {
	// KeyPrefix is the prefix for plan record keys (e.g., "plan" produces
	// "plan.1", "plan.2").
	KeyPrefix string `yaml:"keyPrefix"`

	// Retain is how many plan versions are kept in the KV bucket.
	Retain int `yaml:"retain"`
}

// Config is the configuration for the Engine.
//
// The zero value plus SetDefaults describes the reference rack: 19 rows of
// 9 slots with a smaller 6-slot bottom row, reds racked before whites.
type Config struct {
	// NumRows is the number of rows in the rack (identities R1..RN).
	NumRows int `yaml:"numRows"`

	// DefaultRowSlots is the slot capacity applied to every row.
	DefaultRowSlots int `yaml:"defaultRowSlots"`

	// RowSlotOverrides overrides individual rows' capacities (e.g., the
	// smaller bottom row).
	RowSlotOverrides map[int]int `yaml:"rowSlotOverrides"`

	// ColorOrder is which color family occupies the rows before the
	// boundary. Reds-first matches a rack whose cool lower section sits
	// past the boundary.
	ColorOrder types.ColorOrder `yaml:"colorOrder"`

	// StabilityBias is the recommended bias for this rack; callers copy it
	// into Request.Bias. Higher bias trades optimization for fewer moves.
	StabilityBias types.StabilityBias `yaml:"stabilityBias"`

	// RetireBottleMax is the bottle count at or below which a merge
	// candidate's source zone is retired rather than merged.
	RetireBottleMax int `yaml:"retireBottleMax"`

	// MergeBottleMax is the bottle count at or below which a merge
	// candidate's source zone may be merged.
	MergeBottleMax int `yaml:"mergeBottleMax"`

	// MergeUtilizationMax is the utilization percentage a merge source must
	// sit below.
	MergeUtilizationMax float64 `yaml:"mergeUtilizationMax"`

	// ScatterTopN is how many scattered wines (by bottle count) the
	// consolidation phase considers.
	ScatterTopN int `yaml:"scatterTopN"`

	// Publish configures the optional plan publisher.
	Publish PublishConfig `yaml:"publish"`
}

// DefaultConfig returns a Config with production defaults.
//
// Returns:
//   - Config: Configuration describing the reference 19-row rack
func DefaultConfig() Config {
	return Config{
		NumRows:             19,
		DefaultRowSlots:     9,
		RowSlotOverrides:    map[int]int{19: 6},
		ColorOrder:          types.RedFirst,
		StabilityBias:       types.BiasModerate,
		RetireBottleMax:     2,
		MergeBottleMax:      5,
		MergeUtilizationMax: 25.0,
		ScatterTopN:         3,
		Publish: PublishConfig{
			KeyPrefix: "plan",
			Retain:    10,
		},
	}
}

// TestConfig returns a Config suitable for tests: a small uniform rack with
// no special bottom row.
//
// Returns:
//   - Config: Configuration for an 8-row, 4-slot rack
func TestConfig() Config {
	return Config{
		NumRows:             8,
		DefaultRowSlots:     4,
		ColorOrder:          types.RedFirst,
		StabilityBias:       types.BiasLow,
		RetireBottleMax:     2,
		MergeBottleMax:      5,
		MergeUtilizationMax: 25.0,
		ScatterTopN:         3,
		Publish: PublishConfig{
			KeyPrefix: "plan",
			Retain:    3,
		},
	}
}

// SetDefaults fills in missing configuration values with production
// defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.NumRows == 0 {
		cfg.NumRows = defaults.NumRows
	}
	if cfg.DefaultRowSlots == 0 {
		cfg.DefaultRowSlots = defaults.DefaultRowSlots
	}
	if cfg.NumRows == defaults.NumRows && cfg.DefaultRowSlots == defaults.DefaultRowSlots && cfg.RowSlotOverrides == nil {
		cfg.RowSlotOverrides = defaults.RowSlotOverrides
	}
	if cfg.RetireBottleMax == 0 {
		cfg.RetireBottleMax = defaults.RetireBottleMax
	}
	if cfg.MergeBottleMax == 0 {
		cfg.MergeBottleMax = defaults.MergeBottleMax
	}
	if cfg.MergeUtilizationMax == 0 {
		cfg.MergeUtilizationMax = defaults.MergeUtilizationMax
	}
	if cfg.ScatterTopN == 0 {
		cfg.ScatterTopN = defaults.ScatterTopN
	}
	if cfg.Publish.KeyPrefix == "" {
		cfg.Publish.KeyPrefix = defaults.Publish.KeyPrefix
	}
	if cfg.Publish.Retain == 0 {
		cfg.Publish.Retain = defaults.Publish.Retain
	}
	// Note: ColorOrder and StabilityBias zero values are valid defaults
	// (reds-first, moderate via ParseStabilityBias("")), so none are applied.
}

// Validate checks the configuration for invalid values.
//
// Returns:
//   - error: ErrInvalidConfig describing the first invalid field, nil when
//     the configuration is usable
func (cfg *Config) Validate() error {
	if cfg.NumRows < 1 {
		return fmt.Errorf("%w: numRows must be positive, got %d", ErrInvalidConfig, cfg.NumRows)
	}
	if cfg.DefaultRowSlots < 1 {
		return fmt.Errorf("%w: defaultRowSlots must be positive, got %d", ErrInvalidConfig, cfg.DefaultRowSlots)
	}
	for row, slots := range cfg.RowSlotOverrides {
		if row < 1 || row > cfg.NumRows {
			return fmt.Errorf("%w: rowSlotOverrides row %d outside 1..%d", ErrInvalidConfig, row, cfg.NumRows)
		}
		if slots < 1 {
			return fmt.Errorf("%w: rowSlotOverrides[%d] must be positive, got %d", ErrInvalidConfig, row, slots)
		}
	}
	if cfg.RetireBottleMax < 0 {
		return fmt.Errorf("%w: retireBottleMax must not be negative, got %d", ErrInvalidConfig, cfg.RetireBottleMax)
	}
	if cfg.MergeBottleMax < cfg.RetireBottleMax {
		return fmt.Errorf("%w: mergeBottleMax %d below retireBottleMax %d",
			ErrInvalidConfig, cfg.MergeBottleMax, cfg.RetireBottleMax)
	}
	if cfg.MergeUtilizationMax <= 0 || cfg.MergeUtilizationMax > 100 {
		return fmt.Errorf("%w: mergeUtilizationMax must be in (0, 100], got %v",
			ErrInvalidConfig, cfg.MergeUtilizationMax)
	}
	if cfg.ScatterTopN < 0 {
		return fmt.Errorf("%w: scatterTopN must not be negative, got %d", ErrInvalidConfig, cfg.ScatterTopN)
	}

	return nil
}
