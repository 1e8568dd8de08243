package source

import (
	"context"
	"sync"

	"github.com/Lbstrydom/cellarplan/types"
)

// Static implements a zone source with a fixed list of zones.
type Static struct {
	mu    sync.RWMutex
	zones []types.Zone
}

var _ types.ZoneSource = (*Static)(nil)

// NewStatic creates a new static zone source.
//
// The source returns a fixed list of zones that never changes. Useful for
// testing and scenarios where the cellar layout is known at startup.
//
// Parameters:
//   - zones: Fixed list of zones
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	zones := []types.Zone{
//	    {ID: "cabernet", Name: "Cabernet Sauvignon", Color: types.ColorRed},
//	    {ID: "riesling", Name: "Riesling", Color: types.ColorWhite},
//	}
//	src := source.NewStatic(zones)
//	engine, err := cellarplan.New(cfg, src)
//	if err != nil { /* handle */ }
func NewStatic(zones []types.Zone) *Static {
	return &Static{
		zones: zones,
	}
}

// ListZones returns the static list of zones.
//
// Returns:
//   - []types.Zone: The fixed list of zones
//   - error: Always nil (never fails)
func (s *Static) ListZones(_ context.Context) ([]types.Zone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Zone, len(s.zones))
	copy(result, s.zones)

	return result, nil
}

// Update replaces the zone list.
//
// This allows the static source to simulate zone definition changes, which
// is useful for testing refresh scenarios.
//
// Parameters:
//   - zones: New list of zones
func (s *Static) Update(zones []types.Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.zones = make([]types.Zone, len(zones))
	copy(s.zones, zones)
}
