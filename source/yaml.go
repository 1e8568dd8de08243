package source

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Lbstrydom/cellarplan/types"
)

// YAMLFile implements a zone source backed by a YAML definition file.
//
// The file holds a top-level "zones" list:
//
//	zones:
//	  - id: cabernet
//	    name: Cabernet Sauvignon
//	    color: red
//	  - id: curiosities
//	    name: Curiosities
//	    color: any
//
// The file is read on every ListZones call so edits take effect on the next
// engine invocation without a restart.
type YAMLFile struct {
	mu   sync.Mutex
	path string
}

var _ types.ZoneSource = (*YAMLFile)(nil)

type yamlZoneFile struct {
	Zones []types.Zone `yaml:"zones"`
}

// NewYAMLFile creates a zone source reading from the given YAML file.
//
// Parameters:
//   - path: Path to the zone definition file
//
// Returns:
//   - *YAMLFile: Initialized source (the file is not read until ListZones)
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

// ListZones reads and parses the zone definition file.
//
// Returns:
//   - []types.Zone: Zones declared in the file
//   - error: Read or parse failure, or a zone with an empty ID
func (y *YAMLFile) ListZones(_ context.Context) ([]types.Zone, error) {
	y.mu.Lock()
	defer y.mu.Unlock()

	data, err := os.ReadFile(y.path)
	if err != nil {
		return nil, fmt.Errorf("read zone file %s: %w", y.path, err)
	}

	var file yamlZoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse zone file %s: %w", y.path, err)
	}

	for i, zone := range file.Zones {
		if zone.ID == "" {
			return nil, fmt.Errorf("%w: zone %d in %s has no id", types.ErrInvalidConfig, i, y.path)
		}
	}

	return file.Zones, nil
}
