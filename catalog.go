package geodesy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EllipsoidDefinition is one entry in a YAML ellipsoid catalogue.
//
// Catalogue files map ellipsoid names to their defining parameters:
//
//	CLARKE1858:
//	  semi_major_axis: 6378293.645
//	  inverse_flattening: 294.26
type EllipsoidDefinition struct {
	SemiMajorAxis     float64 `yaml:"semi_major_axis"`
	InverseFlattening float64 `yaml:"inverse_flattening"`
}

// LoadEllipsoidCatalog reads user-defined ellipsoids from a YAML file
// and merges them over the built-in set. Entries with the same name as
// a built-in ellipsoid replace it.
func LoadEllipsoidCatalog(path string) (map[string]Ellipsoid, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ellipsoid catalogue: %w", err)
	}

	defs := map[string]EllipsoidDefinition{}
	if err := yaml.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parsing ellipsoid catalogue %s: %w", path, err)
	}

	out := BuiltinEllipsoids()
	for name, def := range defs {
		e, err := NewEllipsoid(def.SemiMajorAxis, def.InverseFlattening)
		if err != nil {
			return nil, fmt.Errorf("ellipsoid %q: %w", name, err)
		}
		out[name] = e
	}
	return out, nil
}
