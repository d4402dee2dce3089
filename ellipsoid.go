// Package geodesy provides geodetic computations on a reference
// ellipsoid: Transverse Mercator grid conversions, Vincenty geodesics,
// earth-centred Cartesian conversions, and interpolation of NTv2
// gridded correction files.
package geodesy

import (
	"fmt"
	"math"
)

// Ellipsoid is a reference ellipsoid defined by its semi-major axis in
// metres and its inverse flattening. The derived quantities are
// computed once at construction to full float64 precision and never
// mutated afterwards, so an Ellipsoid is safe to share between
// concurrent callers.
type Ellipsoid struct {
	SemiMajorAxis     float64
	InverseFlattening float64

	Flattening      float64 // f
	SemiMinorAxis   float64 // b
	Ecc1Sq          float64 // first eccentricity squared
	Ecc2Sq          float64 // second eccentricity squared
	ThirdFlattening float64 // Helmert's n = (a-b)/(a+b)
}

// NewEllipsoid constructs an Ellipsoid from its semi-major axis in
// metres and its inverse flattening.
func NewEllipsoid(semiMajorAxis, inverseFlattening float64) (Ellipsoid, error) {
	if semiMajorAxis <= 0 {
		return Ellipsoid{}, &ErrInputRange{Field: "semi-major axis", Value: semiMajorAxis, Min: 0, Max: math.Inf(1)}
	}
	if inverseFlattening < 150 || inverseFlattening > 350 {
		return Ellipsoid{}, &ErrInputRange{Field: "inverse flattening", Value: inverseFlattening, Min: 150, Max: 350}
	}

	f := 1 / inverseFlattening
	e := Ellipsoid{
		SemiMajorAxis:     semiMajorAxis,
		InverseFlattening: inverseFlattening,
		Flattening:        f,
		SemiMinorAxis:     semiMajorAxis * (1 - f),
		Ecc1Sq:            f * (2 - f),
		ThirdFlattening:   f / (2 - f),
	}
	e.Ecc2Sq = e.Ecc1Sq / (1 - e.Ecc1Sq)
	return e, nil
}

func mustEllipsoid(semiMajorAxis, inverseFlattening float64) Ellipsoid {
	e, err := NewEllipsoid(semiMajorAxis, inverseFlattening)
	if err != nil {
		panic(fmt.Sprintf("error constructing predefined ellipsoid: %s", err))
	}
	return e
}

// Predefined reference ellipsoids.
var (
	// GRS80 is the Geodetic Reference System 1980 ellipsoid, used by
	// GDA94 and GDA2020.
	GRS80 = mustEllipsoid(6378137.0, 298.257222101)
	// WGS84 is the World Geodetic System 1984 ellipsoid.
	WGS84 = mustEllipsoid(6378137.0, 298.257223563)
	// ANS is the Australian National Spheroid, used by AGD66/AGD84.
	ANS = mustEllipsoid(6378160.0, 298.25)
	// International1924 is the International (Hayford) ellipsoid.
	International1924 = mustEllipsoid(6378388.0, 297.0)
)

// BuiltinEllipsoids returns the predefined reference ellipsoids keyed
// by their common names.
func BuiltinEllipsoids() map[string]Ellipsoid {
	return map[string]Ellipsoid{
		"GRS80":    GRS80,
		"WGS84":    WGS84,
		"ANS":      ANS,
		"INTL1924": International1924,
	}
}
