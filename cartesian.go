package geodesy

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// CartesianCoord is an earth-centred, earth-fixed position in metres.
type CartesianCoord struct {
	X, Y, Z float64
}

var cartesianLatitude = convergence{Tolerance: 1e-12, MaxIterations: 100}

// GeographicToCartesian converts a geographic coordinate and an
// ellipsoidal height in metres to earth-centred Cartesian coordinates.
func (e Ellipsoid) GeographicToCartesian(geo s2.LatLng, height float64) (CartesianCoord, error) {
	if err := validateLatLng(geo); err != nil {
		return CartesianCoord{}, err
	}
	sinPhi, cosPhi := math.Sincos(geo.Lat.Radians())
	sinLng, cosLng := math.Sincos(geo.Lng.Radians())
	nu := e.SemiMajorAxis / math.Sqrt(1-e.Ecc1Sq*sinPhi*sinPhi)
	return CartesianCoord{
		X: (nu + height) * cosPhi * cosLng,
		Y: (nu + height) * cosPhi * sinLng,
		Z: ((1-e.Ecc1Sq)*nu + height) * sinPhi,
	}, nil
}

// CartesianToGeographic converts earth-centred Cartesian coordinates to
// a geographic coordinate and ellipsoidal height. The latitude is
// refined by fixed-point iteration on the prime vertical radius.
func (e Ellipsoid) CartesianToGeographic(c CartesianCoord) (s2.LatLng, float64, error) {
	p := math.Hypot(c.X, c.Y)
	if p == 0 {
		// on the polar axis
		lat := s1.Angle(math.Copysign(math.Pi/2, c.Z))
		return s2.LatLng{Lat: lat}, math.Abs(c.Z) - e.SemiMinorAxis, nil
	}

	phi, err := cartesianLatitude.run("cartesian latitude recovery",
		math.Atan2(c.Z, p*(1-e.Ecc1Sq)),
		func(phi float64) float64 {
			sinPhi := math.Sin(phi)
			nu := e.SemiMajorAxis / math.Sqrt(1-e.Ecc1Sq*sinPhi*sinPhi)
			return math.Atan2(c.Z+e.Ecc1Sq*nu*sinPhi, p)
		})
	if err != nil {
		return s2.LatLng{}, 0, err
	}

	sinPhi, cosPhi := math.Sincos(phi)
	nu := e.SemiMajorAxis / math.Sqrt(1-e.Ecc1Sq*sinPhi*sinPhi)
	var height float64
	if math.Abs(cosPhi) > 1e-10 {
		height = p/cosPhi - nu
	} else {
		height = c.Z/sinPhi - nu*(1-e.Ecc1Sq)
	}
	return s2.LatLng{Lat: s1.Angle(phi), Lng: s1.Angle(math.Atan2(c.Y, c.X))}, height, nil
}
