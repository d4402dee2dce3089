package geodesy

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Hemisphere identifies which side of the equator a grid coordinate
// refers to.
type Hemisphere int

const (
	HemisphereInvalid Hemisphere = iota
	HemisphereNorth
	HemisphereSouth
)

func (h Hemisphere) String() string {
	switch h {
	case HemisphereNorth:
		return "north"
	case HemisphereSouth:
		return "south"
	default:
		return "invalid"
	}
}

// ProjectionParams defines a zoned Transverse Mercator projection.
type ProjectionParams struct {
	FalseEasting           float64
	FalseNorthing          float64 // applied in the southern hemisphere only
	CentralMeridianScale   float64
	ZoneWidth              float64 // degrees
	InitialCentralMeridian float64 // degrees, central meridian of zone 1
}

// UTMParams is the Universal Transverse Mercator parameter block, also
// used by the Map Grid of Australia.
var UTMParams = ProjectionParams{
	FalseEasting:           500000,
	FalseNorthing:          10000000,
	CentralMeridianScale:   0.9996,
	ZoneWidth:              6,
	InitialCentralMeridian: -177,
}

// GridCoord is a projected grid coordinate together with the point
// scale factor and grid convergence at that point.
type GridCoord struct {
	Zone       int
	Hemisphere Hemisphere
	Easting    float64 // metres
	Northing   float64 // metres

	PointScale  float64  // ratio of grid distance to ellipsoidal distance
	Convergence s1.Angle // angle from true north to grid north
}

// GeodeticCoord is a geographic coordinate recovered from the grid,
// together with the point scale factor and grid convergence.
type GeodeticCoord struct {
	LatLng      s2.LatLng
	PointScale  float64
	Convergence s1.Angle
}

// Projection converts between geographic and projected grid
// coordinates on a reference ellipsoid using Krueger's n-series.
// A Projection is immutable after construction and safe for concurrent
// use.
type Projection struct {
	Ellipsoid Ellipsoid
	Params    ProjectionParams

	coeff seriesCoefficients
}

// NewProjection constructs a Projection for the given ellipsoid and
// parameter block, deriving the series coefficients once up front.
func NewProjection(e Ellipsoid, params ProjectionParams) *Projection {
	return &Projection{Ellipsoid: e, Params: params, coeff: newSeriesCoefficients(e)}
}

// Latitude bounds of the Transverse Mercator domain. Latitudes beyond
// these are rejected, not clamped.
const (
	minLatitude = -80.0
	maxLatitude = 84.0
)

const (
	minEasting  = 100000.0
	maxEasting  = 900000.0
	minNorthing = 0.0
	maxNorthing = 10000000.0
)

// tan(lat) spans roughly [-10, 10] over the projection's latitude
// domain, so 1e-14 keeps the Newton stop above float64 spacing there.
var latitudeRecovery = convergence{Tolerance: 1e-14, MaxIterations: 100}

// ZoneForLongitude returns the zone whose width-of-longitude band
// contains the given longitude.
func (p *Projection) ZoneForLongitude(lng s1.Angle) int {
	return int((lng.Degrees()-(p.Params.InitialCentralMeridian-p.Params.ZoneWidth/2))/p.Params.ZoneWidth) + 1
}

// CentralMeridian returns the central meridian of the given zone.
func (p *Projection) CentralMeridian(zone int) s1.Angle {
	return s1.Angle((p.Params.InitialCentralMeridian + float64(zone-1)*p.Params.ZoneWidth) * math.Pi / 180)
}

// ConvertFromGeodetic converts a geographic coordinate to a projected
// grid coordinate. A zone of 0 selects the zone containing the
// longitude; a non-zero zone projects onto that zone's central
// meridian instead.
func (p *Projection) ConvertFromGeodetic(geo s2.LatLng, zone int) (GridCoord, error) {
	lat := geo.Lat.Degrees()
	lng := geo.Lng.Degrees()
	if lat < minLatitude || lat > maxLatitude {
		return GridCoord{}, &ErrInputRange{Field: "latitude", Value: lat, Min: minLatitude, Max: maxLatitude}
	}
	if lng < -180 || lng > 180 {
		return GridCoord{}, &ErrInputRange{Field: "longitude", Value: lng, Min: -180, Max: 180}
	}
	if zone < 0 || zone > 60 {
		return GridCoord{}, &ErrInputRange{Field: "zone", Value: float64(zone), Min: 0, Max: 60}
	}
	if zone == 0 {
		zone = p.ZoneForLongitude(geo.Lng)
		if zone > 60 {
			// longitude of exactly +180 wraps into zone 1
			zone = 1
		}
	}

	phi := geo.Lat.Radians()
	omega := geo.Lng.Radians() - p.CentralMeridian(zone).Radians()
	if omega > math.Pi {
		omega -= 2 * math.Pi
	} else if omega < -math.Pi {
		omega += 2 * math.Pi
	}

	// Gaussian conformal latitude, closed form through tan(lat).
	t, t1 := p.conformalTan(phi)

	// Gauss-Schreiber ratios on the conformal sphere.
	xi1 := math.Atan2(t1, math.Cos(omega))
	eta1 := math.Asinh(math.Sin(omega) / math.Hypot(t1, math.Cos(omega)))

	// Transverse Mercator ratios from the eight-term alpha series.
	xi, eta := xi1, eta1
	for r := 0; r < 8; r++ {
		m := 2 * float64(r+1)
		xi += p.coeff.alpha[r] * math.Sin(m*xi1) * math.Cosh(m*eta1)
		eta += p.coeff.alpha[r] * math.Cos(m*xi1) * math.Sinh(m*eta1)
	}

	k0 := p.Params.CentralMeridianScale
	easting := k0*p.coeff.rectifyingRadius*eta + p.Params.FalseEasting
	northing := k0 * p.coeff.rectifyingRadius * xi
	hemisphere := HemisphereNorth
	if phi < 0 {
		hemisphere = HemisphereSouth
		northing += p.Params.FalseNorthing
	}

	scale, conv := p.pointFactors(phi, omega, t, t1, xi1, eta1)
	return GridCoord{
		Zone:        zone,
		Hemisphere:  hemisphere,
		Easting:     easting,
		Northing:    northing,
		PointScale:  scale,
		Convergence: conv,
	}, nil
}

// ConvertToGeodetic converts a projected grid coordinate back to a
// geographic coordinate. The geodetic latitude is recovered from the
// conformal latitude by Newton's method; failure to converge within
// the iteration cap is surfaced as ErrNoConvergence.
func (p *Projection) ConvertToGeodetic(grid GridCoord) (GeodeticCoord, error) {
	if grid.Zone < 1 || grid.Zone > 60 {
		return GeodeticCoord{}, &ErrInputRange{Field: "zone", Value: float64(grid.Zone), Min: 1, Max: 60}
	}
	if grid.Hemisphere != HemisphereNorth && grid.Hemisphere != HemisphereSouth {
		return GeodeticCoord{}, &ErrInputRange{Field: "hemisphere", Value: float64(grid.Hemisphere), Min: float64(HemisphereNorth), Max: float64(HemisphereSouth)}
	}
	if grid.Easting < minEasting || grid.Easting > maxEasting {
		return GeodeticCoord{}, &ErrInputRange{Field: "easting", Value: grid.Easting, Min: minEasting, Max: maxEasting}
	}
	if grid.Northing < minNorthing || grid.Northing > maxNorthing {
		return GeodeticCoord{}, &ErrInputRange{Field: "northing", Value: grid.Northing, Min: minNorthing, Max: maxNorthing}
	}

	falseNorthing := 0.0
	if grid.Hemisphere == HemisphereSouth {
		falseNorthing = p.Params.FalseNorthing
	}

	k0 := p.Params.CentralMeridianScale
	eta := (grid.Easting - p.Params.FalseEasting) / (k0 * p.coeff.rectifyingRadius)
	xi := (grid.Northing - falseNorthing) / (k0 * p.coeff.rectifyingRadius)

	// Gauss-Schreiber ratios from the eight-term beta series.
	xi1, eta1 := xi, eta
	for r := 0; r < 8; r++ {
		m := 2 * float64(r+1)
		xi1 -= p.coeff.beta[r] * math.Sin(m*xi) * math.Cosh(m*eta)
		eta1 -= p.coeff.beta[r] * math.Cos(m*xi) * math.Sinh(m*eta)
	}

	sinhEta1 := math.Sinh(eta1)
	cosXi1 := math.Cos(xi1)
	t1 := math.Sin(xi1) / math.Sqrt(sinhEta1*sinhEta1+cosXi1*cosXi1)
	omega := math.Atan2(sinhEta1, cosXi1)

	// Newton's method on f(t) = t*sqrt(1+sigma^2) - sigma*sqrt(1+t^2) - t1.
	ecc2 := p.Ellipsoid.Ecc1Sq
	ecc := math.Sqrt(ecc2)
	t, err := latitudeRecovery.run("geodetic latitude recovery", t1, func(t float64) float64 {
		sigma := math.Sinh(ecc * math.Atanh(ecc*t/math.Sqrt(1+t*t)))
		ft := t*math.Sqrt(1+sigma*sigma) - sigma*math.Sqrt(1+t*t) - t1
		dft := (math.Sqrt(1+sigma*sigma)*math.Sqrt(1+t*t) - sigma*t) * (1 - ecc2) * math.Sqrt(1+t*t) / (1 + (1-ecc2)*t*t)
		return t - ft/dft
	})
	if err != nil {
		return GeodeticCoord{}, err
	}

	phi := math.Atan(t)
	lng := p.CentralMeridian(grid.Zone).Radians() + omega

	scale, conv := p.pointFactors(phi, omega, t, t1, xi1, eta1)
	return GeodeticCoord{
		LatLng:      s2.LatLng{Lat: s1.Angle(phi), Lng: s1.Angle(lng)},
		PointScale:  scale,
		Convergence: conv,
	}, nil
}

// conformalTan returns tan of the geodetic latitude and tan of the
// Gaussian conformal latitude.
func (p *Projection) conformalTan(phi float64) (t, t1 float64) {
	ecc := math.Sqrt(p.Ellipsoid.Ecc1Sq)
	t = math.Tan(phi)
	sigma := math.Sinh(ecc * math.Atanh(ecc*t/math.Sqrt(1+t*t)))
	t1 = t*math.Sqrt(1+sigma*sigma) - sigma*math.Sqrt(1+t*t)
	return t, t1
}

// pointFactors accumulates the partial-derivative sums of the series to
// produce the point scale factor and grid convergence. The convergence
// sign follows the GDA convention: negative west of the central
// meridian in the southern hemisphere, mirrored in the north.
func (p *Projection) pointFactors(phi, omega, t, t1, xi1, eta1 float64) (float64, s1.Angle) {
	q := 0.0
	pp := 1.0
	for r := 0; r < 8; r++ {
		m := 2 * float64(r+1)
		q += m * p.coeff.alpha[r] * math.Sin(m*xi1) * math.Sinh(m*eta1)
		pp += m * p.coeff.alpha[r] * math.Cos(m*xi1) * math.Cosh(m*eta1)
	}
	q = -q

	sinPhi := math.Sin(phi)
	cosOmega := math.Cos(omega)
	scale := p.Params.CentralMeridianScale * (p.coeff.rectifyingRadius / p.Ellipsoid.SemiMajorAxis) *
		math.Sqrt(q*q+pp*pp) * math.Sqrt(1+t*t) *
		math.Sqrt(1-p.Ellipsoid.Ecc1Sq*sinPhi*sinPhi) /
		math.Sqrt(t1*t1+cosOmega*cosOmega)

	conv := math.Atan(math.Abs(q/pp)) +
		math.Atan(math.Abs(t1*math.Tan(omega))/math.Sqrt(1+t1*t1))
	if phi < 0 {
		if omega < 0 {
			conv = -conv
		}
	} else if omega > 0 {
		conv = -conv
	}
	return scale, s1.Angle(conv)
}
