package geodesy

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// GeodesicResult is the solution of the inverse geodesic problem: the
// ellipsoidal distance between two points and the forward azimuths at
// each end, normalised to [0, 360) degrees.
type GeodesicResult struct {
	Distance       float64 // metres
	Azimuth        s1.Angle // at point 1, towards point 2
	ReverseAzimuth s1.Angle // at point 2, towards point 1
}

var geodesicIteration = convergence{Tolerance: 1e-12, MaxIterations: 100}

// Inverse solves the inverse geodesic problem between two points using
// Vincenty's formulae. Coincident points return a zero result by
// convention. Nearly antipodal pairs for which the lambda iteration
// does not settle within the iteration cap surface ErrNoConvergence.
func (e Ellipsoid) Inverse(p1, p2 s2.LatLng) (GeodesicResult, error) {
	if err := validateLatLng(p1); err != nil {
		return GeodesicResult{}, err
	}
	if err := validateLatLng(p2); err != nil {
		return GeodesicResult{}, err
	}
	if p1.Lat == p2.Lat && p1.Lng == p2.Lng {
		return GeodesicResult{}, nil
	}
	if p1.Lng == p2.Lng {
		return e.meridianGeodesic(p1, p2), nil
	}

	f := e.Flattening
	sinU1, cosU1 := reducedLatitude(f, p1.Lat.Radians())
	sinU2, cosU2 := reducedLatitude(f, p2.Lat.Radians())

	l := p2.Lng.Radians() - p1.Lng.Radians()
	if l > math.Pi {
		l -= 2 * math.Pi
	} else if l < -math.Pi {
		l += 2 * math.Pi
	}

	var sinSigma, cosSigma, sigma, cos2Alpha, cos2SigmaM float64
	step := func(lambda float64) float64 {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma = math.Hypot(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha
		if cos2Alpha == 0 {
			// equatorial line
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		}
		c := f / 16 * cos2Alpha * (4 + f*(4-3*cos2Alpha))
		return l + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
	}
	lambda, err := geodesicIteration.run("vincenty inverse", l, step)
	if err != nil {
		return GeodesicResult{}, err
	}
	step(lambda) // refresh the shared terms at the converged lambda

	dist := e.geodesicLength(cos2Alpha, sigma, sinSigma, cosSigma, cos2SigmaM)

	sinLambda, cosLambda := math.Sincos(lambda)
	az1 := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
	az2 := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda) + math.Pi
	return GeodesicResult{
		Distance:       dist,
		Azimuth:        normalizeAzimuth(az1),
		ReverseAzimuth: normalizeAzimuth(az2),
	}, nil
}

// Direct solves the direct geodesic problem: from a starting point, an
// azimuth and an ellipsoidal distance in metres, find the destination
// and the azimuth back from it.
func (e Ellipsoid) Direct(p1 s2.LatLng, azimuth s1.Angle, distance float64) (s2.LatLng, s1.Angle, error) {
	if err := validateLatLng(p1); err != nil {
		return s2.LatLng{}, 0, err
	}
	if distance < 0 {
		return s2.LatLng{}, 0, &ErrInputRange{Field: "distance", Value: distance, Min: 0, Max: math.Inf(1)}
	}
	if distance == 0 {
		return p1, normalizeAzimuth(azimuth.Radians() + math.Pi), nil
	}

	f := e.Flattening
	b := e.SemiMinorAxis
	sinU1, cosU1 := reducedLatitude(f, p1.Lat.Radians())
	sinAlpha1, cosAlpha1 := math.Sincos(azimuth.Radians())

	sigma1 := math.Atan2(sinU1, cosU1*cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cos2Alpha := 1 - sinAlpha*sinAlpha
	uSq := cos2Alpha * e.Ecc2Sq
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	base := distance / (b * bigA)
	var sinSigma, cosSigma, cos2SigmaM float64
	step := func(sigma float64) float64 {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)
		deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
			(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		return base + deltaSigma
	}
	sigma, err := geodesicIteration.run("vincenty direct", base, step)
	if err != nil {
		return s2.LatLng{}, 0, err
	}
	step(sigma)

	x := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	phi2 := math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Hypot(sinAlpha, x))
	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	c := f / 16 * cos2Alpha * (4 + f*(4-3*cos2Alpha))
	l := lambda - (1-c)*f*sinAlpha*
		(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	lng2 := p1.Lng.Radians() + l
	if lng2 > math.Pi {
		lng2 -= 2 * math.Pi
	} else if lng2 < -math.Pi {
		lng2 += 2 * math.Pi
	}

	reverse := normalizeAzimuth(math.Atan2(sinAlpha, -x) + math.Pi)
	return s2.LatLng{Lat: s1.Angle(phi2), Lng: s1.Angle(lng2)}, reverse, nil
}

// meridianGeodesic handles two distinct points on the same meridian.
// The geodesic runs along the meridian, so sigma is evaluated directly
// with a zero longitude difference and the azimuths are exact north or
// south; the general iteration is singular when sin(sigma) vanishes
// and is never entered.
func (e Ellipsoid) meridianGeodesic(p1, p2 s2.LatLng) GeodesicResult {
	f := e.Flattening
	sinU1, cosU1 := reducedLatitude(f, p1.Lat.Radians())
	sinU2, cosU2 := reducedLatitude(f, p2.Lat.Radians())

	sinSigma := math.Abs(cosU1*sinU2 - sinU1*cosU2)
	cosSigma := sinU1*sinU2 + cosU1*cosU2
	sigma := math.Atan2(sinSigma, cosSigma)
	cos2SigmaM := cosSigma - 2*sinU1*sinU2 // cos^2(alpha) = 1 on a meridian

	dist := e.geodesicLength(1, sigma, sinSigma, cosSigma, cos2SigmaM)

	if p1.Lat > p2.Lat {
		return GeodesicResult{Distance: dist, Azimuth: s1.Angle(math.Pi), ReverseAzimuth: 0}
	}
	return GeodesicResult{Distance: dist, Azimuth: 0, ReverseAzimuth: s1.Angle(math.Pi)}
}

// geodesicLength evaluates Vincenty's distance series for a solved
// angular distance.
func (e Ellipsoid) geodesicLength(cos2Alpha, sigma, sinSigma, cosSigma, cos2SigmaM float64) float64 {
	uSq := cos2Alpha * e.Ecc2Sq
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
		(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
			bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
	return e.SemiMinorAxis * bigA * (sigma - deltaSigma)
}

// reducedLatitude returns the sine and cosine of the reduced latitude
// atan((1-f)*tan(phi)).
func reducedLatitude(f, phi float64) (sinU, cosU float64) {
	u := math.Atan((1 - f) * math.Tan(phi))
	return math.Sincos(u)
}

// normalizeAzimuth wraps an azimuth in radians to [0, 2*pi).
func normalizeAzimuth(rad float64) s1.Angle {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	return s1.Angle(rad)
}

func validateLatLng(ll s2.LatLng) error {
	lat := ll.Lat.Degrees()
	lng := ll.Lng.Degrees()
	if lat < -90 || lat > 90 {
		return &ErrInputRange{Field: "latitude", Value: lat, Min: -90, Max: 90}
	}
	if lng < -180 || lng > 180 {
		return &ErrInputRange{Field: "longitude", Value: lng, Min: -180, Max: 180}
	}
	return nil
}
