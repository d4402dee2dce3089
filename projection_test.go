package geodesy_test

import (
	"math"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/GeoscienceAustralia/geodesy"
)

// Flinders Peak, a GDA94/MGA94 zone 55 control point with published
// grid coordinates, point scale factor and grid convergence.
var flindersPeak = s2.LatLngFromDegrees(
	-(37 + 57.0/60 + 3.7203/3600),
	144+25.0/60+29.5244/3600,
)

func TestConvertFromGeodetic(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)

	grid, err := proj.ConvertFromGeodetic(flindersPeak, 0)
	require.NoError(t, err)

	assert.Equal(t, 55, grid.Zone)
	assert.Equal(t, geodesy.HemisphereSouth, grid.Hemisphere)
	assert.InDelta(t, 273741.297, grid.Easting, 0.001)
	assert.InDelta(t, 5796489.777, grid.Northing, 0.001)
	assert.InDelta(t, 1.00023056, grid.PointScale, 1e-7)
	assert.InDelta(t, -(1 + 35.0/60 + 3.6474/3600), grid.Convergence.Degrees(), 1e-5)
}

func TestConvertToGeodetic(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)

	geo, err := proj.ConvertToGeodetic(geodesy.GridCoord{
		Zone:       55,
		Hemisphere: geodesy.HemisphereSouth,
		Easting:    273741.297,
		Northing:   5796489.777,
	})
	require.NoError(t, err)

	assert.InDelta(t, flindersPeak.Lat.Degrees(), geo.LatLng.Lat.Degrees(), 1e-7)
	assert.InDelta(t, flindersPeak.Lng.Degrees(), geo.LatLng.Lng.Degrees(), 1e-7)
	assert.InDelta(t, 1.00023056, geo.PointScale, 1e-7)
	assert.InDelta(t, -(1 + 35.0/60 + 3.6474/3600), geo.Convergence.Degrees(), 1e-5)
}

func TestCentralMeridianPoint(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)

	// a point on the equator and a central meridian maps to the false
	// easting, zero northing, the central meridian scale and zero
	// convergence
	grid, err := proj.ConvertFromGeodetic(s2.LatLngFromDegrees(0, 147), 0)
	require.NoError(t, err)
	assert.Equal(t, 55, grid.Zone)
	assert.Equal(t, geodesy.HemisphereNorth, grid.Hemisphere)
	assert.InDelta(t, 500000, grid.Easting, 1e-6)
	assert.InDelta(t, 0, grid.Northing, 1e-6)
	assert.InDelta(t, 0.9996, grid.PointScale, 1e-12)
	assert.InDelta(t, 0, grid.Convergence.Degrees(), 1e-9)
}

func TestGridConvergenceQuadrants(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)

	// convergence is close to -(lon - cm)*sin(lat) and signed per the
	// GDA convention: negative west of the central meridian in the
	// south, mirrored in the north
	for _, tc := range []struct {
		lat, lng float64
		positive bool
	}{
		{-37, 148, true},
		{-37, 146, false},
		{37, 148, false},
		{37, 146, true},
	} {
		grid, err := proj.ConvertFromGeodetic(s2.LatLngFromDegrees(tc.lat, tc.lng), 0)
		require.NoError(t, err)
		conv := grid.Convergence.Degrees()
		if tc.positive {
			assert.Positive(t, conv, "at (%v, %v)", tc.lat, tc.lng)
		} else {
			assert.Negative(t, conv, "at (%v, %v)", tc.lat, tc.lng)
		}
		assert.InDelta(t, 0.6018, math.Abs(conv), 0.01, "at (%v, %v)", tc.lat, tc.lng)
	}
}

func TestZoneSelection(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)

	for _, tc := range []struct {
		lng  float64
		zone int
	}{
		{-177, 1},
		{133.8855, 53},
		{144.424855, 55},
		{179.999, 60},
		{180, 1},
		{-180, 1},
	} {
		grid, err := proj.ConvertFromGeodetic(s2.LatLngFromDegrees(-20, tc.lng), 0)
		require.NoError(t, err, "longitude %v", tc.lng)
		assert.Equal(t, tc.zone, grid.Zone, "longitude %v", tc.lng)
	}
}

func TestForcedZone(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)

	// projecting a zone 55 point onto zone 54's central meridian gives
	// a large but consistent easting
	grid, err := proj.ConvertFromGeodetic(flindersPeak, 54)
	require.NoError(t, err)
	assert.Equal(t, 54, grid.Zone)
	assert.Greater(t, grid.Easting, 500000.0)

	geo, err := proj.ConvertToGeodetic(grid)
	require.NoError(t, err)
	assert.InDelta(t, flindersPeak.Lat.Degrees(), geo.LatLng.Lat.Degrees(), 1e-8)
	assert.InDelta(t, flindersPeak.Lng.Degrees(), geo.LatLng.Lng.Degrees(), 1e-8)
}

func TestProjectionInputValidation(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)
	var rangeErr *geodesy.ErrInputRange

	_, err := proj.ConvertFromGeodetic(s2.LatLngFromDegrees(85, 147), 0)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "latitude", rangeErr.Field)

	_, err = proj.ConvertFromGeodetic(s2.LatLngFromDegrees(-81, 147), 0)
	require.ErrorAs(t, err, &rangeErr)

	_, err = proj.ConvertFromGeodetic(s2.LatLngFromDegrees(0, 181), 0)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "longitude", rangeErr.Field)

	_, err = proj.ConvertFromGeodetic(flindersPeak, 61)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "zone", rangeErr.Field)

	_, err = proj.ConvertToGeodetic(geodesy.GridCoord{Zone: 0, Hemisphere: geodesy.HemisphereSouth, Easting: 500000, Northing: 500000})
	require.ErrorAs(t, err, &rangeErr)

	_, err = proj.ConvertToGeodetic(geodesy.GridCoord{Zone: 55, Hemisphere: geodesy.HemisphereInvalid, Easting: 500000, Northing: 500000})
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "hemisphere", rangeErr.Field)

	_, err = proj.ConvertToGeodetic(geodesy.GridCoord{Zone: 55, Hemisphere: geodesy.HemisphereSouth, Easting: 50000, Northing: 500000})
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "easting", rangeErr.Field)

	_, err = proj.ConvertToGeodetic(geodesy.GridCoord{Zone: 55, Hemisphere: geodesy.HemisphereSouth, Easting: 500000, Northing: 10000001})
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "northing", rangeErr.Field)
}

func TestProjectionRoundTrip(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)
	const latInc = 2.5
	const lngInc = 2.5
	for lng := -180.0; lng <= 180; lng += lngInc {
		for lat := -79.5; lat <= 83.5; lat += latInc {
			geo := s2.LatLngFromDegrees(lat, lng)
			grid, err := proj.ConvertFromGeodetic(geo, 0)
			require.NoError(t, err, "at %s", geo)
			geo2, err := proj.ConvertToGeodetic(grid)
			require.NoError(t, err, "at %s", geo)
			assert.InDelta(t, lat, geo2.LatLng.Lat.Degrees(), 1e-8, "at %s", geo)
		}
	}
}

func TestProjectionRoundTripProperty(t *testing.T) {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)
	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(-79.9, 83.9).Draw(t, "lat")
		lng := rapid.Float64Range(-179.9, 179.9).Draw(t, "lng")

		geo := s2.LatLngFromDegrees(lat, lng)
		grid, err := proj.ConvertFromGeodetic(geo, 0)
		if err != nil {
			t.Fatalf("forward conversion failed at %s: %s", geo, err)
		}
		geo2, err := proj.ConvertToGeodetic(grid)
		if err != nil {
			t.Fatalf("inverse conversion failed at %s: %s", geo, err)
		}

		assert.InDelta(t, lat, geo2.LatLng.Lat.Degrees(), 1e-8)
		assert.InDelta(t, lng, geo2.LatLng.Lng.Degrees(), 1e-8)
		assert.InDelta(t, float64(grid.Convergence), float64(geo2.Convergence), 1e-9)
		assert.InDelta(t, grid.PointScale, geo2.PointScale, 1e-9)
	})
}
