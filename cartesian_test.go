package geodesy_test

import (
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/GeoscienceAustralia/geodesy"
)

func TestGeographicToCartesian(t *testing.T) {
	// the origin of the graticule lies on the semi-major axis
	c, err := geodesy.GRS80.GeographicToCartesian(s2.LatLngFromDegrees(0, 0), 0)
	require.NoError(t, err)
	assert.InDelta(t, geodesy.GRS80.SemiMajorAxis, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)
	assert.InDelta(t, 0, c.Z, 1e-9)

	// the poles lie on the semi-minor axis
	c, err = geodesy.GRS80.GeographicToCartesian(s2.LatLngFromDegrees(90, 0), 0)
	require.NoError(t, err)
	assert.InDelta(t, 0, c.X, 1e-8)
	assert.InDelta(t, geodesy.GRS80.SemiMinorAxis, c.Z, 1e-8)

	c, err = geodesy.GRS80.GeographicToCartesian(s2.LatLngFromDegrees(-90, 0), 100)
	require.NoError(t, err)
	assert.InDelta(t, -(geodesy.GRS80.SemiMinorAxis + 100), c.Z, 1e-8)
}

func TestCartesianToGeographicPolarAxis(t *testing.T) {
	geo, height, err := geodesy.GRS80.CartesianToGeographic(geodesy.CartesianCoord{
		Z: geodesy.GRS80.SemiMinorAxis + 250,
	})
	require.NoError(t, err)
	assert.InDelta(t, 90, geo.Lat.Degrees(), 1e-12)
	assert.InDelta(t, 250, height, 1e-6)
}

func TestCartesianRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lat := rapid.Float64Range(-89.9, 89.9).Draw(t, "lat")
		lng := rapid.Float64Range(-180, 180).Draw(t, "lng")
		height := rapid.Float64Range(-1000, 10000).Draw(t, "height")

		geo := s2.LatLngFromDegrees(lat, lng)
		c, err := geodesy.GRS80.GeographicToCartesian(geo, height)
		if err != nil {
			t.Fatalf("forward conversion failed: %s", err)
		}
		geo2, height2, err := geodesy.GRS80.CartesianToGeographic(c)
		if err != nil {
			t.Fatalf("inverse conversion failed: %s", err)
		}

		assert.InDelta(t, lat, geo2.Lat.Degrees(), 1e-9)
		assert.InDelta(t, lng, geo2.Lng.Degrees(), 1e-9)
		assert.InDelta(t, height, height2, 1e-4)
	})
}
