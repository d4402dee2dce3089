package geodesy_test

import (
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/GeoscienceAustralia/geodesy"
)

func ExampleProjection_ConvertFromGeodetic() {
	proj := geodesy.NewProjection(geodesy.GRS80, geodesy.UTMParams)
	grid, _ := proj.ConvertFromGeodetic(s2.LatLngFromDegrees(-23.670127, 133.885123), 0)
	fmt.Printf("zone %d %s E %.3f N %.3f\n", grid.Zone, grid.Hemisphere, grid.Easting, grid.Northing)
}

func ExampleEllipsoid_Inverse() {
	result, _ := geodesy.GRS80.Inverse(
		s2.LatLngFromDegrees(-37.950994, 144.424868),
		s2.LatLngFromDegrees(-37.652821, 143.926496),
	)
	fmt.Printf("%.3f m at %.4f\n", result.Distance, result.Azimuth.Degrees())
}
