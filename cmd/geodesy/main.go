// Command geodesy converts coordinates between geographic and UTM grid
// form, solves geodesics on the ellipsoid, and queries NTv2 correction
// grids.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/golang/geo/s2"
	"github.com/spf13/pflag"

	"github.com/GeoscienceAustralia/geodesy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "utm":
		err = runUTM(os.Args[2:])
	case "geodesic":
		err = runGeodesic(os.Args[2:])
	case "geoid":
		err = runGeoid(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		log.Error("unknown command", "command", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  geodesy utm <latitude> <longitude>     convert geographic to UTM grid
  geodesy utm -i <zone> <hemisphere> <easting> <northing>
                                         convert UTM grid to geographic
  geodesy geodesic <lat1> <lon1> <lat2> <lon2>
                                         inverse geodesic between two points
  geodesy geoid -g <file.gsb> <latitude> <longitude>
                                         interpolate NTv2 grid corrections

Latitudes and longitudes are decimal degrees, negative south and west.
`)
}

// selectEllipsoid resolves the --ellipsoid / --ellipsoids flags shared
// by the utm and geodesic commands.
func selectEllipsoid(name, catalogPath string) (geodesy.Ellipsoid, error) {
	ellipsoids := geodesy.BuiltinEllipsoids()
	if catalogPath != "" {
		var err error
		ellipsoids, err = geodesy.LoadEllipsoidCatalog(catalogPath)
		if err != nil {
			return geodesy.Ellipsoid{}, err
		}
	}
	e, ok := ellipsoids[name]
	if !ok {
		return geodesy.Ellipsoid{}, fmt.Errorf("unknown ellipsoid %q", name)
	}
	return e, nil
}

func parseFloats(args []string, names ...string) ([]float64, error) {
	if len(args) != len(names) {
		return nil, fmt.Errorf("expected %d arguments: %v", len(names), names)
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", names[i], err)
		}
		out[i] = v
	}
	return out, nil
}

func runUTM(args []string) error {
	flags := pflag.NewFlagSet("utm", pflag.ExitOnError)
	inverse := flags.BoolP("inverse", "i", false, "Convert grid to geographic instead.")
	ellipsoidName := flags.StringP("ellipsoid", "e", "GRS80", "Reference ellipsoid name.")
	catalogPath := flags.String("ellipsoids", "", "YAML file of additional ellipsoid definitions.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, err := selectEllipsoid(*ellipsoidName, *catalogPath)
	if err != nil {
		return err
	}
	proj := geodesy.NewProjection(e, geodesy.UTMParams)

	if *inverse {
		rest := flags.Args()
		if len(rest) != 4 {
			return fmt.Errorf("expected 4 arguments: zone hemisphere easting northing")
		}
		zone, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("parsing zone: %w", err)
		}
		var hemi geodesy.Hemisphere
		switch rest[1] {
		case "N", "n", "north":
			hemi = geodesy.HemisphereNorth
		case "S", "s", "south":
			hemi = geodesy.HemisphereSouth
		default:
			return fmt.Errorf("hemisphere must be N or S, got %q", rest[1])
		}
		vals, err := parseFloats(rest[2:], "easting", "northing")
		if err != nil {
			return err
		}

		geo, err := proj.ConvertToGeodetic(geodesy.GridCoord{
			Zone:       zone,
			Hemisphere: hemi,
			Easting:    vals[0],
			Northing:   vals[1],
		})
		if err != nil {
			return err
		}
		fmt.Printf("Latitude:         %.9f\n", geo.LatLng.Lat.Degrees())
		fmt.Printf("Longitude:        %.9f\n", geo.LatLng.Lng.Degrees())
		fmt.Printf("Point scale:      %.9f\n", float64(geo.PointScale))
		fmt.Printf("Grid convergence: %.9f\n", geo.Convergence.Degrees())
		return nil
	}

	vals, err := parseFloats(flags.Args(), "latitude", "longitude")
	if err != nil {
		return err
	}
	grid, err := proj.ConvertFromGeodetic(s2.LatLngFromDegrees(vals[0], vals[1]), 0)
	if err != nil {
		return err
	}
	fmt.Printf("Zone:             %d %s\n", grid.Zone, grid.Hemisphere)
	fmt.Printf("Easting:          %.3f\n", grid.Easting)
	fmt.Printf("Northing:         %.3f\n", grid.Northing)
	fmt.Printf("Point scale:      %.9f\n", float64(grid.PointScale))
	fmt.Printf("Grid convergence: %.9f\n", grid.Convergence.Degrees())
	return nil
}

func runGeodesic(args []string) error {
	flags := pflag.NewFlagSet("geodesic", pflag.ExitOnError)
	ellipsoidName := flags.StringP("ellipsoid", "e", "GRS80", "Reference ellipsoid name.")
	catalogPath := flags.String("ellipsoids", "", "YAML file of additional ellipsoid definitions.")
	if err := flags.Parse(args); err != nil {
		return err
	}

	e, err := selectEllipsoid(*ellipsoidName, *catalogPath)
	if err != nil {
		return err
	}

	vals, err := parseFloats(flags.Args(), "lat1", "lon1", "lat2", "lon2")
	if err != nil {
		return err
	}
	result, err := e.Inverse(
		s2.LatLngFromDegrees(vals[0], vals[1]),
		s2.LatLngFromDegrees(vals[2], vals[3]),
	)
	if err != nil {
		return err
	}
	fmt.Printf("Distance:        %.4f m\n", result.Distance)
	fmt.Printf("Azimuth:         %.7f\n", result.Azimuth.Degrees())
	fmt.Printf("Reverse azimuth: %.7f\n", result.ReverseAzimuth.Degrees())
	return nil
}

func runGeoid(args []string) error {
	flags := pflag.NewFlagSet("geoid", pflag.ExitOnError)
	gridPath := flags.StringP("grid", "g", "", "NTv2 grid file.")
	bicubic := flags.Bool("bicubic", false, "Use bicubic rather than bilinear interpolation.")
	showInfo := flags.Bool("info", false, "Print grid file structure and exit.")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *gridPath == "" {
		return fmt.Errorf("a grid file is required (-g)")
	}

	grid, err := geodesy.OpenGrid(*gridPath)
	if err != nil {
		return err
	}
	defer grid.Close()

	if *showInfo {
		h := grid.Header
		fmt.Printf("File:       %s\n", grid.Path())
		fmt.Printf("Version:    %s (%s)\n", h.Version, h.GSType)
		fmt.Printf("Systems:    %s -> %s\n", h.SystemFrom, h.SystemTo)
		fmt.Printf("Sub-grids:  %d\n", len(grid.SubGrids))
		for _, g := range grid.SubGrids {
			fmt.Printf("  %-8s parent=%-8s lat=[%.0f\" .. %.0f\"] lon=[%.0f\" .. %.0f\"] inc=%.0f\"\n",
				g.Name, g.Parent, g.SLat, g.NLat, g.ELong, g.WLong, g.LatInc)
		}
		return nil
	}

	vals, err := parseFloats(flags.Args(), "latitude", "longitude")
	if err != nil {
		return err
	}
	method := geodesy.Bilinear
	if *bicubic {
		method = geodesy.Bicubic
	}
	value, err := grid.Interpolate(s2.LatLngFromDegrees(vals[0], vals[1]), method)
	if err != nil {
		return err
	}
	fmt.Printf("Separation:     %.4f m\n", value.Separation)
	fmt.Printf("Deflection xi:  %.4f\"\n", value.DeflectionXi)
	fmt.Printf("Deflection eta: %.4f\"\n", value.DeflectionEta)
	return nil
}
