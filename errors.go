package geodesy

import "fmt"

// ErrInputRange indicates an input coordinate, zone or parameter outside
// its documented bounds. Inputs are rejected before any computation
// begins; out-of-range values are never clamped.
type ErrInputRange struct {
	Field    string
	Value    float64
	Min, Max float64
}

func (e *ErrInputRange) Error() string {
	return fmt.Sprintf("%s %v out of range [%v, %v]", e.Field, e.Value, e.Min, e.Max)
}

// ErrNoConvergence indicates an iterative solver reached its iteration
// cap before meeting its tolerance. The partial estimate is discarded.
type ErrNoConvergence struct {
	Op         string
	Iterations int
}

func (e *ErrNoConvergence) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations", e.Op, e.Iterations)
}

// ErrGridCoverage indicates a query point outside every sub-grid of a
// correction grid file.
type ErrGridCoverage struct {
	Lat, Lon float64 // decimal degrees
}

func (e *ErrGridCoverage) Error() string {
	return fmt.Sprintf("point lat=%.6f lon=%.6f is outside all sub-grids", e.Lat, e.Lon)
}

// ErrFormat indicates a correction grid file that fails to parse.
type ErrFormat struct {
	Field  string
	Reason string
}

func (e *ErrFormat) Error() string {
	return fmt.Sprintf("ntv2: bad %s: %s", e.Field, e.Reason)
}
