package geodesy

import "math"

// convergence bounds an iterative refinement: successive estimates must
// move by less than Tolerance within at most MaxIterations steps.
type convergence struct {
	Tolerance     float64
	MaxIterations int
}

// run applies step repeatedly starting from initial until two
// successive estimates agree to within the tolerance. The iteration cap
// is a hard stop: hitting it surfaces ErrNoConvergence instead of the
// last estimate.
func (c convergence) run(op string, initial float64, step func(float64) float64) (float64, error) {
	x := initial
	for i := 0; i < c.MaxIterations; i++ {
		next := step(x)
		if math.Abs(next-x) < c.Tolerance {
			return next, nil
		}
		x = next
	}
	return 0, &ErrNoConvergence{Op: op, Iterations: c.MaxIterations}
}
