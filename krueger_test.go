package geodesy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Reference coefficient values computed by exact numerical integration
// (C. Rollins, 2006) for WGS84 and GRS80. The series here truncates at
// n^8, so the high-order coefficients carry relative truncation error
// that grows with the index: each coefficient k starts at n^k, leaving
// fewer series terms before the cutoff.
var coefficientTolerance = []float64{1e-12, 1e-12, 1e-12, 1e-11, 2e-9, 5e-7}

func TestSeriesCoefficientsWGS84(t *testing.T) {
	sc := newSeriesCoefficients(WGS84)

	wantAlpha := []float64{
		8.3773182062446983032e-04,
		7.608527773572489156e-07,
		1.19764550324249210e-09,
		2.4291706803973131e-12,
		5.711818369154105e-15,
		1.47999802705262e-17,
	}
	wantBeta := []float64{
		8.3773216405794867707e-04,
		5.905870152220365181e-08,
		1.67348266534382493e-10,
		2.1647981104903862e-13,
		3.787930968839601e-16,
		7.23676928796690e-19,
	}
	for i := range wantAlpha {
		assert.InEpsilon(t, wantAlpha[i], sc.alpha[i], coefficientTolerance[i], "alpha[%d]", i)
		assert.InEpsilon(t, wantBeta[i], sc.beta[i], coefficientTolerance[i], "beta[%d]", i)
	}
}

func TestSeriesCoefficientsGRS80(t *testing.T) {
	sc := newSeriesCoefficients(GRS80)

	wantAlpha := []float64{
		8.3773182472855134012e-04,
		7.608527848149655006e-07,
		1.19764552085530681e-09,
		2.4291707280369697e-12,
		5.711818509192422e-15,
		1.47999807059922e-17,
	}
	wantBeta := []float64{
		8.3773216816203523672e-04,
		5.905870210369121594e-08,
		1.67348268997717031e-10,
		2.1647981529928124e-13,
		3.787931061803592e-16,
		7.23676950110361e-19,
	}
	for i := range wantAlpha {
		assert.InEpsilon(t, wantAlpha[i], sc.alpha[i], coefficientTolerance[i], "alpha[%d]", i)
		assert.InEpsilon(t, wantBeta[i], sc.beta[i], coefficientTolerance[i], "beta[%d]", i)
	}
}

func TestRectifyingRadius(t *testing.T) {
	sc := newSeriesCoefficients(GRS80)
	assert.InDelta(t, 6367449.145771, sc.rectifyingRadius, 1e-5)
}

func TestConvergenceCap(t *testing.T) {
	c := convergence{Tolerance: 1e-15, MaxIterations: 10}
	_, err := c.run("oscillator", 0, func(x float64) float64 { return 1 - x })
	var noConv *ErrNoConvergence
	assert.ErrorAs(t, err, &noConv)
	assert.Equal(t, 10, noConv.Iterations)
}
