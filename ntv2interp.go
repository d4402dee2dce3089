package geodesy

// Interpolation kernels over sub-grid cells. Both take the cell's
// south-east corner node (row, col) and the fractional position inside
// the cell: u along rows (latitude), v along columns (longitude).

func (gf *GridFile) bilinear(g *SubGrid, row, col int, u, v float64) GridValue {
	n00 := gf.nodeVec(g, row, col)
	n01 := gf.nodeVec(g, row, col+1)
	n10 := gf.nodeVec(g, row+1, col)
	n11 := gf.nodeVec(g, row+1, col+1)

	var out [3]float64
	for i := range out {
		out[i] = (1-u)*(1-v)*n00[i] + (1-u)*v*n01[i] +
			u*(1-v)*n10[i] + u*v*n11[i]
	}
	return GridValue{Separation: out[0], DeflectionXi: out[1], DeflectionEta: out[2]}
}

// bicubicWeights converts cell corner values, first derivatives and
// cross derivatives into the 16 coefficients of a bicubic surface
// (Numerical Recipes §3.6).
var bicubicWeights = [16][16]float64{
	{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0},
	{-3, 0, 0, 3, 0, 0, 0, 0, -2, 0, 0, -1, 0, 0, 0, 0},
	{2, 0, 0, -2, 0, 0, 0, 0, 1, 0, 0, 1, 0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0},
	{0, 0, 0, 0, -3, 0, 0, 3, 0, 0, 0, 0, -2, 0, 0, -1},
	{0, 0, 0, 0, 2, 0, 0, -2, 0, 0, 0, 0, 1, 0, 0, 1},
	{-3, 3, 0, 0, -2, -1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, -3, 3, 0, 0, -2, -1, 0, 0},
	{9, -9, 9, -9, 6, 3, -3, -6, 6, -6, -3, 3, 4, 2, 1, 2},
	{-6, 6, -6, 6, -4, -2, 2, 4, -3, 3, 3, -3, -2, -1, -1, -2},
	{2, -2, 0, 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0, 2, -2, 0, 0, 1, 1, 0, 0},
	{-6, 6, -6, 6, -3, -3, 3, 3, -4, 4, 2, -2, -2, -2, -1, -1},
	{4, -4, 4, -4, 2, 2, -2, -2, 2, -2, -2, 2, 1, 1, 1, 1},
}

func (gf *GridFile) bicubic(g *SubGrid, row, col int, u, v float64) GridValue {
	// corners in the conventional counter-clockwise order: (col,row),
	// (col+1,row), (col+1,row+1), (col,row+1)
	corners := [4][2]int{
		{row, col},
		{row, col + 1},
		{row + 1, col + 1},
		{row + 1, col},
	}

	var f, fCol, fRow, fCross [4][3]float64
	for i, c := range corners {
		f[i] = gf.nodeVec(g, c[0], c[1])
		fCol[i] = gf.dCol(g, c[0], c[1])
		fRow[i] = gf.dRow(g, c[0], c[1])
		fCross[i] = gf.dCross(g, c[0], c[1])
	}

	var out [3]float64
	for comp := 0; comp < 3; comp++ {
		var x [16]float64
		for i := 0; i < 4; i++ {
			x[i] = f[i][comp]
			x[i+4] = fCol[i][comp]
			x[i+8] = fRow[i][comp]
			x[i+12] = fCross[i][comp]
		}

		var coef [16]float64
		for i := 0; i < 16; i++ {
			var sum float64
			for k := 0; k < 16; k++ {
				sum += bicubicWeights[i][k] * x[k]
			}
			coef[i] = sum
		}

		var ans float64
		for i := 3; i >= 0; i-- {
			ans = v*ans + ((coef[i*4+3]*u+coef[i*4+2])*u+coef[i*4+1])*u + coef[i*4]
		}
		out[comp] = ans
	}
	return GridValue{Separation: out[0], DeflectionXi: out[1], DeflectionEta: out[2]}
}

// dCol estimates the per-cell derivative along columns by central
// difference, falling back to a one-sided difference at grid edges.
func (gf *GridFile) dCol(g *SubGrid, row, col int) [3]float64 {
	lo, hi := col-1, col+1
	if lo < 0 {
		lo = 0
	}
	if hi > g.cols-1 {
		hi = g.cols - 1
	}
	a := gf.nodeVec(g, row, lo)
	b := gf.nodeVec(g, row, hi)
	scale := 1 / float64(hi-lo)
	return [3]float64{(b[0] - a[0]) * scale, (b[1] - a[1]) * scale, (b[2] - a[2]) * scale}
}

func (gf *GridFile) dRow(g *SubGrid, row, col int) [3]float64 {
	lo, hi := row-1, row+1
	if lo < 0 {
		lo = 0
	}
	if hi > g.rows-1 {
		hi = g.rows - 1
	}
	a := gf.nodeVec(g, lo, col)
	b := gf.nodeVec(g, hi, col)
	scale := 1 / float64(hi-lo)
	return [3]float64{(b[0] - a[0]) * scale, (b[1] - a[1]) * scale, (b[2] - a[2]) * scale}
}

func (gf *GridFile) dCross(g *SubGrid, row, col int) [3]float64 {
	rLo, rHi := row-1, row+1
	if rLo < 0 {
		rLo = 0
	}
	if rHi > g.rows-1 {
		rHi = g.rows - 1
	}
	cLo, cHi := col-1, col+1
	if cLo < 0 {
		cLo = 0
	}
	if cHi > g.cols-1 {
		cHi = g.cols - 1
	}
	a := gf.nodeVec(g, rHi, cHi)
	b := gf.nodeVec(g, rHi, cLo)
	c := gf.nodeVec(g, rLo, cHi)
	d := gf.nodeVec(g, rLo, cLo)
	scale := 1 / float64((rHi-rLo)*(cHi-cLo))
	return [3]float64{
		(a[0] - b[0] - c[0] + d[0]) * scale,
		(a[1] - b[1] - c[1] + d[1]) * scale,
		(a[2] - b[2] - c[2] + d[2]) * scale,
	}
}
