package director

import "github.com/zmmyslony/vectorslicer/geom"

// SplayField is a W×H vector field of splay vectors, one per cell.
type SplayField struct {
	Vx, Vy [][]float64
	W, H   int
}

// At returns the splay vector at cell c.
func (s *SplayField) At(c geom.Coord) geom.FCoord {
	return geom.F(s.Vx[c.Y][c.X], s.Vy[c.Y][c.X])
}

func newSplayField(w, h int) *SplayField {
	vx := make([][]float64, h)
	vy := make([][]float64, h)
	for y := 0; y < h; y++ {
		vx[y] = make([]float64, w)
		vy[y] = make([]float64, w)
	}
	return &SplayField{Vx: vx, Vy: vy, W: w, H: h}
}

// ComputeSplay derives the vector splay field S = Q·div(Q) from the
// director field, where Q = D⊗D, per spec.md §4.B.
//
// The divergence of Q at each interior cell is taken with a 9-point
// finite-difference (Sobel-style) stencil: the four axis-aligned
// neighbours contribute with weight 1, the four diagonal neighbours with
// weight 0.5 along the axis they're offset from — this smooths the
// derivative across the diagonal pixel pairs that a plain central
// difference would miss. Boundary rows/columns inherit the value of their
// nearest interior neighbour (there is no interior neighbour to
// differentiate against at the edge).
func ComputeSplay(f *Field) *SplayField {
	out := newSplayField(f.W, f.H)
	if f.W < 3 || f.H < 3 {
		return out
	}

	qxx := func(x, y int) float64 { d := f.Dx[y][x]; return d * d }
	qxy := func(x, y int) float64 { return f.Dx[y][x] * f.Dy[y][x] }
	qyy := func(x, y int) float64 { d := f.Dy[y][x]; return d * d }

	for y := 1; y < f.H-1; y++ {
		for x := 1; x < f.W-1; x++ {
			dQxxDx := sobelX(qxx, x, y)
			dQxxDy := sobelY(qxx, x, y)
			dQxyDx := sobelX(qxy, x, y)
			dQxyDy := sobelY(qxy, x, y)
			dQyyDx := sobelX(qyy, x, y)
			dQyyDy := sobelY(qyy, x, y)

			divQx := dQxxDx + dQxyDy
			divQy := dQxyDx + dQyyDy

			Qxx, Qxy, Qyy := qxx(x, y), qxy(x, y), qyy(x, y)
			out.Vx[y][x] = Qxx*divQx + Qxy*divQy
			out.Vy[y][x] = Qxy*divQx + Qyy*divQy
		}
	}

	fillBoundary(out)
	return out
}

// sobelX estimates d(scalar)/dx at (x, y) using the 1/0.5 axis/diagonal
// weighting described above. The zero-splay threshold downstream (ε=10⁻⁶
// in seedline.ExtractSplayLines) is calibrated against this exact stencil,
// not a plain central difference — changing the weights changes what
// counts as "zero splay".
func sobelX(q func(x, y int) float64, x, y int) float64 {
	return (q(x+1, y-1) - q(x-1, y-1)) * 0.5 /*diag*/ +
		(q(x+1, y) - q(x-1, y)) * 1.0 /*axis*/ +
		(q(x+1, y+1) - q(x-1, y+1)) * 0.5 /*diag*/
}

func sobelY(q func(x, y int) float64, x, y int) float64 {
	return (q(x-1, y+1) - q(x-1, y-1)) * 0.5 /*diag*/ +
		(q(x, y+1) - q(x, y-1)) * 1.0 /*axis*/ +
		(q(x+1, y+1) - q(x+1, y-1)) * 0.5 /*diag*/
}

// fillBoundary makes every border cell inherit its nearest interior
// neighbour's splay vector.
func fillBoundary(s *SplayField) {
	w, h := s.W, s.H
	if w < 3 || h < 3 {
		return
	}
	for x := 0; x < w; x++ {
		ix := clamp(x, 1, w-2)
		s.Vx[0][x], s.Vy[0][x] = s.Vx[1][ix], s.Vy[1][ix]
		s.Vx[h-1][x], s.Vy[h-1][x] = s.Vx[h-2][ix], s.Vy[h-2][ix]
	}
	for y := 0; y < h; y++ {
		iy := clamp(y, 1, h-2)
		s.Vx[y][0], s.Vy[y][0] = s.Vx[iy][1], s.Vy[iy][1]
		s.Vx[y][w-1], s.Vy[y][w-1] = s.Vx[iy][w-2], s.Vy[iy][w-2]
	}
}
