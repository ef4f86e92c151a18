package grid

import "gonum.org/v1/gonum/floats"

// MeanFilter applies one pass of a 3x3 box blur. Only in-bounds neighbours
// are averaged, so edge cells average 6 values and corners 4.
func MeanFilter(g Grid) Grid {
	if g.Empty() {
		return Grid{}
	}
	dst := make([]float64, len(g.data))
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			var total float64
			count := 0
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= g.rows {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= g.cols {
						continue
					}
					total += g.data[yy*g.cols+xx]
					count++
				}
			}
			dst[y*g.cols+x] = total / float64(count)
		}
	}
	return fromData(g.rows, g.cols, dst)
}

// Upscale enlarges g by an integer factor using nearest-neighbour
// replication.
func Upscale(g Grid, factor int) (Grid, error) {
	if g.Empty() {
		return Grid{}, ErrEmpty
	}
	return Build(g.rows*factor, g.cols*factor, func(row, col int) float64 {
		return g.data[(row/factor)*g.cols+col/factor]
	})
}

// NormalizeMax divides every cell by the grid maximum. A grid whose maximum
// is zero becomes all zeros.
func NormalizeMax(g Grid) Grid {
	if g.Empty() {
		return Grid{}
	}
	hi := floats.Max(g.data)
	if hi == 0 {
		return fromData(g.rows, g.cols, make([]float64, len(g.data)))
	}
	return g.Map(func(v float64) float64 { return v / hi })
}

// Shift translates g by (dy, dx) whole cells. Cells moved past the border
// are dropped and uncovered cells are zero.
func Shift(g Grid, dy, dx int) Grid {
	if g.Empty() {
		return Grid{}
	}
	dst := make([]float64, len(g.data))
	for y := 0; y < g.rows; y++ {
		sy := y - dy
		if sy < 0 || sy >= g.rows {
			continue
		}
		for x := 0; x < g.cols; x++ {
			sx := x - dx
			if sx < 0 || sx >= g.cols {
				continue
			}
			dst[y*g.cols+x] = g.data[sy*g.cols+sx]
		}
	}
	return fromData(g.rows, g.cols, dst)
}
