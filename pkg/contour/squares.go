package contour

import (
	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/math"
)

// Cell corners, counter-clockwise from bottom-left:
//
//	c3 ---e2--- c2
//	|           |
//	e3          e1
//	|           |
//	c0 ---e0--- c1
//
// c0 = (x, y), c1 = (x+1, y), c2 = (x+1, y+1), c3 = (x, y+1).
type cellEdge uint8

const (
	edgeBottom cellEdge = iota // c0-c1
	edgeRight                  // c1-c2
	edgeTop                    // c3-c2
	edgeLeft                   // c0-c3
)

// edgeCorners lists each edge's corners in a fixed direction, lower grid index
// first, so the two cells sharing an edge compute bit-identical crossings.
var edgeCorners = [4][2]int{
	edgeBottom: {0, 1},
	edgeRight:  {1, 2},
	edgeTop:    {3, 2},
	edgeLeft:   {0, 3},
}

type cellCase struct {
	n    int
	segs [2][2]cellEdge
}

// cases maps the 4-bit corner mask (bit k set when corner k >= threshold) to the
// edges each segment connects. 5 and 10 are saddles and always give two segments
// that cut off the set corners; the cell centre value is not consulted.
var cases = [16]cellCase{
	0:  {},
	1:  {1, [2][2]cellEdge{{edgeLeft, edgeBottom}}},
	2:  {1, [2][2]cellEdge{{edgeBottom, edgeRight}}},
	3:  {1, [2][2]cellEdge{{edgeLeft, edgeRight}}},
	4:  {1, [2][2]cellEdge{{edgeRight, edgeTop}}},
	5:  {2, [2][2]cellEdge{{edgeLeft, edgeBottom}, {edgeRight, edgeTop}}},
	6:  {1, [2][2]cellEdge{{edgeBottom, edgeTop}}},
	7:  {1, [2][2]cellEdge{{edgeLeft, edgeTop}}},
	8:  {1, [2][2]cellEdge{{edgeTop, edgeLeft}}},
	9:  {1, [2][2]cellEdge{{edgeBottom, edgeTop}}},
	10: {2, [2][2]cellEdge{{edgeBottom, edgeRight}, {edgeTop, edgeLeft}}},
	11: {1, [2][2]cellEdge{{edgeRight, edgeTop}}},
	12: {1, [2][2]cellEdge{{edgeRight, edgeLeft}}},
	13: {1, [2][2]cellEdge{{edgeBottom, edgeRight}}},
	14: {1, [2][2]cellEdge{{edgeLeft, edgeBottom}}},
	15: {},
}

type segment struct {
	a, b math.Vec2
}

// segments runs marching squares over every cell and returns raw segments in
// grid coordinates.
func segments(hf *heightfield.Heightfield, threshold float64) []segment {
	var out []segment
	var corners [4]math.Vec2
	var values [4]float64

	for y := 0; y < hf.Height-1; y++ {
		for x := 0; x < hf.Width-1; x++ {
			values = [4]float64{hf.At(x, y), hf.At(x+1, y), hf.At(x+1, y+1), hf.At(x, y+1)}

			mask := 0
			for k, v := range values {
				if v >= threshold {
					mask |= 1 << k
				}
			}
			c := cases[mask]
			if c.n == 0 {
				continue
			}

			fx, fy := float64(x), float64(y)
			corners = [4]math.Vec2{{X: fx, Y: fy}, {X: fx + 1, Y: fy}, {X: fx + 1, Y: fy + 1}, {X: fx, Y: fy + 1}}

			for _, s := range c.segs[:c.n] {
				a := crossing(s[0], corners, values, threshold)
				b := crossing(s[1], corners, values, threshold)
				// A corner sitting exactly on the threshold collapses both ends.
				if a == b {
					continue
				}
				out = append(out, segment{a, b})
			}
		}
	}
	return out
}

// crossing linearly interpolates where the threshold crosses edge e.
func crossing(e cellEdge, corners [4]math.Vec2, values [4]float64, threshold float64) math.Vec2 {
	i, j := edgeCorners[e][0], edgeCorners[e][1]
	vi, vj := values[i], values[j]
	t := 0.5
	if vj != vi {
		t = (threshold - vi) / (vj - vi)
	}
	return corners[i].Lerp(corners[j], t)
}
