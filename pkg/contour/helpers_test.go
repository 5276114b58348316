package contour

import "github.com/Faultbox/terratile/pkg/math"

func pt(x, y float64) math.Vec2 {
	return math.Vec2{X: x, Y: y}
}
