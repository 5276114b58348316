package contour

import "github.com/Faultbox/terratile/pkg/math"

// chain joins segments sharing endpoints into polylines, extending each line at
// both ends until nothing more attaches. A line whose ends meet is a closed loop.
//
// Endpoint search is linear, so this is O(segments²). Fine for tile-sized grids;
// larger grids would want an endpoint index.
func chain(segs []segment) []Polyline {
	used := make([]bool, len(segs))
	var lines []Polyline

	for i, s := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		line := Polyline{s.a, s.b}

		for extended := true; extended && !line.Closed(); {
			extended = false
			head, tail := line[0], line[len(line)-1]
			for j, o := range segs {
				if used[j] {
					continue
				}
				switch {
				case near(tail, o.a):
					line = append(line, o.b)
				case near(tail, o.b):
					line = append(line, o.a)
				case near(head, o.b):
					line = append(Polyline{o.a}, line...)
				case near(head, o.a):
					line = append(Polyline{o.b}, line...)
				default:
					continue
				}
				used[j] = true
				extended = true
				break
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func near(a, b math.Vec2) bool {
	return a.Near(b, chainTolerance)
}
