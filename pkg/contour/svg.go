package contour

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SVGOptions controls vector output for laser cutting.
type SVGOptions struct {
	SizeMm   float64 // side length of the square drawing
	StrokeMm float64 // cut line width
}

// DefaultSVGOptions returns a 150 mm drawing with hairline cuts.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{SizeMm: 150, StrokeMm: 0.1}
}

// WriteSVG writes one group per layer. Closed loops become polygons, open
// lines touching the tile border become polylines.
func WriteSVG(w io.Writer, layers []Layer, opts SVGOptions) error {
	if opts.SizeMm <= 0 || opts.StrokeMm <= 0 {
		return fmt.Errorf("invalid svg options: size=%v stroke=%v", opts.SizeMm, opts.StrokeMm)
	}

	bw := bufio.NewWriter(w)
	size := formatMm(opts.SizeMm)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		size, size, size, size)

	for i, layer := range layers {
		fmt.Fprintf(bw, `  <g id="layer-%d" data-elevation="%s" fill="none" stroke="black" stroke-width="%s">`+"\n",
			i+1, strconv.FormatFloat(layer.Elevation, 'f', -1, 64), formatMm(opts.StrokeMm))
		for _, line := range layer.Polylines {
			pts := line
			tag := "polyline"
			if line.Closed() {
				// The closing point is implied by <polygon>.
				pts = line[:len(line)-1]
				tag = "polygon"
			}
			fmt.Fprintf(bw, `    <%s points="%s"/>`+"\n", tag, formatPoints(pts, opts.SizeMm))
		}
		fmt.Fprintln(bw, "  </g>")
	}
	fmt.Fprintln(bw, "</svg>")
	return bw.Flush()
}

func formatPoints(pts Polyline, scale float64) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatMm(p.X * scale))
		sb.WriteByte(',')
		sb.WriteString(formatMm(p.Y * scale))
	}
	return sb.String()
}

func formatMm(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
