package heightfield

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Smoothing limits.
const (
	MaxSmoothPasses = 3
	MinSmoothRadius = 1
	MaxSmoothRadius = 2
)

// Smooth applies passes successive Gaussian convolutions of the given radius.
//
// The kernel is (2*radius+1)² taps with sigma = radius*0.5+0.5. Taps that fall
// outside the grid are dropped and the remaining weights renormalized, so border
// samples are averaged only over real data. passes == 0 returns an exact copy.
func Smooth(h *Heightfield, passes, radius int) (*Heightfield, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if passes < 0 || passes > MaxSmoothPasses {
		return nil, fmt.Errorf("%w: smoothing passes %d not in [0, %d]", ErrInvalidInput, passes, MaxSmoothPasses)
	}
	if radius < MinSmoothRadius || radius > MaxSmoothRadius {
		return nil, fmt.Errorf("%w: smoothing radius %d not in [%d, %d]",
			ErrInvalidInput, radius, MinSmoothRadius, MaxSmoothRadius)
	}
	if passes == 0 {
		return h.Clone(), nil
	}

	kernel := gaussianKernel(radius)
	size := 2*radius + 1
	w, ht := h.Width, h.Height

	// src is read, dst is written, then they swap. Never aliased within a pass.
	src := append([]float64(nil), h.Samples...)
	dst := make([]float64, len(src))

	for range passes {
		for y := range ht {
			for x := range w {
				var sum, weight float64
				for ky := -radius; ky <= radius; ky++ {
					sy := y + ky
					if sy < 0 || sy >= ht {
						continue
					}
					row := (ky + radius) * size
					for kx := -radius; kx <= radius; kx++ {
						sx := x + kx
						if sx < 0 || sx >= w {
							continue
						}
						k := kernel[row+kx+radius]
						sum += src[sy*w+sx] * k
						weight += k
					}
				}
				dst[y*w+x] = sum / weight
			}
		}
		src, dst = dst, src
	}

	// Rounding in the weighted sum must not push a sample past the input bounds.
	for i, v := range src {
		src[i] = math.Min(math.Max(v, h.Min), h.Max)
	}

	return &Heightfield{
		Samples: src,
		Width:   w,
		Height:  ht,
		Min:     floats.Min(src),
		Max:     floats.Max(src),
	}, nil
}

// gaussianKernel returns a normalized (2r+1)² kernel in row-major order.
func gaussianKernel(radius int) []float64 {
	sigma := float64(radius)*0.5 + 0.5
	twoSigma2 := 2 * sigma * sigma
	size := 2*radius + 1

	k := make([]float64, 0, size*size)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			k = append(k, math.Exp(-float64(dx*dx+dy*dy)/twoSigma2))
		}
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}
