// Package heightfield holds the elevation grid consumed by the terrain geometry engine.
package heightfield

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
)

// Heightfield validation errors.
var (
	ErrInvalidInput = errors.New("invalid heightfield")
	ErrNonFinite    = fmt.Errorf("%w: non-finite sample", ErrInvalidInput)
)

// Heightfield is a row-major grid of elevation samples.
// Samples[y*Width+x] is the elevation at column x, row y. Row 0 is the north edge.
type Heightfield struct {
	Samples []float64
	Width   int
	Height  int
	Min     float64
	Max     float64
}

// New builds a heightfield from samples, computing Min and Max.
// The samples slice is copied.
func New(samples []float64, width, height int) (*Heightfield, error) {
	if err := checkShape(len(samples), width, height); err != nil {
		return nil, err
	}
	if err := checkFinite(samples); err != nil {
		return nil, err
	}

	hf := &Heightfield{
		Samples: append([]float64(nil), samples...),
		Width:   width,
		Height:  height,
	}
	hf.Min, hf.Max = floats.Min(hf.Samples), floats.Max(hf.Samples)
	return hf, nil
}

// Validate checks the field and reports all violations at once.
// Nothing downstream handles NaN or Inf, so they are rejected here.
func (h *Heightfield) Validate() error {
	if h == nil {
		return fmt.Errorf("%w: nil heightfield", ErrInvalidInput)
	}
	if err := checkShape(len(h.Samples), h.Width, h.Height); err != nil {
		return err
	}

	var errs error
	if math.IsNaN(h.Min) || math.IsInf(h.Min, 0) || math.IsNaN(h.Max) || math.IsInf(h.Max, 0) {
		errs = multierr.Append(errs, fmt.Errorf("%w: min/max bounds", ErrNonFinite))
	} else if h.Min > h.Max {
		errs = multierr.Append(errs, fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidInput, h.Min, h.Max))
	}
	errs = multierr.Append(errs, checkFinite(h.Samples))
	if errs != nil {
		return errs
	}

	for i, s := range h.Samples {
		if s < h.Min || s > h.Max {
			errs = multierr.Append(errs, fmt.Errorf("%w: sample %d (%v) outside [%v, %v]",
				ErrInvalidInput, i, s, h.Min, h.Max))
		}
	}
	return errs
}

// At returns the sample at column x, row y.
func (h *Heightfield) At(x, y int) float64 {
	return h.Samples[y*h.Width+x]
}

// Range returns Max-Min, or 1 for flat terrain so scale factors stay finite.
func (h *Heightfield) Range() float64 {
	if h.Max == h.Min {
		return 1
	}
	return h.Max - h.Min
}

// Clone returns a deep copy.
func (h *Heightfield) Clone() *Heightfield {
	c := *h
	c.Samples = append([]float64(nil), h.Samples...)
	return &c
}

func checkShape(n, width, height int) error {
	var errs error
	if width < 2 || height < 2 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %dx%d is smaller than 2x2", ErrInvalidInput, width, height))
	}
	if width > 0 && height > 0 && n != width*height {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d samples for %dx%d grid", ErrInvalidInput, n, width, height))
	}
	return errs
}

func checkFinite(samples []float64) error {
	var errs error
	bad := 0
	for i, s := range samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			// Keep the error list short on badly corrupted tiles.
			if bad < 8 {
				errs = multierr.Append(errs, fmt.Errorf("%w at index %d", ErrNonFinite, i))
			}
			bad++
		}
	}
	if bad > 8 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d more", ErrNonFinite, bad-8))
	}
	return errs
}
