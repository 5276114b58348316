package heightfield

import (
	"encoding/json"
	"fmt"
	"io"
)

// tileJSON is the document produced by the tile ingestion layer.
type tileJSON struct {
	Elevations   []*float64 `json:"elevations"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	MinElevation *float64   `json:"minElevation"`
	MaxElevation *float64   `json:"maxElevation"`
}

// DecodeJSON reads a heightfield document of the form
//
//	{"elevations": [...], "width": W, "height": H, "minElevation": lo, "maxElevation": hi}
//
// Null elevations are replaced by the minimum. When the bounds are omitted they
// are computed from the samples.
func DecodeJSON(r io.Reader) (*Heightfield, error) {
	var doc tileJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding heightfield: %w", err)
	}

	if doc.MinElevation == nil || doc.MaxElevation == nil {
		samples := make([]float64, len(doc.Elevations))
		missing := false
		for i, e := range doc.Elevations {
			if e == nil {
				missing = true
				continue
			}
			samples[i] = *e
		}
		if missing {
			return nil, fmt.Errorf("%w: null elevations require minElevation", ErrInvalidInput)
		}
		return New(samples, doc.Width, doc.Height)
	}

	hf := &Heightfield{
		Samples: make([]float64, len(doc.Elevations)),
		Width:   doc.Width,
		Height:  doc.Height,
		Min:     *doc.MinElevation,
		Max:     *doc.MaxElevation,
	}
	for i, e := range doc.Elevations {
		if e == nil {
			hf.Samples[i] = hf.Min
			continue
		}
		hf.Samples[i] = *e
	}
	if err := hf.Validate(); err != nil {
		return nil, err
	}
	return hf, nil
}
