// Package space defines bounded, mixed-type search spaces and uniform
// sampling over them. A Space is the Cartesian product of its dimensions;
// a Point is one full assignment of values across all dimensions.
package space

import (
	"fmt"
	"math/rand"
)

// Point is an ordered sequence of per-dimension values. Its length always
// equals the number of dimensions in the space that produced it.
type Point []any

// Space is an immutable search space over a fixed list of dimensions.
type Space struct {
	dims []Dimension
}

// New creates a space from typed dimensions. Every dimension is validated;
// an empty dimension list is an error.
func New(dims ...Dimension) (*Space, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("space requires at least one dimension")
	}
	for i, d := range dims {
		if v, ok := d.(interface{ validate() error }); ok {
			if err := v.validate(); err != nil {
				return nil, fmt.Errorf("dimension %d: %w", i, err)
			}
		}
	}
	owned := make([]Dimension, len(dims))
	copy(owned, dims)
	return &Space{dims: owned}, nil
}

// Len returns the number of dimensions.
func (s *Space) Len() int {
	return len(s.dims)
}

// Dimensions returns a copy of the dimension list.
func (s *Space) Dimensions() []Dimension {
	out := make([]Dimension, len(s.dims))
	copy(out, s.dims)
	return out
}

// Sample draws n points from the space using rng. The whole batch is one
// coherent draw: values are generated dimension by dimension (all n values of
// dimension 0, then dimension 1, and so on), so a fixed generator state yields
// exactly one deterministic batch. n <= 0 yields an empty slice.
func (s *Space) Sample(n int, rng *rand.Rand) []Point {
	if n <= 0 {
		return []Point{}
	}

	cols := make([][]any, len(s.dims))
	for j, d := range s.dims {
		col := make([]any, n)
		for i := range col {
			col[i] = d.Sample(rng)
		}
		cols[j] = col
	}

	points := make([]Point, n)
	for i := range points {
		p := make(Point, len(s.dims))
		for j := range s.dims {
			p[j] = cols[j][i]
		}
		points[i] = p
	}
	return points
}

// Contains reports whether p has one valid value per dimension.
func (s *Space) Contains(p Point) bool {
	if len(p) != len(s.dims) {
		return false
	}
	for i, d := range s.dims {
		if !d.Contains(p[i]) {
			return false
		}
	}
	return true
}

// Bounds returns per-dimension numeric lower and upper bounds. It fails for
// spaces with categorical dimensions, which have no numeric bounds.
func (s *Space) Bounds() (lower, upper []float64, err error) {
	lower = make([]float64, len(s.dims))
	upper = make([]float64, len(s.dims))
	for i, d := range s.dims {
		switch dim := d.(type) {
		case Real:
			lower[i], upper[i] = dim.Low, dim.High
		case Integer:
			lower[i], upper[i] = float64(dim.Low), float64(dim.High)
		default:
			return nil, nil, fmt.Errorf("dimension %d (%s) has no numeric bounds", i, d)
		}
	}
	return lower, upper, nil
}

func (s *Space) String() string {
	return fmt.Sprintf("Space%v", s.dims)
}
