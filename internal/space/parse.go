package space

import (
	"fmt"
)

// Parse builds a space from dynamic dimension specifications, one spec per
// dimension. This is the boundary used by JSON job requests and YAML problem
// files, where dimension descriptions arrive untyped. Each spec is one of:
//
//   - a pre-built Dimension, passed through as-is
//   - a two-element numeric list: Integer when both elements are integral,
//     Real otherwise
//   - a three-element list of two numbers and a prior name ("uniform" or
//     "log-uniform"): Real with that prior
//   - any other non-empty list: Categorical over its elements
func Parse(specs []any) (*Space, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("space requires at least one dimension spec")
	}
	dims := make([]Dimension, len(specs))
	for i, spec := range specs {
		d, err := ParseDimension(spec)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", i, err)
		}
		dims[i] = d
	}
	return New(dims...)
}

// ParseDimension converts a single dynamic spec into a typed Dimension.
func ParseDimension(spec any) (Dimension, error) {
	switch v := spec.(type) {
	case Dimension:
		return v, nil
	case []any:
		return parseList(v)
	case []string:
		cats := make([]any, len(v))
		for i, s := range v {
			cats[i] = s
		}
		return parseList(cats)
	case []float64:
		list := make([]any, len(v))
		for i, f := range v {
			list[i] = f
		}
		return parseList(list)
	case []int:
		list := make([]any, len(v))
		for i, n := range v {
			list[i] = n
		}
		return parseList(list)
	default:
		return nil, fmt.Errorf("unsupported dimension spec %T", spec)
	}
}

func parseList(list []any) (Dimension, error) {
	switch len(list) {
	case 0:
		return nil, fmt.Errorf("empty dimension spec")
	case 2:
		if isIntegral(list[0]) && isIntegral(list[1]) {
			lo, _ := Float64(list[0])
			hi, _ := Float64(list[1])
			return Integer{Low: int(lo), High: int(hi)}, nil
		}
		if lo, ok := Float64(list[0]); ok {
			if hi, ok := Float64(list[1]); ok {
				return Real{Low: lo, High: hi}, nil
			}
		}
		// Two non-numeric elements form a category set.
		return Categorical{Categories: list}, nil
	case 3:
		lo, loOK := Float64(list[0])
		hi, hiOK := Float64(list[1])
		prior, priorOK := list[2].(string)
		if loOK && hiOK && priorOK {
			return Real{Low: lo, High: hi, Prior: Prior(prior)}, nil
		}
		return Categorical{Categories: list}, nil
	default:
		return Categorical{Categories: list}, nil
	}
}

// isIntegral reports whether v carries an integer type. encoding/json widens
// every number to float64, so JSON bound pairs always parse as Real; YAML and
// typed callers keep the int/float distinction.
func isIntegral(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
