package opt

import (
	"github.com/cwbudde/randsearch/internal/space"
)

// ParseInitial normalizes dynamic initial-observation shapes into typed form,
// validating them once at the boundary so Minimize only ever sees well-formed
// slices. It is the entry point for x0/y0 arriving from JSON job requests and
// YAML problem files.
//
// x0 may be nil, a single flat point, or a list of points. A flat point is
// recognized by its first element not being a list, and is wrapped into a
// one-element list of points. y0 may be nil (the objective will be evaluated
// at each initial point), a single scalar (exactly one initial point), or a
// list of scalars matching x0 in length.
func ParseInitial(x0, y0 any) ([]space.Point, []float64, error) {
	points, err := parsePoints(x0)
	if err != nil {
		return nil, nil, err
	}

	if y0 == nil {
		return points, nil, nil
	}
	if len(points) == 0 {
		return nil, nil, invalidArg("y0", "provided without initial points")
	}

	values, err := parseValues(y0)
	if err != nil {
		return nil, nil, err
	}
	if len(values) != len(points) {
		return nil, nil, invalidArg("y0", "has %d values for %d initial points", len(values), len(points))
	}
	return points, values, nil
}

func parsePoints(x0 any) ([]space.Point, error) {
	switch v := x0.(type) {
	case nil:
		return nil, nil
	case []space.Point:
		return v, nil
	case space.Point:
		return []space.Point{v}, nil
	case []float64:
		// A flat numeric vector is a single point.
		p := make(space.Point, len(v))
		for i, f := range v {
			p[i] = f
		}
		return []space.Point{p}, nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		if _, ok := asList(v[0]); !ok {
			// Flat point: wrap into a one-element list.
			return []space.Point{space.Point(v)}, nil
		}
		points := make([]space.Point, len(v))
		for i, el := range v {
			list, ok := asList(el)
			if !ok {
				return nil, invalidArg("x0", "element %d is not a point", i)
			}
			points[i] = space.Point(list)
		}
		return points, nil
	default:
		return nil, invalidArg("x0", "expected a point or a list of points, got %T", x0)
	}
}

func parseValues(y0 any) ([]float64, error) {
	switch v := y0.(type) {
	case []float64:
		return v, nil
	case []any:
		values := make([]float64, len(v))
		for i, el := range v {
			f, err := toScalar(el)
			if err != nil {
				return nil, err
			}
			values[i] = f
		}
		return values, nil
	default:
		// A bare scalar is the value of a single initial point.
		if f, ok := space.Float64(v); ok {
			return []float64{f}, nil
		}
		return nil, invalidArg("y0", "expected a scalar or a list of scalars, got %T", y0)
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case space.Point:
		return l, true
	case []float64:
		out := make([]any, len(l))
		for i, f := range l {
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}
