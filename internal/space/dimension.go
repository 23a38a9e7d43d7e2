package space

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
)

// Prior selects the sampling distribution for a Real dimension.
type Prior string

const (
	PriorUniform    Prior = "uniform"
	PriorLogUniform Prior = "log-uniform"
)

// Dimension is one axis of a search space. Implementations must draw
// uniformly (with respect to their prior) from their own domain and must
// consume the generator they are given rather than any ambient random state.
type Dimension interface {
	// Sample draws one value from the dimension using rng.
	Sample(rng *rand.Rand) any

	// Contains reports whether v is a valid value for this dimension.
	Contains(v any) bool

	String() string
}

// Real is a bounded continuous dimension over [Low, High].
type Real struct {
	Low   float64
	High  float64
	Prior Prior // empty means PriorUniform
}

// Sample draws a value in [Low, High) under the configured prior.
func (d Real) Sample(rng *rand.Rand) any {
	if d.Prior == PriorLogUniform {
		lo := math.Log(d.Low)
		hi := math.Log(d.High)
		return math.Exp(lo + rng.Float64()*(hi-lo))
	}
	return d.Low + rng.Float64()*(d.High-d.Low)
}

// Contains reports whether v is a numeric value inside the bounds.
func (d Real) Contains(v any) bool {
	f, ok := Float64(v)
	if !ok {
		return false
	}
	return f >= d.Low && f <= d.High
}

func (d Real) String() string {
	if d.Prior == PriorLogUniform {
		return fmt.Sprintf("Real(%g, %g, log-uniform)", d.Low, d.High)
	}
	return fmt.Sprintf("Real(%g, %g)", d.Low, d.High)
}

func (d Real) validate() error {
	if !(d.Low < d.High) {
		return fmt.Errorf("real dimension requires Low < High, got [%g, %g]", d.Low, d.High)
	}
	switch d.Prior {
	case "", PriorUniform:
	case PriorLogUniform:
		if d.Low <= 0 {
			return fmt.Errorf("log-uniform prior requires positive bounds, got low %g", d.Low)
		}
	default:
		return fmt.Errorf("unknown prior %q", d.Prior)
	}
	return nil
}

// Integer is a bounded discrete dimension over [Low, High], inclusive.
type Integer struct {
	Low  int
	High int
}

// Sample draws an integer uniformly from [Low, High].
func (d Integer) Sample(rng *rand.Rand) any {
	return d.Low + rng.Intn(d.High-d.Low+1)
}

// Contains reports whether v is an integral value inside the bounds.
func (d Integer) Contains(v any) bool {
	f, ok := Float64(v)
	if !ok || f != math.Trunc(f) {
		return false
	}
	return f >= float64(d.Low) && f <= float64(d.High)
}

func (d Integer) String() string {
	return fmt.Sprintf("Integer(%d, %d)", d.Low, d.High)
}

func (d Integer) validate() error {
	if d.Low >= d.High {
		return fmt.Errorf("integer dimension requires Low < High, got [%d, %d]", d.Low, d.High)
	}
	return nil
}

// Categorical is a finite, unordered set of values.
type Categorical struct {
	Categories []any
}

// Sample draws one category uniformly.
func (d Categorical) Sample(rng *rand.Rand) any {
	return d.Categories[rng.Intn(len(d.Categories))]
}

// Contains reports whether v is one of the categories.
func (d Categorical) Contains(v any) bool {
	for _, c := range d.Categories {
		if reflect.DeepEqual(c, v) {
			return true
		}
	}
	return false
}

func (d Categorical) String() string {
	return fmt.Sprintf("Categorical(%v)", d.Categories)
}

func (d Categorical) validate() error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("categorical dimension requires at least one category")
	}
	return nil
}

// Float64 coerces any scalar numeric value to float64. It rejects bools,
// strings, slices, and everything else non-numeric.
func Float64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
