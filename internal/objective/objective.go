// Package objective provides named benchmark objectives for exercising
// optimizers. Jobs submitted over the HTTP API reference objectives by name,
// since arbitrary code cannot cross that boundary.
package objective

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/randsearch/internal/opt"
	"github.com/cwbudde/randsearch/internal/space"
)

// Func is a numeric objective over a flat parameter vector.
type Func func(x []float64) float64

// Benchmark couples a named objective with its canonical per-dimension
// search bounds.
type Benchmark struct {
	Name string
	Eval Func
	Low  float64
	High float64
}

// Space returns the benchmark's canonical search space with dim real
// dimensions.
func (b Benchmark) Space(dim int) (*space.Space, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("benchmark %s: dimension must be positive, got %d", b.Name, dim)
	}
	dims := make([]space.Dimension, dim)
	for i := range dims {
		dims[i] = space.Real{Low: b.Low, High: b.High}
	}
	return space.New(dims...)
}

// Objective adapts the benchmark for the optimization driver.
func (b Benchmark) Objective() opt.Objective {
	return FromFunc(b.Eval)
}

// FromFunc wraps a numeric function as an Objective over numeric points.
func FromFunc(fn Func) opt.Objective {
	return func(p space.Point) (any, error) {
		x := make([]float64, len(p))
		for i, v := range p {
			f, ok := space.Float64(v)
			if !ok {
				return nil, fmt.Errorf("point coordinate %d is not numeric: %T", i, v)
			}
			x[i] = f
		}
		return fn(x), nil
	}
}

var registry = map[string]Benchmark{
	"sphere":     {Name: "sphere", Eval: Sphere, Low: -10, High: 10},
	"rosenbrock": {Name: "rosenbrock", Eval: Rosenbrock, Low: -5, High: 10},
	"rastrigin":  {Name: "rastrigin", Eval: Rastrigin, Low: -5.12, High: 5.12},
	"eggholder":  {Name: "eggholder", Eval: Eggholder, Low: -512, High: 512},
}

// Lookup returns the benchmark registered under name.
func Lookup(name string) (Benchmark, error) {
	b, ok := registry[name]
	if !ok {
		return Benchmark{}, fmt.Errorf("unknown objective %q (available: %v)", name, Names())
	}
	return b, nil
}

// Names returns the registered benchmark names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sphere is sum(x_i^2), minimum 0 at the origin.
func Sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Rosenbrock is the classic banana valley, minimum 0 at (1, ..., 1).
func Rosenbrock(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum
}

// Rastrigin is highly multimodal, minimum 0 at the origin.
func Rastrigin(x []float64) float64 {
	sum := 10 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum
}

// Eggholder sums the two-dimensional eggholder function over consecutive
// coordinate pairs. In two dimensions the minimum is about -959.6407 at
// (512, 404.2319).
func Eggholder(x []float64) float64 {
	var sum float64
	for i := 0; i < len(x)-1; i++ {
		a, b := x[i], x[i+1]
		sum += -(b+47)*math.Sin(math.Sqrt(math.Abs(a/2+b+47))) -
			a*math.Sin(math.Sqrt(math.Abs(a-(b+47))))
	}
	return sum
}
