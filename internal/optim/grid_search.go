package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/swingsim/internal/dynamo"
)

// Objective runs one candidate and returns its metrics.
type Objective func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// GridSearch tries every combination of the given values and keeps the one
// with the best Metric. Ties go to the earliest combination.
type GridSearch struct {
	Params   []string
	Ranges   [][]float64
	Metric   string
	Maximize bool
	Workers  int
}

// Point is one evaluated combination.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

func NewGridSearch(params []string, ranges [][]float64, metric string) *GridSearch {
	return &GridSearch{Params: params, Ranges: ranges, Metric: metric}
}

// Combinations enumerates the grid with the last parameter varying fastest.
func (g *GridSearch) Combinations() []map[string]float64 {
	if len(g.Params) == 0 {
		return nil
	}
	var out []map[string]float64
	g.combine(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) combine(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.Params) {
		*out = append(*out, current)
		return
	}
	for _, val := range g.Ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[g.Params[depth]] = val
		g.combine(depth+1, next, out)
	}
}

// Search evaluates the whole grid in parallel. Failed candidates are kept
// in the returned points with Err set and never win.
func (g *GridSearch) Search(ctx context.Context, run Objective) (Point, []Point, error) {
	if len(g.Params) != len(g.Ranges) {
		return Point{}, nil, fmt.Errorf("%w: %d params but %d ranges", dynamo.ErrParameterBounds, len(g.Params), len(g.Ranges))
	}
	combos := g.Combinations()
	if len(combos) == 0 {
		return Point{}, nil, fmt.Errorf("%w: empty grid", dynamo.ErrParameterBounds)
	}

	points := make([]Point, len(combos))
	err := dynamo.NewEnsemble(g.Workers).Run(ctx, len(combos), func(ctx context.Context, i int) error {
		p := Point{Params: combos[i], Value: math.NaN()}
		metrics, err := run(ctx, combos[i])
		if err != nil {
			p.Err = err
		} else if v, ok := metrics[g.Metric]; ok {
			p.Value = v
		} else {
			p.Err = fmt.Errorf("no metric %q", g.Metric)
		}
		points[i] = p
		return ctx.Err()
	})
	if err != nil {
		return Point{}, points, err
	}

	best := -1
	for i, p := range points {
		if p.Err != nil || math.IsNaN(p.Value) {
			continue
		}
		if best < 0 || g.better(p.Value, points[best].Value) {
			best = i
		}
	}
	if best < 0 {
		return Point{}, points, fmt.Errorf("every candidate failed: %w", points[0].Err)
	}
	return points[best], points, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	out := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	out[n-1] = max
	return out
}

// ParseRange reads "name=min:max:n" or "name=v1,v2,...".
func ParseRange(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || spec == "" {
		return "", nil, fmt.Errorf("range %q: want name=min:max:n or name=v1,v2", s)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		n, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return "", nil, fmt.Errorf("range %q: bad min:max:n", s)
		}
		return name, Linspace(lo, hi, n), nil
	}

	var values []float64
	for _, part := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return "", nil, fmt.Errorf("range %q: %w", s, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}
