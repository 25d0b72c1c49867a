// Package assignment solves the rectangular linear sum assignment problem.
//
// Given an nr×nc cost matrix, Solve selects min(nr, nc) entries, at most one
// per row and per column, with minimal (or maximal) total cost. The solver is
// the shortest augmenting path method of Jonker and Volgenant as refined by
// Crouse (2016): one Dijkstra-like search per row over reduced costs, keeping
// dual potentials so every search runs on non-negative edges. Running time is
// O(nr²·nc) for nr ≤ nc.
package assignment

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// ErrInfeasible is returned when no complete assignment has finite cost.
var ErrInfeasible = errors.New("cost matrix is infeasible")

// Option configures Solve.
type Option func(*config)

type config struct {
	maximize bool
}

// WithMaximize makes Solve maximize the total instead of minimizing it.
func WithMaximize() Option {
	return func(c *config) {
		c.maximize = true
	}
}

// Solve returns the optimal assignment as parallel slices of row and column
// indices. rows is strictly increasing. For nr ≤ nc every row is assigned;
// for nr > nc every column is assigned.
func Solve(cost mat.Matrix, opts ...Option) (rows, cols []int, err error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	nr, nc := cost.Dims()
	if nr == 0 || nc == 0 {
		return []int{}, []int{}, nil
	}

	transposed := nr > nc
	if transposed {
		nr, nc = nc, nr
	}

	// Row-major copy of the (possibly transposed, possibly negated) costs.
	c := make([]float64, nr*nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			var v float64
			if transposed {
				v = cost.At(j, i)
			} else {
				v = cost.At(i, j)
			}
			if cfg.maximize {
				v = -v
			}
			if math.IsNaN(v) || math.IsInf(v, -1) {
				return nil, nil, errors.NewValueError("assignment.Solve", "cost matrix contains NaN or -Inf entries")
			}
			c[i*nc+j] = v
		}
	}

	col4row, err := solve(nr, nc, c)
	if err != nil {
		return nil, nil, err
	}

	rows = make([]int, nr)
	cols = make([]int, nr)
	if !transposed {
		for i := 0; i < nr; i++ {
			rows[i] = i
			cols[i] = col4row[i]
		}
		return rows, cols, nil
	}

	// Map back: original rows are the columns we assigned.
	order := make([]int, nr)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return col4row[order[a]] < col4row[order[b]] })
	for k, i := range order {
		rows[k] = col4row[i]
		cols[k] = i
	}
	return rows, cols, nil
}

// solve assigns every row of the nr×nc (nr ≤ nc) matrix c and returns the
// column matched to each row.
func solve(nr, nc int, c []float64) ([]int, error) {
	s := &search{
		nc:                nc,
		cost:              c,
		u:                 make([]float64, nr),
		v:                 make([]float64, nc),
		shortestPathCosts: make([]float64, nc),
		path:              make([]int, nc),
		row4col:           make([]int, nc),
		sr:                make([]bool, nr),
		sc:                make([]bool, nc),
		remaining:         make([]int, nc),
	}
	col4row := make([]int, nr)
	for i := range col4row {
		col4row[i] = -1
	}
	for j := 0; j < nc; j++ {
		s.path[j] = -1
		s.row4col[j] = -1
	}

	for curRow := 0; curRow < nr; curRow++ {
		sink, minVal := s.augmentingPath(curRow)
		if sink < 0 {
			return nil, ErrInfeasible
		}

		// Update dual variables.
		s.u[curRow] += minVal
		for i := 0; i < nr; i++ {
			if s.sr[i] && i != curRow {
				s.u[i] += minVal - s.shortestPathCosts[col4row[i]]
			}
		}
		for j := 0; j < nc; j++ {
			if s.sc[j] {
				s.v[j] -= minVal - s.shortestPathCosts[j]
			}
		}

		// Augment along the path back to curRow.
		j := sink
		for {
			i := s.path[j]
			s.row4col[j] = i
			col4row[i], j = j, col4row[i]
			if i == curRow {
				break
			}
		}
	}
	return col4row, nil
}

type search struct {
	nc                int
	cost              []float64
	u, v              []float64
	shortestPathCosts []float64
	path              []int
	row4col           []int
	sr, sc            []bool
	remaining         []int
}

// augmentingPath finds the cheapest alternating path from row i to an
// unassigned column. It returns the sink column (-1 if none is reachable at
// finite cost) and the path length.
func (s *search) augmentingPath(i int) (sink int, minVal float64) {
	nc := s.nc

	// Filled in reverse so ties favor lower column indices.
	numRemaining := nc
	for it := 0; it < nc; it++ {
		s.remaining[it] = nc - it - 1
	}
	for k := range s.sr {
		s.sr[k] = false
	}
	for j := 0; j < nc; j++ {
		s.sc[j] = false
		s.shortestPathCosts[j] = math.Inf(1)
	}

	sink = -1
	for sink == -1 {
		index := -1
		lowest := math.Inf(1)
		s.sr[i] = true

		for it := 0; it < numRemaining; it++ {
			j := s.remaining[it]

			r := minVal + s.cost[i*nc+j] - s.u[i] - s.v[j]
			if r < s.shortestPathCosts[j] {
				s.path[j] = i
				s.shortestPathCosts[j] = r
			}

			// Prefer unassigned columns on ties so the search ends early.
			if s.shortestPathCosts[j] < lowest ||
				(s.shortestPathCosts[j] == lowest && s.row4col[j] == -1) {
				lowest = s.shortestPathCosts[j]
				index = it
			}
		}

		minVal = lowest
		if math.IsInf(minVal, 1) {
			return -1, minVal
		}

		j := s.remaining[index]
		if s.row4col[j] == -1 {
			sink = j
		} else {
			i = s.row4col[j]
		}

		s.sc[j] = true
		numRemaining--
		s.remaining[index] = s.remaining[numRemaining]
	}
	return sink, minVal
}

// Total returns the sum of cost over the given assignment.
func Total(cost mat.Matrix, rows, cols []int) float64 {
	var sum float64
	for k := range rows {
		sum += cost.At(rows[k], cols[k])
	}
	return sum
}
