package assignment

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ssmkit/pkg/errors"
)

// bruteForce returns the minimal total over all injections of the rows of an
// nr×nc (nr ≤ nc) matrix into its columns.
func bruteForce(cost mat.Matrix) float64 {
	nr, nc := cost.Dims()
	used := make([]bool, nc)
	best := math.Inf(1)
	var rec func(row int, acc float64)
	rec = func(row int, acc float64) {
		if row == nr {
			if acc < best {
				best = acc
			}
			return
		}
		for j := 0; j < nc; j++ {
			if used[j] {
				continue
			}
			used[j] = true
			rec(row+1, acc+cost.At(row, j))
			used[j] = false
		}
	}
	rec(0, 0)
	return best
}

func randomMatrix(rng *rand.Rand, r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = math.Round(rng.Float64()*20) - 5
	}
	return mat.NewDense(r, c, data)
}

func assertValidAssignment(t *testing.T, nr, nc int, rows, cols []int) {
	t.Helper()
	k := nr
	if nc < k {
		k = nc
	}
	require.Len(t, rows, k)
	require.Len(t, cols, k)

	seenRow := map[int]bool{}
	seenCol := map[int]bool{}
	for i := range rows {
		if i > 0 {
			assert.Less(t, rows[i-1], rows[i], "rows must be strictly increasing")
		}
		assert.False(t, seenRow[rows[i]])
		assert.False(t, seenCol[cols[i]])
		seenRow[rows[i]] = true
		seenCol[cols[i]] = true
		assert.True(t, rows[i] >= 0 && rows[i] < nr)
		assert.True(t, cols[i] >= 0 && cols[i] < nc)
	}
}

func TestSolve_KnownSquare(t *testing.T) {
	cost := mat.NewDense(3, 3, []float64{
		4, 1, 3,
		2, 0, 5,
		3, 2, 2,
	})

	rows, cols, err := Solve(cost)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, rows)
	assert.Equal(t, []int{1, 0, 2}, cols)
	assert.Equal(t, 5.0, Total(cost, rows, cols))
}

func TestSolve_Maximize(t *testing.T) {
	overlap := mat.NewDense(2, 2, []float64{
		0, 2,
		2, 0,
	})

	rows, cols, err := Solve(overlap, WithMaximize())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rows)
	assert.Equal(t, []int{1, 0}, cols)
}

func TestSolve_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	shapes := [][2]int{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}, {2, 4}, {3, 5}, {1, 6}, {4, 6}}
	for _, shape := range shapes {
		for trial := 0; trial < 20; trial++ {
			cost := randomMatrix(rng, shape[0], shape[1])

			rows, cols, err := Solve(cost)
			require.NoError(t, err)
			assertValidAssignment(t, shape[0], shape[1], rows, cols)
			assert.InDelta(t, bruteForce(cost), Total(cost, rows, cols), 1e-9,
				"shape %v trial %d", shape, trial)
		}
	}
}

func TestSolve_TallMatrix(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))

	for trial := 0; trial < 20; trial++ {
		cost := randomMatrix(rng, 5, 3)

		rows, cols, err := Solve(cost)
		require.NoError(t, err)
		assertValidAssignment(t, 5, 3, rows, cols)

		var tr mat.Dense
		tr.CloneFrom(cost.T())
		assert.InDelta(t, bruteForce(&tr), Total(cost, rows, cols), 1e-9)
	}
}

func TestSolve_ForbiddenEntries(t *testing.T) {
	inf := math.Inf(1)
	cost := mat.NewDense(2, 2, []float64{
		inf, 1,
		2, inf,
	})
	rows, cols, err := Solve(cost)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rows)
	assert.Equal(t, []int{1, 0}, cols)

	infeasible := mat.NewDense(2, 2, []float64{
		inf, 1,
		inf, 2,
	})
	_, _, err = Solve(infeasible)
	assert.True(t, errors.Is(err, ErrInfeasible))
}

func TestSolve_InvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		cost *mat.Dense
		opts []Option
	}{
		{"nan", mat.NewDense(1, 2, []float64{math.NaN(), 1}), nil},
		{"negative inf", mat.NewDense(1, 2, []float64{math.Inf(-1), 1}), nil},
		{"positive inf when maximizing", mat.NewDense(1, 2, []float64{math.Inf(1), 1}), []Option{WithMaximize()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Solve(tt.cost, tt.opts...)
			require.Error(t, err)
			var valErr *errors.ValueError
			assert.True(t, errors.As(err, &valErr))
		})
	}
}

func TestSolve_Empty(t *testing.T) {
	rows, cols, err := Solve(&mat.Dense{})
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, cols)
}

func BenchmarkSolve50x50(b *testing.B) {
	cost := randomMatrix(rand.New(rand.NewPCG(1, 1)), 50, 50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = Solve(cost)
	}
}
