package sequence

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mask marks which entries of a T×D data sequence are observed.
type Mask struct {
	rows, cols int
	data       []bool
}

// NewMask creates a rows×cols mask backed by data in row-major order. A nil
// data slice yields an all-false mask.
func NewMask(rows, cols int, data []bool) *Mask {
	if rows <= 0 || cols <= 0 {
		panic(mat.ErrZeroLength)
	}
	if data == nil {
		data = make([]bool, rows*cols)
	}
	if len(data) != rows*cols {
		panic(mat.ErrShape)
	}
	return &Mask{rows: rows, cols: cols, data: data}
}

// FullMask returns a rows×cols mask with every entry observed.
func FullMask(rows, cols int) *Mask {
	m := NewMask(rows, cols, nil)
	for i := range m.data {
		m.data[i] = true
	}
	return m
}

// ObservedMask marks the finite entries of a as observed and NaN or ±Inf
// entries as missing.
func ObservedMask(a mat.Matrix) *Mask {
	r, c := a.Dims()
	m := NewMask(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			m.data[i*c+j] = !math.IsNaN(v) && !math.IsInf(v, 0)
		}
	}
	return m
}

// Dims returns the shape of the mask.
func (m *Mask) Dims() (int, int) { return m.rows, m.cols }

// At reports whether entry (i, j) is observed.
func (m *Mask) At(i, j int) bool {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

// Set sets entry (i, j).
func (m *Mask) Set(i, j int, observed bool) {
	m.check(i, j)
	m.data[i*m.cols+j] = observed
}

// Count returns the number of observed entries.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.data {
		if b {
			n++
		}
	}
	return n
}

// Dense returns the mask as a 0/1 matrix.
func (m *Mask) Dense() *mat.Dense {
	out := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if m.data[i*m.cols+j] {
				out.Set(i, j, 1)
			}
		}
	}
	return out
}

func (m *Mask) check(i, j int) {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= m.cols {
		panic(mat.ErrColAccess)
	}
}
