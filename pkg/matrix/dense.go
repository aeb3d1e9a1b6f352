package matrix

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/edp1096/circuit-solver/pkg/field"
)

// DenseMatrix is a System over any field.Scalar, factored by Gaussian
// elimination with partial pivoting on the primal magnitude.
type DenseMatrix[T field.Scalar[T]] struct {
	size     int
	a        [][]T // [1..size][1..size]
	rhs      []T
	solution []T
	relTol   float64
}

var (
	_ System[field.Complex] = (*DenseMatrix[field.Complex])(nil)
	_ System[field.Dual]    = (*DenseMatrix[field.Dual])(nil)
)

func NewDense[T field.Scalar[T]](size int, relTol float64) *DenseMatrix[T] {
	m := &DenseMatrix[T]{size: size, relTol: relTol}
	m.a = make([][]T, size+1)
	for i := range m.a {
		m.a[i] = make([]T, size+1)
	}
	m.rhs = make([]T, size+1)
	m.Clear()
	return m
}

func (m *DenseMatrix[T]) Size() int { return m.size }

func (m *DenseMatrix[T]) AddElement(i, j int, value T) {
	if i <= 0 || j <= 0 || i > m.size || j > m.size {
		slog.Warn("matrix index out of bounds", "i", i, "j", j, "size", m.size)
		return
	}
	m.a[i][j] = m.a[i][j].Add(value)
}

func (m *DenseMatrix[T]) AddRHS(i int, value T) {
	if i <= 0 || i > m.size {
		slog.Warn("rhs index out of bounds", "i", i, "size", m.size)
		return
	}
	m.rhs[i] = m.rhs[i].Add(value)
}

func (m *DenseMatrix[T]) Clear() {
	zero := field.Zero[T]()
	for i := range m.a {
		for j := range m.a[i] {
			m.a[i][j] = zero
		}
		m.rhs[i] = zero
	}
	m.solution = nil
}

// Solve factors a copy of A in place and back-substitutes. A pivot whose
// magnitude is at most relTol times the largest entry of its original row
// makes the system singular.
func (m *DenseMatrix[T]) Solve() error {
	n := m.size
	a := make([][]T, n+1)
	scale := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		a[i] = append([]T(nil), m.a[i]...)
		for j := 1; j <= n; j++ {
			scale[i] = max(scale[i], a[i][j].Abs())
		}
		if scale[i] == 0 {
			return fmt.Errorf("%w: row %d is empty", ErrSingular, i)
		}
	}
	b := append([]T(nil), m.rhs...)
	rows := make([]int, n+1) // original row held at each position
	for i := range rows {
		rows[i] = i
	}

	for k := 1; k <= n; k++ {
		p, best := k, -1.0
		for i := k; i <= n; i++ {
			if v := a[i][k].Abs(); v > best {
				p, best = i, v
			}
		}
		if math.IsNaN(best) || best <= m.relTol*scale[rows[p]] {
			return fmt.Errorf("%w: pivot %.3g at row %d below tolerance", ErrSingular, best, rows[p])
		}
		if p != k {
			a[p], a[k] = a[k], a[p]
			b[p], b[k] = b[k], b[p]
			rows[p], rows[k] = rows[k], rows[p]
		}

		pivot := a[k][k]
		for i := k + 1; i <= n; i++ {
			f := a[i][k].Div(pivot)
			for j := k; j <= n; j++ {
				a[i][j] = a[i][j].Sub(f.Mul(a[k][j]))
			}
			b[i] = b[i].Sub(f.Mul(b[k]))
		}
	}

	x := make([]T, n+1)
	x[0] = field.Zero[T]()
	for i := n; i >= 1; i-- {
		s := b[i]
		for j := i + 1; j <= n; j++ {
			s = s.Sub(a[i][j].Mul(x[j]))
		}
		x[i] = s.Div(a[i][i])
	}
	m.solution = x
	return nil
}

func (m *DenseMatrix[T]) Solution(i int) T {
	if i <= 0 || i >= len(m.solution) {
		return field.Zero[T]()
	}
	return m.solution[i]
}

func (m *DenseMatrix[T]) Destroy() {
	m.a, m.rhs, m.solution = nil, nil, nil
}
