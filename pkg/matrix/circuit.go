package matrix

import (
	"fmt"
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/edp1096/circuit-solver/pkg/field"
	"github.com/edp1096/sparse"
)

// CircuitMatrix is a complex System backed by the Markowitz ordered sparse
// LU of github.com/edp1096/sparse.
type CircuitMatrix struct {
	size         int
	matrix       *sparse.Matrix
	rhs          []float64
	rhsImag      []float64
	solution     []float64
	solutionImag []float64
	relTol       float64
	config       *sparse.Configuration
}

var _ System[field.Complex] = (*CircuitMatrix)(nil)

// NewMatrix creates a size×size complex system. relTol is the pivot
// tolerance relative to the largest entry of the pivot's row.
func NewMatrix(size int, relTol float64) (*CircuitMatrix, error) {
	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: true,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("creating sparse matrix: %w", err)
	}

	m := &CircuitMatrix{
		size:         size,
		matrix:       mat,
		rhs:          make([]float64, size+1), // 1-based indexing
		rhsImag:      make([]float64, size+1),
		solution:     make([]float64, size+1),
		solutionImag: make([]float64, size+1),
		relTol:       relTol,
		config:       config,
	}
	m.SetupElements()
	return m, nil
}

func (m *CircuitMatrix) Size() int { return m.size }

func (m *CircuitMatrix) SetupElements() {
	for i := 1; i <= m.size; i++ {
		for j := 1; j <= m.size; j++ {
			m.matrix.GetElement(int64(i), int64(j))
		}
	}
}

func (m *CircuitMatrix) AddElement(i, j int, value field.Complex) {
	if i <= 0 || j <= 0 || i > m.size || j > m.size {
		slog.Warn("matrix index out of bounds", "i", i, "j", j, "size", m.size)
		return
	}

	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real(value)
	element.Imag += imag(value)
}

func (m *CircuitMatrix) AddRHS(i int, value field.Complex) {
	if i <= 0 || i > m.size {
		slog.Warn("rhs index out of bounds", "i", i, "size", m.size)
		return
	}
	m.rhs[i] += real(value)
	m.rhsImag[i] += imag(value)
}

func (m *CircuitMatrix) Clear() {
	m.matrix.Clear()
	clear(m.rhs)
	clear(m.rhsImag)
}

func (m *CircuitMatrix) Solve() error {
	scale := m.rowScales()
	for i := 1; i <= m.size; i++ {
		if scale[i] == 0 {
			return fmt.Errorf("%w: row %d is empty", ErrSingular, i)
		}
	}

	if err := m.matrix.Factor(); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}

	for step := 1; step <= m.size; step++ {
		d := m.matrix.Diags[step]
		if d == nil {
			return fmt.Errorf("%w: no pivot at step %d", ErrSingular, step)
		}
		// Diags hold pivot reciprocals after factoring.
		pivot := 1 / cmplx.Abs(complex(d.Real, d.Imag))
		row := m.matrix.IntToExtRowMap[step]
		if math.IsNaN(pivot) || pivot <= m.relTol*scale[row] {
			return fmt.Errorf("%w: pivot %.3g at row %d below tolerance", ErrSingular, pivot, row)
		}
	}

	sol, solImag, err := m.matrix.SolveComplex(m.rhs, m.rhsImag)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}
	m.solution, m.solutionImag = sol, solImag

	return nil
}

// rowScales is the largest entry magnitude of every external row.
func (m *CircuitMatrix) rowScales() []float64 {
	scale := make([]float64, m.size+1)
	for i := 1; i <= m.size; i++ {
		for j := 1; j <= m.size; j++ {
			e := m.matrix.GetElement(int64(i), int64(j))
			scale[i] = max(scale[i], cmplx.Abs(complex(e.Real, e.Imag)))
		}
	}
	return scale
}

func (m *CircuitMatrix) Solution(i int) field.Complex {
	if i <= 0 || i > m.size || i >= len(m.solution) {
		return 0
	}
	return field.Complex(complex(m.solution[i], m.solutionImag[i]))
}

func (m *CircuitMatrix) PrintSystem() {
	fmt.Printf("\nCircuit Equations (%dx%d):\n", m.size, m.size)
	fmt.Println("Node equations, then branch equations")

	for i := 1; i <= m.size; i++ {
		fmt.Printf("Equation %d:\n", i)
		for j := 1; j <= m.size; j++ {
			element := m.matrix.GetElement(int64(i), int64(j))
			if element.Real == 0 && element.Imag == 0 {
				continue
			}
			if element.Imag == 0 {
				fmt.Printf("  %+g*x%d ", element.Real, j)
			} else {
				fmt.Printf("  (%g + j%g)*x%d ", element.Real, element.Imag, j)
			}
		}
		fmt.Printf(" = %g + j%g\n", m.rhs[i], m.rhsImag[i])
	}
}

func (m *CircuitMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
