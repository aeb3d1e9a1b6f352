package matrix

import (
	"errors"

	"github.com/edp1096/circuit-solver/pkg/field"
)

// ErrSingular is returned by Solve when the system has no unique solution
// within the configured pivot tolerance.
var ErrSingular = errors.New("matrix is singular")

// DeviceMatrix is what a branch stamps into.
type DeviceMatrix[T any] interface {
	AddElement(i, j int, value T) // 1-based indexing
	AddRHS(i int, value T)
}

// System is a square linear system A·x = b with 1-based unknowns.
type System[T field.Scalar[T]] interface {
	DeviceMatrix[T]
	Size() int
	Clear()
	Solve() error
	Solution(i int) T
	Destroy()
}
