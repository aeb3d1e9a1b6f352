// Package field provides the numeric types the MNA system is assembled
// and solved in. Complex is plain phasor arithmetic; Dual carries a
// first derivative alongside every value.
package field

import (
	"math/cmplx"
)

// Scalar is the arithmetic a matrix entry must support.
type Scalar[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
	Neg() T

	// Lift embeds a constant.
	Lift(complex128) T

	// Variable embeds v as the independent variable of a differentiation.
	// Types without a derivative part return Lift(v).
	Variable(v complex128) T

	// Value is the primal part.
	Value() complex128

	// Abs is the magnitude of the primal part, used for pivoting.
	Abs() float64
}

// Complex is a complex128 satisfying Scalar.
type Complex complex128

func (a Complex) Add(b Complex) Complex { return a + b }
func (a Complex) Sub(b Complex) Complex { return a - b }
func (a Complex) Mul(b Complex) Complex { return a * b }
func (a Complex) Div(b Complex) Complex { return a / b }
func (a Complex) Neg() Complex          { return -a }

func (Complex) Lift(v complex128) Complex     { return Complex(v) }
func (Complex) Variable(v complex128) Complex { return Complex(v) }

func (a Complex) Value() complex128 { return complex128(a) }
func (a Complex) Abs() float64      { return cmplx.Abs(complex128(a)) }

// Zero returns the additive identity of T.
func Zero[T Scalar[T]]() T {
	var z T
	return z.Lift(0)
}

// One returns the multiplicative identity of T.
func One[T Scalar[T]]() T {
	var z T
	return z.Lift(1)
}

// Sum adds up vs.
func Sum[T Scalar[T]](vs ...T) T {
	s := Zero[T]()
	for _, v := range vs {
		s = s.Add(v)
	}
	return s
}
