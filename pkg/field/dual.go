package field

import (
	"fmt"
	"math/cmplx"
)

// Dual is a forward-mode dual number Re + Eps·ε with ε² = 0.
type Dual struct {
	Re  complex128
	Eps complex128
}

func (a Dual) Add(b Dual) Dual { return Dual{a.Re + b.Re, a.Eps + b.Eps} }
func (a Dual) Sub(b Dual) Dual { return Dual{a.Re - b.Re, a.Eps - b.Eps} }
func (a Dual) Neg() Dual       { return Dual{-a.Re, -a.Eps} }

func (a Dual) Mul(b Dual) Dual {
	return Dual{a.Re * b.Re, a.Re*b.Eps + a.Eps*b.Re}
}

// Div follows the quotient rule. Division by a zero primal yields
// infinities, like complex128 division.
func (a Dual) Div(b Dual) Dual {
	return Dual{a.Re / b.Re, (a.Eps*b.Re - a.Re*b.Eps) / (b.Re * b.Re)}
}

func (Dual) Lift(v complex128) Dual     { return Dual{Re: v} }
func (Dual) Variable(v complex128) Dual { return Dual{Re: v, Eps: 1} }

func (a Dual) Value() complex128 { return a.Re }
func (a Dual) Abs() float64      { return cmplx.Abs(a.Re) }

// Derivative is the ε part.
func (a Dual) Derivative() complex128 { return a.Eps }

func (a Dual) String() string {
	return fmt.Sprintf("(%v + %vε)", a.Re, a.Eps)
}
