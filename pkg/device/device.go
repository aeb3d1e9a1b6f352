// Package device defines the two-terminal components of a linear circuit.
//
// A *Component is a view onto an element. Views made with Reverse share the
// element's value and solved state but carry their own orientation, so a
// source can be wired against its defining direction while its results stay
// readable through every view.
package device

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/circuit-solver/pkg/field"
	"github.com/edp1096/circuit-solver/pkg/unit"
)

type Kind int

const (
	Resistor Kind = iota
	Capacitor
	Inductor
	Impedance
	VoltageSource
	CurrentSource
)

func (k Kind) String() string {
	switch k {
	case Resistor:
		return "R"
	case Capacitor:
		return "C"
	case Inductor:
		return "L"
	case Impedance:
		return "Z"
	case VoltageSource:
		return "V"
	case CurrentSource:
		return "I"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsSource reports whether k is an ideal source.
func (k Kind) IsSource() bool {
	return k == VoltageSource || k == CurrentSource
}

type AnalysisMode int

const (
	OperatingPointAnalysis AnalysisMode = iota
	ACAnalysis
	DCSweep
	SensitivityAnalysis
)

func (m AnalysisMode) String() string {
	switch m {
	case OperatingPointAnalysis:
		return "op"
	case ACAnalysis:
		return "ac"
	case DCSweep:
		return "dc"
	case SensitivityAnalysis:
		return "sens"
	}
	return fmt.Sprintf("AnalysisMode(%d)", int(m))
}

// CircuitStatus describes the solve a component is being stamped for.
type CircuitStatus struct {
	Omega float64 // angular frequency (rad/s), 0 for DC
	Mode  AnalysisMode
}

type element struct {
	label string
	kind  Kind
	value complex128 // SI units

	current complex128
	voltage complex128
	solved  bool
}

type Component struct {
	*element
	reversed bool
}

func newComponent(label string, kind Kind, value complex128) *Component {
	return &Component{element: &element{label: label, kind: kind, value: value}}
}

func (c *Component) Label() string { return c.label }
func (c *Component) Kind() Kind     { return c.kind }

// Value is the defining value in SI units, independent of orientation.
func (c *Component) Value() complex128 { return c.value }

// SetValue changes the element's value for every view of it.
func (c *Component) SetValue(v complex128) { c.value = v }

func (c *Component) Reversed() bool { return c.reversed }

// Reverse returns a new view of the same element with the opposite
// orientation. The receiver is not modified.
func (c *Component) Reverse() *Component {
	return &Component{element: c.element, reversed: !c.reversed}
}

// SameElement reports whether c and o are views of one element.
func (c *Component) SameElement(o *Component) bool {
	return c != nil && o != nil && c.element == o.element
}

// Sign is -1 for a reversed view, +1 otherwise.
func (c *Component) Sign() float64 {
	if c.reversed {
		return -1
	}
	return 1
}

// SignedValue is the source value seen along the branch direction.
func (c *Component) SignedValue() complex128 {
	return c.value * complex(c.Sign(), 0)
}

// IsOpen reports whether c blocks current at omega: a capacitor at DC or
// with zero capacitance.
func (c *Component) IsOpen(omega float64) bool {
	return c.kind == Capacitor && (omega == 0 || c.value == 0)
}

// Impedance returns the complex impedance at omega. A current source and an
// open capacitor report an infinite impedance; a voltage source reports 0.
func (c *Component) Impedance(omega float64) complex128 {
	switch c.kind {
	case Resistor:
		return resistorImpedance(c.value)
	case Impedance:
		return c.value
	case Inductor:
		return inductorImpedance(c.value, omega)
	case Capacitor:
		if c.IsOpen(omega) {
			return cmplx.Inf()
		}
		return capacitorImpedance(c.value, omega)
	case CurrentSource:
		return cmplx.Inf()
	}
	return 0
}

// ImpedanceOf evaluates the impedance law of c in T with the value v.
// It must not be called for an open component.
func ImpedanceOf[T field.Scalar[T]](c *Component, omega float64, v T) T {
	jw := v.Lift(complex(0, omega))
	switch c.kind {
	case Resistor, Impedance:
		return v
	case Inductor:
		return v.Mul(jw)
	case Capacitor:
		return v.Lift(1).Div(v.Mul(jw))
	}
	return v.Lift(0)
}

// Finite reports whether the value is a usable number.
func (c *Component) Finite() bool {
	re, im := real(c.value), imag(c.value)
	return !math.IsNaN(re) && !math.IsNaN(im) && !math.IsInf(re, 0) && !math.IsInf(im, 0)
}

// Current is the solved current through c, in the reference direction of
// this view. Views of opposite orientation read opposite signs.
func (c *Component) Current() complex128 { return c.current * complex(c.Sign(), 0) }

// Voltage is the solved voltage across c, in the reference direction of
// this view.
func (c *Component) Voltage() complex128 { return c.voltage * complex(c.Sign(), 0) }

// Solved reports whether a solve has written results.
func (c *Component) Solved() bool { return c.solved }

// SetState stores results given in the orientation of view c.
func (c *Component) SetState(current, voltage complex128) {
	s := complex(c.Sign(), 0)
	c.current = current * s
	c.voltage = voltage * s
	c.solved = true
}

// Reset forgets the solved state.
func (c *Component) Reset() {
	c.current, c.voltage, c.solved = 0, 0, false
}

func (c *Component) String() string {
	prefix := ""
	if c.reversed {
		prefix = "~"
	}
	return fmt.Sprintf("%s%s(%v)", prefix, c.label, c.value)
}

func newValued(label string, kind Kind, value float64, prefixes []unit.Prefix) *Component {
	return newComponent(label, kind, complex(unit.Resolve(value, prefixes...), 0))
}
