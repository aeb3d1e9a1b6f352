package device

import (
	"math"
	"math/cmplx"

	"github.com/edp1096/circuit-solver/pkg/unit"
)

// NewVoltageSource creates an ideal source. Wired unreversed alone in a
// branch a -> b it holds V(a) - V(b) = value.
func NewVoltageSource(label string, value complex128, prefix ...unit.Prefix) *Component {
	return newComponent(label, VoltageSource, unit.ResolveComplex(value, prefix...))
}

// NewACVoltageSource creates a source from magnitude and phase in degrees.
func NewACVoltageSource(label string, mag, phaseDeg float64) *Component {
	return NewVoltageSource(label, Phasor(mag, phaseDeg))
}

// NewAmmeter creates a 0 V source. Wired into a branch it reads the branch
// current without disturbing the circuit.
func NewAmmeter(label string) *Component {
	return NewVoltageSource(label, 0)
}

// Phasor converts magnitude and phase in degrees to a complex amplitude.
func Phasor(mag, phaseDeg float64) complex128 {
	return cmplx.Rect(mag, phaseDeg*math.Pi/180.0)
}
