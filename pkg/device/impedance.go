package device

import "github.com/edp1096/circuit-solver/pkg/unit"

// NewImpedance creates a frequency independent complex impedance.
func NewImpedance(label string, value complex128, prefix ...unit.Prefix) *Component {
	return newComponent(label, Impedance, unit.ResolveComplex(value, prefix...))
}
