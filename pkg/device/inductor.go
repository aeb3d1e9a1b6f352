package device

import "github.com/edp1096/circuit-solver/pkg/unit"

func NewInductor(label string, value float64, prefix ...unit.Prefix) *Component {
	return newValued(label, Inductor, value, prefix)
}

// Z = jωL, a short at DC
func inductorImpedance(value complex128, omega float64) complex128 {
	return complex(0, omega) * value
}
