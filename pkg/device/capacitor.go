package device

import "github.com/edp1096/circuit-solver/pkg/unit"

func NewCapacitor(label string, value float64, prefix ...unit.Prefix) *Component {
	return newValued(label, Capacitor, value, prefix)
}

// Z = 1/(jωC)
func capacitorImpedance(value complex128, omega float64) complex128 {
	return 1 / (complex(0, omega) * value)
}
