package device

import "github.com/edp1096/circuit-solver/pkg/unit"

func NewResistor(label string, value float64, prefix ...unit.Prefix) *Component {
	return newValued(label, Resistor, value, prefix)
}

func resistorImpedance(value complex128) complex128 {
	return value
}
