package device

import "github.com/edp1096/circuit-solver/pkg/unit"

// NewCurrentSource creates an ideal source driving value through its
// branch from the first node to the second when wired unreversed.
func NewCurrentSource(label string, value complex128, prefix ...unit.Prefix) *Component {
	return newComponent(label, CurrentSource, unit.ResolveComplex(value, prefix...))
}

func NewACCurrentSource(label string, mag, phaseDeg float64) *Component {
	return NewCurrentSource(label, Phasor(mag, phaseDeg))
}

// NewVoltmeter creates a 0 A source. Wired between two nodes its voltage
// is the potential difference between them.
func NewVoltmeter(label string) *Component {
	return NewCurrentSource(label, 0)
}
