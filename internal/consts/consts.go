package consts

const (
	SINGULAR_TOL = 1e-10 // Relative pivot tolerance for singular systems
	SHORT_TOL    = 1e-12 // Relative impedance below which a passive branch is a short
	TWO_PI       = 6.283185307179586
)

// Node labels taken as the reference node by the netlist parser.
var GroundNames = []string{"0", "gnd", "GND"}
