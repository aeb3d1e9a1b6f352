package circuit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/circuit-solver/pkg/device"
	"github.com/edp1096/circuit-solver/pkg/field"
	"github.com/edp1096/circuit-solver/pkg/matrix"
)

type branchClass int

const (
	admittanceBranch branchClass = iota // passive chain stamped as 1/Z
	shortBranch                         // passive chain with Z ≈ 0, solved through an aux current
	openBranch                          // carries no current at this ω
	currentBranch                       // current source, injected into the rhs
	voltageBranch                       // voltage source with its aux current
)

func (bc branchClass) String() string {
	return [...]string{"admittance", "short", "open", "current", "voltage"}[bc]
}

// tiesNodes reports whether the branch constrains the potential difference
// between its nodes.
func (bc branchClass) tiesNodes() bool {
	return bc == admittanceBranch || bc == shortBranch || bc == voltageBranch
}

// layout is the per-frequency shape of the MNA system.
type layout struct {
	omega float64
	class []branchClass
	open  []bool // voltage branch blocked by an open component
	aux   []int
	size  int
}

// plan classifies the branches at omega and numbers the unknowns. Short
// branches get aux unknowns after the voltage source currents.
func (c *Circuit) plan(omega float64) (*layout, error) {
	lay := &layout{
		omega: omega,
		class: make([]branchClass, len(c.info)),
		open:  make([]bool, len(c.info)),
		aux:   make([]int, len(c.info)),
	}
	next := len(c.nodeMap) + c.numAux

	for i := range c.info {
		info := &c.info[i]
		open := info.openComponents(omega)

		switch {
		case info.isource != nil:
			if len(open) > 0 {
				return nil, fmt.Errorf("%w: current source %s in series with %s, open at ω=%g",
					ErrInvalidBranch, info.isource.Label(), open[0].Label(), omega)
			}
			lay.class[i] = currentBranch
		case info.vsource != nil:
			lay.class[i] = voltageBranch
			lay.open[i] = len(open) > 0
			lay.aux[i] = info.aux
		case len(open) > 0 || info.a == info.b:
			lay.class[i] = openBranch
		case c.isShort(info, omega):
			lay.class[i] = shortBranch
			lay.aux[i] = next
			next++
		default:
			lay.class[i] = admittanceBranch
		}
	}
	lay.size = next - 1
	return lay, nil
}

func (c *Circuit) isShort(info *branchInfo, omega float64) bool {
	var sum complex128
	var mag float64
	for _, comp := range info.passives {
		z := comp.Impedance(omega)
		sum += z
		mag += cmplx.Abs(z)
	}
	return cmplx.Abs(sum) <= c.opts.shortTol*mag
}

// values resolves component values in T, seeding one element as the
// differentiation variable.
type values[T field.Scalar[T]] struct {
	seed *device.Component
}

func (v values[T]) of(comp *device.Component) T {
	var z T
	if v.seed != nil && comp.SameElement(v.seed) {
		return z.Variable(comp.Value())
	}
	return z.Lift(comp.Value())
}

// signed is a source value seen along the branch direction.
func (v values[T]) signed(comp *device.Component) T {
	x := v.of(comp)
	if comp.Reversed() {
		return x.Neg()
	}
	return x
}

func (v values[T]) impedance(comp *device.Component, omega float64) T {
	return device.ImpedanceOf(comp, omega, v.of(comp))
}

func (v values[T]) seriesImpedance(info *branchInfo, omega float64) T {
	sum := field.Zero[T]()
	for _, comp := range info.passives {
		sum = sum.Add(v.impedance(comp, omega))
	}
	return sum
}

// shortImpedance drops the value of a series impedance that cancels to
// rounding noise and keeps its derivative part.
func shortImpedance[T field.Scalar[T]](z T) T {
	return z.Sub(z.Lift(z.Value()))
}

func stampAdmittance[T field.Scalar[T]](m matrix.DeviceMatrix[T], n1, n2 int, y T) {
	if n1 != 0 {
		m.AddElement(n1, n1, y)
		if n2 != 0 {
			m.AddElement(n1, n2, y.Neg())
		}
	}
	if n2 != 0 {
		m.AddElement(n2, n2, y)
		if n1 != 0 {
			m.AddElement(n2, n1, y.Neg())
		}
	}
}

// stampCurrent injects i flowing from n1 to n2 through the branch.
func stampCurrent[T field.Scalar[T]](m matrix.DeviceMatrix[T], n1, n2 int, i T) {
	if n1 != 0 {
		m.AddRHS(n1, i.Neg())
	}
	if n2 != 0 {
		m.AddRHS(n2, i)
	}
}

// stampBranchCurrent adds the aux unknown k for the branch current from n1
// to n2 with the row V(n1) - V(n2) - z·I = emf.
func stampBranchCurrent[T field.Scalar[T]](m matrix.DeviceMatrix[T], n1, n2, k int, z, emf T) {
	one := field.One[T]()
	if n1 != 0 {
		m.AddElement(n1, k, one)
		m.AddElement(k, n1, one)
	}
	if n2 != 0 {
		m.AddElement(n2, k, one.Neg())
		m.AddElement(k, n2, one.Neg())
	}
	m.AddElement(k, k, z.Neg())
	m.AddRHS(k, emf)
}

// stampOpenBranch forces the aux current k to zero.
func stampOpenBranch[T field.Scalar[T]](m matrix.DeviceMatrix[T], n1, n2, k int) {
	one := field.One[T]()
	if n1 != 0 {
		m.AddElement(n1, k, one)
	}
	if n2 != 0 {
		m.AddElement(n2, k, one.Neg())
	}
	m.AddElement(k, k, one)
}

func stampAll[T field.Scalar[T]](c *Circuit, m matrix.DeviceMatrix[T], lay *layout, v values[T]) {
	for i := range c.info {
		info := &c.info[i]
		switch lay.class[i] {
		case admittanceBranch:
			y := field.One[T]().Div(v.seriesImpedance(info, lay.omega))
			stampAdmittance(m, info.a, info.b, y)
		case shortBranch:
			z := shortImpedance(v.seriesImpedance(info, lay.omega))
			stampBranchCurrent(m, info.a, info.b, lay.aux[i], z, field.Zero[T]())
		case currentBranch:
			stampCurrent(m, info.a, info.b, v.signed(info.isource))
		case voltageBranch:
			if lay.open[i] {
				stampOpenBranch[T](m, info.a, info.b, lay.aux[i])
				continue
			}
			z := v.seriesImpedance(info, lay.omega)
			if c.isShort(info, lay.omega) {
				z = shortImpedance(z)
			}
			stampBranchCurrent(m, info.a, info.b, lay.aux[i], z, v.signed(info.vsource))
		}
	}
}

// run assembles, solves and back-substitutes the circuit at status.Omega
// in T. Components are not touched.
func run[T field.Scalar[T]](c *Circuit, status *device.CircuitStatus, seed *device.Component,
	newSystem func(size int) (matrix.System[T], error)) (*solution[T], error) {

	omega := status.Omega
	if math.IsNaN(omega) || math.IsInf(omega, 0) || omega < 0 {
		return nil, fmt.Errorf("invalid angular frequency %g", omega)
	}

	lay, err := c.plan(omega)
	if err != nil {
		return nil, err
	}
	if floating := c.floatingNodes(lay); len(floating) > 0 {
		return nil, fmt.Errorf("%w: nodes %v are not connected to reference %s at ω=%g",
			ErrSingularSystem, floating, c.reference, omega)
	}

	sys, err := newSystem(lay.size)
	if err != nil {
		return nil, err
	}
	defer sys.Destroy()

	v := values[T]{seed: seed}
	stampAll(c, sys, lay, v)

	c.logger.Debug("solving",
		"circuit", c.id,
		"mode", status.Mode,
		"omega", omega,
		"size", lay.size,
		"backend", c.opts.backend)

	if err := sys.Solve(); err != nil {
		return nil, fmt.Errorf("%w at ω=%g: %w", ErrSingularSystem, omega, err)
	}

	return distribute(c, lay, sys, v), nil
}
