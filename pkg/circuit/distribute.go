package circuit

import (
	"github.com/edp1096/circuit-solver/pkg/device"
	"github.com/edp1096/circuit-solver/pkg/field"
	"github.com/edp1096/circuit-solver/pkg/matrix"
)

// componentResult is the current through and voltage across one wired
// component, in the reference direction of its branch.
type componentResult[T any] struct {
	comp    *device.Component
	current T
	voltage T
}

type solution[T any] struct {
	omega    float64
	nodes    []T // by node index, reference first
	currents []T // by branch
	results  []componentResult[T]
}

// distribute turns the solved unknowns into branch currents and per
// component voltages.
func distribute[T field.Scalar[T]](c *Circuit, lay *layout, sys matrix.System[T], v values[T]) *solution[T] {
	zero := field.Zero[T]()
	sol := &solution[T]{
		omega:    lay.omega,
		nodes:    make([]T, len(c.nodeMap)),
		currents: make([]T, len(c.info)),
	}
	sol.nodes[0] = zero
	for i := 1; i < len(sol.nodes); i++ {
		sol.nodes[i] = sys.Solution(i)
	}

	for i := range c.info {
		info := &c.info[i]
		vab := sol.nodes[info.a].Sub(sol.nodes[info.b])

		current := zero
		switch lay.class[i] {
		case admittanceBranch:
			current = vab.Div(v.seriesImpedance(info, lay.omega))
		case shortBranch:
			current = sys.Solution(lay.aux[i])
		case voltageBranch:
			if !lay.open[i] {
				current = sys.Solution(lay.aux[i])
			}
		case currentBranch:
			current = v.signed(info.isource)
		}
		sol.currents[i] = current

		comps := c.branches[i].Components
		volts := make([]T, len(comps))
		known := zero
		var rest []int // current source or open components take what is left of vab
		for k, comp := range comps {
			switch {
			case comp.Kind() == device.VoltageSource:
				volts[k] = v.signed(comp)
			case comp.Kind() == device.CurrentSource || comp.IsOpen(lay.omega):
				rest = append(rest, k)
				continue
			default:
				volts[k] = v.impedance(comp, lay.omega).Mul(current)
			}
			known = known.Add(volts[k])
		}
		splitRemainder(vab.Sub(known), comps, rest, volts, v)

		for k, comp := range comps {
			sol.results = append(sol.results, componentResult[T]{comp: comp, current: current, voltage: volts[k]})
		}
	}
	return sol
}

// splitRemainder shares the branch voltage not dropped elsewhere among the
// components in rest. Open capacitors divide it like a capacitive divider,
// in proportion to 1/C; zero capacitances take it in equal parts.
func splitRemainder[T field.Scalar[T]](remainder T, comps []*device.Component, rest []int, volts []T, v values[T]) {
	switch len(rest) {
	case 0:
		return
	case 1:
		volts[rest[0]] = remainder
		return
	}

	zero := field.Zero[T]()
	var zeroCap []int
	for _, k := range rest {
		if comps[k].Value() == 0 {
			zeroCap = append(zeroCap, k)
		}
	}
	if len(zeroCap) > 0 {
		share := remainder.Div(zero.Lift(complex(float64(len(zeroCap)), 0)))
		for _, k := range rest {
			volts[k] = zero
		}
		for _, k := range zeroCap {
			volts[k] = share
		}
		return
	}

	one := field.One[T]()
	weights := make([]T, len(rest))
	total := zero
	for n, k := range rest {
		weights[n] = one.Div(v.of(comps[k]))
		total = total.Add(weights[n])
	}
	for n, k := range rest {
		volts[k] = remainder.Mul(weights[n]).Div(total)
	}
}

// apply writes the primal part of sol into the circuit and its components.
func apply[T field.Scalar[T]](c *Circuit, sol *solution[T]) {
	c.omega = sol.omega
	c.voltages = make([]complex128, len(sol.nodes))
	for i, x := range sol.nodes {
		c.voltages[i] = x.Value()
	}
	c.currents = make([]complex128, len(sol.currents))
	for i, x := range sol.currents {
		c.currents[i] = x.Value()
	}
	for _, r := range sol.results {
		r.comp.SetState(r.current.Value(), r.voltage.Value())
	}
	c.solved = true
}
