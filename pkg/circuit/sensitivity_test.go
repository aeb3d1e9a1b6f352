package circuit

import (
	"errors"
	"testing"

	"github.com/edp1096/circuit-solver/pkg/device"
	"github.com/edp1096/circuit-solver/pkg/unit"
)

func TestSensitivityReadme(t *testing.T) {
	r := newReadme()
	ckt, err := New(r.branches)
	if err != nil {
		t.Fatal(err)
	}

	// I(R4) = (1 + E1) / (100 + R4)
	sens, err := ckt.Sensitivity(0, r.r4)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "dI(R4)/dR4", sens["R4"].Current, -2.0/(150*150))
	approx(t, "dI(R3)/dR4", sens["R3"].Current, 0)

	// primal results are written like Solve
	approx(t, "I(R4)", r.r4.Current(), 40e-3/3)

	sens, err = ckt.Sensitivity(0, r.e1)
	if err != nil {
		t.Fatal(err)
	}
	approx(t, "dI(R4)/dE1", sens["R4"].Current, 1.0/150)
	approx(t, "dV(E1)/dE1", sens["E1"].Voltage, 1)
	approx(t, "dI(J1)/dE1", sens["J1"].Current, 0)
}

func TestSensitivityMatchesAnalytic(t *testing.T) {
	const omega = 1e4
	e := device.NewVoltageSource("E", 12)
	r := device.NewResistor("R", 100)
	l := device.NewInductor("L", 1, unit.Milli)
	c := device.NewCapacitor("C", 1, unit.Micro)
	ckt, err := New([]*Branch{
		NewBranch("1", "2", e),
		NewBranch("1", "2", r, l, c),
	})
	if err != nil {
		t.Fatal(err)
	}

	z := 100 - 90i
	jw := complex(0, omega)
	tests := []struct {
		wrt  *device.Component
		want complex128 // dI(R)/d(wrt)
	}{
		{r, -12 / (z * z)},
		{l, -12 / (z * z) * jw},
		{c, 12 / (z * z * jw * 1e-12)},
		{e, 1 / z},
	}
	for _, tt := range tests {
		sens, err := ckt.Sensitivity(omega, tt.wrt)
		if err != nil {
			t.Fatal(err)
		}
		approx(t, "dI(R)/d"+tt.wrt.Label(), sens["R"].Current, tt.want)
	}
}

func TestSensitivityFiniteDifference(t *testing.T) {
	const omega = 2e3
	newCircuit := func() (*Circuit, *device.Component, *device.Component) {
		l := device.NewInductor("L", 20, unit.Milli)
		out := device.NewResistor("RL", 50)
		ckt, err := New([]*Branch{
			NewBranch("0", "in", device.NewACVoltageSource("V", 1, 30).Reverse()),
			NewBranch("in", "mid", device.NewResistor("RS", 10)),
			NewBranch("mid", "0", device.NewCapacitor("C", 4.7, unit.Micro)),
			NewBranch("mid", "out", l),
			NewBranch("out", "0", out),
		})
		if err != nil {
			t.Fatal(err)
		}
		return ckt, l, out
	}

	ckt, l, out := newCircuit()
	sens, err := ckt.Sensitivity(omega, l)
	if err != nil {
		t.Fatal(err)
	}

	const h = 1e-7
	value := l.Value()
	l.SetValue(value + h)
	if err := ckt.Solve(omega); err != nil {
		t.Fatal(err)
	}
	up := out.Voltage()
	l.SetValue(value - h)
	if err := ckt.Solve(omega); err != nil {
		t.Fatal(err)
	}
	down := out.Voltage()

	fd := (up - down) / (2 * h)
	got := sens["RL"].Voltage
	if d := got - fd; real(d)*real(d)+imag(d)*imag(d) > 1e-10*(real(fd)*real(fd)+imag(fd)*imag(fd)) {
		t.Errorf("dV(RL)/dL = %v, finite difference %v", got, fd)
	}
}

func TestSensitivityUnknownComponent(t *testing.T) {
	ckt, err := New(newReadme().branches)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ckt.Sensitivity(0, device.NewResistor("R4", 50)); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign component: err = %v", err)
	}
	if _, err := ckt.Sensitivity(0, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("nil component: err = %v", err)
	}
}

func TestBackendsAgree(t *testing.T) {
	build := func(backend Backend) (*Circuit, []*device.Component) {
		comps := []*device.Component{
			device.NewACVoltageSource("V1", 5, 0),
			device.NewResistor("R1", 1, unit.Kilo),
			device.NewCapacitor("C1", 100, unit.Nano),
			device.NewInductor("L1", 10, unit.Milli),
			device.NewImpedance("Z1", 300+40i),
			device.NewACCurrentSource("I1", 1e-3, 45),
		}
		ckt, err := New([]*Branch{
			NewBranch("a", "0", comps[0]),
			NewBranch("a", "b", comps[1]),
			NewBranch("b", "0", comps[2]),
			NewBranch("b", "c", comps[3], comps[4]),
			NewBranch("0", "c", comps[5]),
		}, WithBackend(backend), WithReference("0"))
		if err != nil {
			t.Fatal(err)
		}
		return ckt, comps
	}

	sparse, sc := build(SparseBackend)
	dense, dc := build(DenseBackend)
	for _, omega := range []float64{0, 1e3, 1e5} {
		if err := sparse.Solve(omega); err != nil {
			t.Fatal(err)
		}
		if err := dense.Solve(omega); err != nil {
			t.Fatal(err)
		}
		for k := range sc {
			approx(t, "I("+sc[k].Label()+")", sc[k].Current(), dc[k].Current())
			approx(t, "V("+sc[k].Label()+")", sc[k].Voltage(), dc[k].Voltage())
		}
	}
}
