package circuit

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/edp1096/circuit-solver/pkg/device"
	"github.com/edp1096/circuit-solver/pkg/unit"
)

func solveNetwork(t *testing.T, p device.Part, omega float64, backend Backend) *Circuit {
	t.Helper()
	ckt, err := FromNetwork(p, WithBackend(backend))
	if err != nil {
		t.Fatal(err)
	}
	if err := ckt.Solve(omega); err != nil {
		t.Fatal(err)
	}
	return ckt
}

func TestSimpleSeriesNetwork(t *testing.T) {
	for _, backend := range []Backend{SparseBackend, DenseBackend} {
		t.Run(backend.String(), func(t *testing.T) {
			r1 := device.NewResistor("R1", 100)
			e1 := device.NewVoltageSource("E1", 12)
			solveNetwork(t, device.Series(e1.Reverse(), r1), 0, backend)

			approx(t, "V(R1)", r1.Voltage(), 12)
			approx(t, "I(R1)", r1.Current(), 12.0/100)
		})
	}
}

func TestSimpleParallelNetwork(t *testing.T) {
	for _, backend := range []Backend{SparseBackend, DenseBackend} {
		t.Run(backend.String(), func(t *testing.T) {
			r1 := device.NewResistor("R1", 100)
			r2 := device.NewResistor("R2", 400)
			ne1 := device.NewVoltageSource("E1", 100).Reverse()
			solveNetwork(t, device.Series(ne1, device.Parallel(r1, r2)), 0, backend)

			approx(t, "I(E1)", ne1.Current(), 100*(1.0/100+1.0/400))
			approx(t, "V(R1)", r1.Voltage(), 100)
			approx(t, "V(R2)", r2.Voltage(), 100)
		})
	}
}

func TestRLCNetwork(t *testing.T) {
	const omega = 1e4
	r := device.NewResistor("R", 100)
	l := device.NewInductor("L", 1, unit.Milli)
	c := device.NewCapacitor("C", 1, unit.Micro)
	ne := device.NewVoltageSource("E", 12).Reverse()
	solveNetwork(t, device.Series(ne, r, l, c), omega, SparseBackend)

	want := 12 / complex(100, -90)
	approx(t, "I(R)", r.Current(), want)
	approx(t, "I(E)", ne.Current(), want)
	approx(t, "V(L)", l.Voltage(), complex(0, omega*1e-3)*want)
}

// The README circuit written as nested networks instead of branches.
func TestReactiveFreeNetwork(t *testing.T) {
	for _, backend := range []Backend{SparseBackend, DenseBackend} {
		t.Run(backend.String(), func(t *testing.T) {
			r := newReadme()
			b1 := device.Series(r.j1, r.r1)
			b2 := device.Series(r.r4, r.ne1)
			b3 := device.Series(r.r3, device.Parallel(b2, r.r5), r.j2)
			solveNetwork(t, device.Parallel(b1, r.r2, b3), 0, backend)

			tests := []struct {
				c    *device.Component
				i, v complex128
			}{
				{r.r1, 20e-3, 4},
				{r.j1, 20e-3, -7},
				{r.r2, -30e-3, -3},
				{r.r3, 10e-3, 1},
				{r.r4, 40e-3 / 3, 2.0 / 3},
				{r.ne1, 40e-3 / 3, -1},
				{r.r5, -10e-3 / 3, -1.0 / 3},
				{r.j2, 10e-3, -11.0 / 3},
			}
			for _, tt := range tests {
				approx(t, "I("+tt.c.Label()+")", tt.c.Current(), tt.i)
				approx(t, "V("+tt.c.Label()+")", tt.c.Voltage(), tt.v)
			}
		})
	}
}

func TestMiticNetwork(t *testing.T) {
	xc := device.NewImpedance("X_C", complex(0, -4))
	xl1 := device.NewImpedance("X_L1", complex(0, 2))
	xl2 := device.NewImpedance("X_L2", complex(0, 2))
	r1 := device.NewResistor("R1", 5)
	r2 := device.NewResistor("R2", 5)
	ne1 := device.NewVoltageSource("E1", 10).Reverse()

	net := device.Series(ne1, xl1, device.Parallel(r1, device.Series(xc, device.Parallel(xl2, r2))))
	solveNetwork(t, net, 0, DenseBackend)

	ratio := ne1.Current() / r2.Current()
	if math.Abs(cmplx.Abs(ratio)-3.3) > 1e-9 {
		t.Errorf("|I1/I2| = %g, want 3.3", cmplx.Abs(ratio))
	}
	if math.Abs(cmplx.Phase(ratio)+math.Pi/2) > 1e-9 {
		t.Errorf("arg(I1/I2) = %g, want -π/2", cmplx.Phase(ratio))
	}
}

func TestExpandNodes(t *testing.T) {
	r1 := device.NewResistor("R1", 1)
	r2 := device.NewResistor("R2", 2)
	r3 := device.NewResistor("R3", 3)
	r4 := device.NewResistor("R4", 4)
	r5 := device.NewResistor("R5", 5)

	branches, err := Expand(device.Series(r1, device.Parallel(r2, device.Series(r3, r4)), r5), "in", "out")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		a, b  string
		parts int
	}{
		{"in", "R5:R2", 2},
		{"R5:R2", "out", 1},
		{"R5:R2", "out", 2},
	}
	if len(branches) != len(want) {
		t.Fatalf("%d branches: %v", len(branches), branches)
	}
	for i, br := range branches {
		if br.NodeA != want[i].a || br.NodeB != want[i].b || len(br.Components) != want[i].parts {
			t.Errorf("branch %d = %s, want %s-%s with %d parts", i, br, want[i].a, want[i].b, want[i].parts)
		}
	}

	// Nested series of the same kind merge into one chain.
	branches, err = Expand(device.Series(device.Series(r1, r2), r3), "x", "y")
	if err != nil {
		t.Fatal(err)
	}
	if len(branches) != 1 || len(branches[0].Components) != 3 {
		t.Errorf("merged series = %v", branches)
	}

	// A reversed network swaps its terminals.
	branches, err = Expand(device.Parallel(r1, r2).Reverse(), "x", "y")
	if err != nil {
		t.Fatal(err)
	}
	for _, br := range branches {
		if br.NodeA != "y" || br.NodeB != "x" {
			t.Errorf("reversed parallel branch %s", br)
		}
	}
}

func TestNetworkErrors(t *testing.T) {
	tests := []struct {
		name string
		part func() device.Part
		want error
	}{
		{"current sources in series", func() device.Part {
			return device.Series(device.NewCurrentSource("J1", 1), device.NewResistor("R", 1), device.NewCurrentSource("J2", 1))
		}, ErrInvalidBranch},
		{"merged current sources in series", func() device.Part {
			return device.Series(device.Series(device.NewCurrentSource("J1", 1), device.NewResistor("R", 1)), device.NewCurrentSource("J2", 1))
		}, ErrInvalidBranch},
		{"voltage sources in parallel", func() device.Part {
			return device.Parallel(device.NewVoltageSource("E1", 1), device.NewVoltageSource("E2", 2))
		}, ErrInvalidBranch},
		{"empty network", func() device.Part {
			return device.Series(device.NewResistor("R", 1), device.Parallel())
		}, ErrInvalidBranch},
		{"nil part", func() device.Part { return nil }, ErrInvalidBranch},
		{"component twice", func() device.Part {
			r := device.NewResistor("R", 1)
			return device.Parallel(r, device.Series(device.NewResistor("R2", 1), r.Reverse()))
		}, ErrTopology},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromNetwork(tt.part())
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	// Current sources in parallel and voltage sources in series through
	// nested networks are fine.
	ok := device.Parallel(
		device.Series(device.NewCurrentSource("J1", 1), device.NewResistor("R1", 1)),
		device.Series(device.NewCurrentSource("J2", 2), device.NewResistor("R2", 1)),
		device.NewResistor("R3", 1),
	)
	if _, err := FromNetwork(ok); err != nil {
		t.Errorf("parallel current sources: %v", err)
	}
}

func TestNetworkString(t *testing.T) {
	e := device.NewVoltageSource("E", 1)
	r := device.NewResistor("R", 2)
	got := device.Series(e.Reverse(), device.Parallel(r, device.NewResistor("S", 3))).Reverse().String()
	want := "~(~E((1+0i)) & (R((2+0i)) | S((3+0i))))"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
