package device

import (
	"math/cmplx"
	"testing"

	"github.com/edp1096/circuit-solver/pkg/field"
	"github.com/edp1096/circuit-solver/pkg/unit"
)

func TestImpedance(t *testing.T) {
	const omega = 1e4
	tests := []struct {
		c    *Component
		want complex128
	}{
		{NewResistor("R1", 100), 100},
		{NewResistor("R2", 4.7, unit.Kilo), 4700},
		{NewInductor("L1", 1, unit.Milli), 10i},
		{NewCapacitor("C1", 1, unit.Micro), -100i},
		{NewImpedance("Z1", 5-4i), 5 - 4i},
		{NewVoltageSource("E1", 12), 0},
	}
	for _, tt := range tests {
		if got := tt.c.Impedance(omega); cmplx.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s.Impedance() = %v, want %v", tt.c.Label(), got, tt.want)
		}
	}
}

func TestDCLimits(t *testing.T) {
	c := NewCapacitor("C1", 1e-6)
	if !c.IsOpen(0) || !cmplx.IsInf(c.Impedance(0)) {
		t.Error("capacitor must be open at DC")
	}
	if c.IsOpen(1) {
		t.Error("capacitor must conduct at ω > 0")
	}
	if z := NewInductor("L1", 1e-3).Impedance(0); z != 0 {
		t.Errorf("inductor at DC = %v, want short", z)
	}
	if !cmplx.IsInf(NewCurrentSource("J1", 1).Impedance(0)) {
		t.Error("current source must have infinite impedance")
	}
	if !NewCapacitor("C0", 0).IsOpen(50) {
		t.Error("zero capacitance must be open")
	}
}

func TestImpedanceOfMatchesImpedance(t *testing.T) {
	const omega = 377
	for _, c := range []*Component{
		NewResistor("R", 10),
		NewInductor("L", 0.2),
		NewCapacitor("C", 3e-5),
		NewImpedance("Z", 1+2i),
	} {
		got := ImpedanceOf(c, omega, field.Complex(c.Value()))
		if cmplx.Abs(complex128(got)-c.Impedance(omega)) > 1e-9 {
			t.Errorf("%s: ImpedanceOf = %v, Impedance = %v", c.Label(), got, c.Impedance(omega))
		}
	}
}

func TestReverse(t *testing.T) {
	e := NewVoltageSource("E1", 1)
	r := e.Reverse()

	if e.Reversed() {
		t.Fatal("Reverse mutated the original")
	}
	if !r.Reversed() || !r.SameElement(e) {
		t.Fatal("reversed view must share the element")
	}
	if r.SignedValue() != -1 || e.SignedValue() != 1 {
		t.Errorf("signed values %v %v", e.SignedValue(), r.SignedValue())
	}
	rr := r.Reverse()
	if rr.Reversed() != e.Reversed() || rr.SignedValue() != e.SignedValue() {
		t.Error("double reversal must restore orientation")
	}

	r.SetState(2e-3, -1)
	if e.Current() != -2e-3 || e.Voltage() != 1 {
		t.Errorf("original reads I=%v V=%v", e.Current(), e.Voltage())
	}
	if rr.Current() != e.Current() {
		t.Error("double reversed view reads a different current")
	}

	r.SetValue(5)
	if e.Value() != 5 {
		t.Error("SetValue must reach every view")
	}
}

func TestMeters(t *testing.T) {
	a := NewAmmeter("A1")
	if a.Kind() != VoltageSource || a.Value() != 0 {
		t.Errorf("ammeter = %v", a)
	}
	v := NewVoltmeter("VM")
	if v.Kind() != CurrentSource || v.Value() != 0 {
		t.Errorf("voltmeter = %v", v)
	}
	if p := Phasor(2, 90); cmplx.Abs(p-2i) > 1e-12 {
		t.Errorf("Phasor(2, 90) = %v", p)
	}
}
