package util

import (
	"math"
	"testing"
)

func TestFormatValueFactor(t *testing.T) {
	tests := []struct {
		value float64
		unit  string
		want  string
	}{
		{0, "V", "0.000 V"},
		{3, "V", "3.000 V"},
		{-1, "V", "-1.000 V"},
		{4.7e3, "Ohm", "4.700 kOhm"},
		{2e6, "Hz", "2.000 MHz"},
		{0.02, "A", "20.000 mA"},
		{-1e-5, "A", "-10.000 uA"},
		{3.3e-9, "F", "3.300 nF"},
		{5e-12, "F", "5.000 pF"},
		{1e-15, "F", "1.000 fF"},
		{1e-3, "s", "1.000 ms"},
		{-2.5e9, "Hz", "-2.500 GHz"},
	}
	for _, tt := range tests {
		if got := FormatValueFactor(tt.value, tt.unit); got != tt.want {
			t.Errorf("FormatValueFactor(%g, %s) = %q, want %q", tt.value, tt.unit, got, tt.want)
		}
	}
}

func TestFormatFrequency(t *testing.T) {
	tests := map[float64]string{
		10:    " 10.000 Hz ",
		1.5e3: "  1.500 kHz",
		2e6:   "  2.000 MHz",
		0.5:   "  0.500 Hz ",
		3e12:  "3000.000 GHz",
	}
	for f, want := range tests {
		if got := FormatFrequency(f); got != want {
			t.Errorf("FormatFrequency(%g) = %q, want %q", f, got, want)
		}
	}
}

func TestFormatPhasor(t *testing.T) {
	if got := FormatPhasor(-2, "V"); got != "-2.000 V" {
		t.Errorf("real phasor = %q", got)
	}
	if got := FormatPhasor(complex(0, 0.5), "A"); got != "500.000 mA<  90.0deg" {
		t.Errorf("imaginary phasor = %q", got)
	}
}

func TestFormatMagnitudePhase(t *testing.T) {
	if got := FormatMagnitudePhase("V(out)", 0.5, -45); got != "V(out)=     0.5< -45.0deg" {
		t.Errorf("got %q", got)
	}
	if got := FormatMagnitude(5e-5); got != "5.00e-05" {
		t.Errorf("FormatMagnitude = %q", got)
	}
}

func TestDegreesDecibels(t *testing.T) {
	if got := Degrees(complex(1, -1)); math.Abs(got+45) > 1e-12 {
		t.Errorf("Degrees(1-1i) = %g", got)
	}
	if got := Decibels(1 / math.Sqrt2); math.Abs(got+3.0103) > 1e-4 {
		t.Errorf("Decibels(1/√2) = %g", got)
	}
	if got := Decibels(0); math.Abs(got+300) > 1e-9 {
		t.Errorf("Decibels(0) = %g", got)
	}
}
