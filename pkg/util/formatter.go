package util

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/circuit-solver/pkg/unit"
)

// FormatValueFactor scales value to its SI prefix: 0.02 A -> "20.000 mA".
func FormatValueFactor(value float64, unitName string) string {
	p := unit.Nearest(value)
	return fmt.Sprintf("%.3f %s%s", value/p.Scale(), p, unitName)
}

// FormatFrequency writes a fixed width frequency column between Hz and GHz.
func FormatFrequency(freq float64) string {
	p := unit.NearestBetween(freq, unit.Giga, unit.None)
	return fmt.Sprintf("%7.3f %-3s", freq/p.Scale(), p.String()+"Hz")
}

func FormatMagnitudePhase(name string, value, phase float64) string {
	return fmt.Sprintf("%s=%s<%sdeg", name, FormatMagnitude(value), FormatPhase(phase))
}

func FormatMagnitude(value float64) string {
	if value >= 1000 || (value < 0.001 && value != 0) {
		return fmt.Sprintf("%8.2e", value) // "1.00e+03" or "5.43e-05"
	}
	return fmt.Sprintf("%8.3g", value) // "     0.5"
}

func FormatPhase(value float64) string {
	return fmt.Sprintf("%6.1f", value) // "  90.0"
}

// Degrees is the phase angle of a phasor in degrees.
func Degrees(value complex128) float64 {
	return cmplx.Phase(value) * 180 / math.Pi
}

// Decibels is 20·log10 of a magnitude, floored at -300 dB.
func Decibels(mag float64) float64 {
	return 20 * math.Log10(max(mag, 1e-15))
}

// FormatPhasor prints a complex value as magnitude and phase in degrees.
// Values with no imaginary part keep their sign.
func FormatPhasor(value complex128, unitName string) string {
	if imag(value) == 0 {
		return FormatValueFactor(real(value), unitName)
	}
	return fmt.Sprintf("%s<%sdeg", FormatValueFactor(cmplx.Abs(value), unitName), FormatPhase(Degrees(value)))
}
