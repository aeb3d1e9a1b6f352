// Package unit holds the SI prefixes component values are written with.
package unit

import (
	"fmt"
	"math"
)

// Prefix is an SI multiplier applied to a component value.
type Prefix int

const (
	Yotta Prefix = iota
	Zetta
	Exa
	Peta
	Tera
	Giga
	Mega
	Kilo
	None
	Milli
	Micro
	Nano
	Pico
	Femto
	Atto
	Zepto
	Yocto
)

var prefixTable = [...]struct {
	symbol string
	scale  float64
}{
	Yotta: {"Y", 1e24},
	Zetta: {"Z", 1e21},
	Exa:   {"E", 1e18},
	Peta:  {"P", 1e15},
	Tera:  {"T", 1e12},
	Giga:  {"G", 1e9},
	Mega:  {"M", 1e6},
	Kilo:  {"k", 1e3},
	None:  {"", 1},
	Milli: {"m", 1e-3},
	Micro: {"u", 1e-6},
	Nano:  {"n", 1e-9},
	Pico:  {"p", 1e-12},
	Femto: {"f", 1e-15},
	Atto:  {"a", 1e-18},
	Zepto: {"z", 1e-21},
	Yocto: {"y", 1e-24},
}

// Scale returns the multiplier of p. Unknown prefixes scale by 1.
func (p Prefix) Scale() float64 {
	if !p.valid() {
		return 1
	}
	return prefixTable[p].scale
}

func (p Prefix) String() string {
	if !p.valid() {
		return fmt.Sprintf("Prefix(%d)", int(p))
	}
	return prefixTable[p].symbol
}

func (p Prefix) valid() bool {
	return p >= Yotta && p <= Yocto
}

// Resolve converts value to SI base units. Every prefix given multiplies
// the value; with none the value is returned unchanged.
func Resolve(value float64, prefixes ...Prefix) float64 {
	for _, p := range prefixes {
		value *= p.Scale()
	}
	return value
}

// ResolveComplex is Resolve for complex-valued quantities.
func ResolveComplex(value complex128, prefixes ...Prefix) complex128 {
	return value * complex(Resolve(1, prefixes...), 0)
}

// Nearest picks the prefix that writes value with one to three integer
// digits. Zero and non-finite values take None.
func Nearest(value float64) Prefix {
	return NearestBetween(value, Yotta, Yocto)
}

// NearestBetween is Nearest restricted to the prefixes from largest down
// to smallest.
func NearestBetween(value float64, largest, smallest Prefix) Prefix {
	mag := math.Abs(value)
	if mag == 0 || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return None
	}
	for p := largest; p < smallest; p++ {
		if mag >= prefixTable[p].scale {
			return p
		}
	}
	return smallest
}
