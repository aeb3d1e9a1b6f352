package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/edp1096/circuit-solver/pkg/circuit"
	"github.com/edp1096/circuit-solver/pkg/util"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Circuit   *circuit.Circuit
	results   map[string][]float64    // key: variable name, value: result by sweep point
	phasors   map[string][]complex128 // complex results under the same keys
	tolerance struct {
		abstol float64
		reltol float64
	}
}

func NewBaseAnalysis() *BaseAnalysis {
	ba := &BaseAnalysis{
		results: make(map[string][]float64),
		phasors: make(map[string][]complex128),
	}

	ba.tolerance.abstol = 1e-12
	ba.tolerance.reltol = 1e-6

	return ba
}

// CheckResidual verifies Kirchhoff's current law on the last solve.
func (a *BaseAnalysis) CheckResidual() error {
	var scale float64
	for i := range a.Circuit.Branches() {
		if current, err := a.Circuit.BranchCurrent(i); err == nil {
			scale = max(scale, cmplx.Abs(current))
		}
	}

	residual := a.Circuit.MaxResidual()
	if residual > a.tolerance.abstol+a.tolerance.reltol*scale {
		return fmt.Errorf("KCL residual %g exceeds tolerance", residual)
	}
	return nil
}

// StoreResult appends one solve. results keeps the real part, phasors the
// full value.
func (a *BaseAnalysis) StoreResult(solution map[string]complex128) {
	for name, value := range solution {
		a.results[name] = append(a.results[name], real(value))
		a.phasors[name] = append(a.phasors[name], value)
	}
}

func (a *BaseAnalysis) StoreACResult(freq float64, solution map[string]complex128) {
	a.results["FREQ"] = append(a.results["FREQ"], freq)

	for name, value := range solution {
		a.results[name+"_MAG"] = append(a.results[name+"_MAG"], cmplx.Abs(value))

		a.results[name+"_PHASE"] = append(a.results[name+"_PHASE"], util.Degrees(value))

		a.phasors[name] = append(a.phasors[name], value)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}

func (a *BaseAnalysis) GetPhasors() map[string][]complex128 {
	return a.phasors
}
