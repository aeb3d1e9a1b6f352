package analysis

import (
	"fmt"
	"math"

	"github.com/edp1096/circuit-solver/pkg/circuit"
	"github.com/edp1096/circuit-solver/pkg/device"
)

type DCSweep struct {
	BaseAnalysis
	sourceNames []string            // Names of voltage/current sources to sweep
	startVals   []float64           // Start values for each source
	stopVals    []float64           // Stop values for each source
	increments  []float64           // Incremental value of steps for each source
	sweepVals   [][]float64         // Generated sweep values for each source
	sources     []*device.Component // Swept sources
	origVals    []complex128        // Original values of the sources
}

func NewDCSweep(sources []string, starts, stops []float64, increments []float64) *DCSweep {
	return &DCSweep{
		BaseAnalysis: *NewBaseAnalysis(),
		sourceNames:  sources,
		startVals:    starts,
		stopVals:     stops,
		increments:   increments,
	}
}

func (dc *DCSweep) Setup(ckt *circuit.Circuit) error {
	dc.Circuit = ckt

	n := len(dc.sourceNames)
	if n != len(dc.startVals) || n != len(dc.stopVals) || n != len(dc.increments) {
		return fmt.Errorf("inconsistent parameter lengths")
	}
	if n < 1 || n > 2 {
		return fmt.Errorf("unsupported number of sweep sources: %d", n)
	}

	dc.sources = make([]*device.Component, n)
	dc.origVals = make([]complex128, n)
	dc.sweepVals = make([][]float64, n)
	for i, name := range dc.sourceNames {
		source, ok := ckt.Component(name)
		if !ok || !source.Kind().IsSource() {
			return fmt.Errorf("source %s not found", name)
		}
		dc.sources[i] = source
		dc.origVals[i] = source.Value()

		values, err := sweepValues(dc.startVals[i], dc.stopVals[i], dc.increments[i])
		if err != nil {
			return fmt.Errorf("sweep of %s: %w", name, err)
		}
		dc.sweepVals[i] = values
	}

	return nil
}

// sweepValues lists start, start+inc, ... up to stop, counting steps so
// rounding does not drop the last point.
func sweepValues(start, stop, inc float64) ([]float64, error) {
	if inc == 0 || math.IsNaN(inc) || (stop-start)/inc < 0 {
		return nil, fmt.Errorf("increment %g does not reach %g from %g", inc, stop, start)
	}
	steps := int(math.Floor((stop-start)/inc+1e-9)) + 1
	values := make([]float64, steps)
	for i := range steps {
		values[i] = start + float64(i)*inc
	}
	return values, nil
}

func (dc *DCSweep) Execute() error {
	if dc.Circuit == nil || dc.sources == nil {
		return fmt.Errorf("circuit not set")
	}
	defer dc.restore()

	if len(dc.sources) == 1 {
		return dc.singleSweep()
	}
	return dc.nestedSweep()
}

func (dc *DCSweep) restore() {
	for i, source := range dc.sources {
		source.SetValue(dc.origVals[i])
	}
}

func (dc *DCSweep) solve() error {
	status := &device.CircuitStatus{Mode: device.DCSweep}
	if err := dc.Circuit.SolveStatus(status); err != nil {
		return err
	}
	return dc.CheckResidual()
}

func (dc *DCSweep) singleSweep() error {
	source := dc.sources[0]

	for _, val := range dc.sweepVals[0] {
		source.SetValue(complex(val, 0))

		if err := dc.solve(); err != nil {
			return fmt.Errorf("solve error at %s=%g: %w", source.Label(), val, err)
		}

		dc.results["SWEEP1"] = append(dc.results["SWEEP1"], val)
		dc.StoreResult(dc.Circuit.GetSolution())
	}

	return nil
}

func (dc *DCSweep) nestedSweep() error {
	source1, source2 := dc.sources[0], dc.sources[1]

	for _, val1 := range dc.sweepVals[0] {
		source1.SetValue(complex(val1, 0))

		for _, val2 := range dc.sweepVals[1] {
			source2.SetValue(complex(val2, 0))

			if err := dc.solve(); err != nil {
				return fmt.Errorf("solve error at %s=%g, %s=%g: %w",
					source1.Label(), val1, source2.Label(), val2, err)
			}

			dc.results["SWEEP1"] = append(dc.results["SWEEP1"], val1)
			dc.results["SWEEP2"] = append(dc.results["SWEEP2"], val2)
			dc.StoreResult(dc.Circuit.GetSolution())
		}
	}

	return nil
}
