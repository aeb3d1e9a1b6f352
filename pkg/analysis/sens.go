package analysis

import (
	"fmt"

	"github.com/edp1096/circuit-solver/internal/consts"
	"github.com/edp1096/circuit-solver/pkg/circuit"
	"github.com/edp1096/circuit-solver/pkg/device"
)

// SensitivityAnalysis differentiates every component current and voltage
// with respect to one component value at a single frequency.
type SensitivityAnalysis struct {
	BaseAnalysis
	wrtName string
	freq    float64
	wrt     *device.Component
}

func NewSensitivity(wrt string, freq float64) *SensitivityAnalysis {
	return &SensitivityAnalysis{
		BaseAnalysis: *NewBaseAnalysis(),
		wrtName:      wrt,
		freq:         freq,
	}
}

func (s *SensitivityAnalysis) Setup(ckt *circuit.Circuit) error {
	s.Circuit = ckt

	wrt, ok := ckt.Component(s.wrtName)
	if !ok {
		return fmt.Errorf("component %s not found", s.wrtName)
	}
	if s.freq < 0 {
		return fmt.Errorf("invalid frequency %g", s.freq)
	}
	s.wrt = wrt
	return nil
}

func (s *SensitivityAnalysis) Execute() error {
	if s.Circuit == nil || s.wrt == nil {
		return fmt.Errorf("circuit not set")
	}

	sens, err := s.Circuit.Sensitivity(consts.TWO_PI*s.freq, s.wrt)
	if err != nil {
		return fmt.Errorf("sensitivity to %s: %w", s.wrtName, err)
	}

	solution := make(map[string]complex128, 2*len(sens))
	for label, d := range sens {
		solution[fmt.Sprintf("dI(%s)/d(%s)", label, s.wrtName)] = d.Current
		solution[fmt.Sprintf("dV(%s)/d(%s)", label, s.wrtName)] = d.Voltage
	}
	s.StoreResult(solution)
	return nil
}

func (s *SensitivityAnalysis) Frequency() float64 { return s.freq }
