package analysis

import (
	"fmt"
	"math"

	"github.com/edp1096/circuit-solver/internal/consts"
	"github.com/edp1096/circuit-solver/pkg/circuit"
	"github.com/edp1096/circuit-solver/pkg/device"
)

type ACAnalysis struct {
	BaseAnalysis
	startFreq   float64
	stopFreq    float64
	numPoints   int
	pointsType  string // "DEC", "OCT", "LIN"
	frequencies []float64
}

// NewAC sweeps numPoints frequencies (Hz) from fStart to fStop, spaced
// logarithmically for DEC and OCT or evenly for LIN.
func NewAC(fStart, fStop float64, nPoints int, pType string) *ACAnalysis {
	return &ACAnalysis{
		BaseAnalysis: *NewBaseAnalysis(),
		startFreq:    fStart,
		stopFreq:     fStop,
		numPoints:    nPoints,
		pointsType:   pType,
	}
}

func (ac *ACAnalysis) Setup(ckt *circuit.Circuit) error {
	ac.Circuit = ckt

	if ac.numPoints < 1 {
		return fmt.Errorf("ac sweep needs at least one point, got %d", ac.numPoints)
	}
	if ac.startFreq < 0 || ac.stopFreq < ac.startFreq {
		return fmt.Errorf("invalid ac range %g..%g Hz", ac.startFreq, ac.stopFreq)
	}
	switch ac.pointsType {
	case "DEC", "OCT":
		if ac.startFreq <= 0 {
			return fmt.Errorf("%s sweep needs a positive start frequency", ac.pointsType)
		}
	case "LIN":
	default:
		return fmt.Errorf("unknown ac sweep type %q", ac.pointsType)
	}

	ac.generateFrequencyPoints()

	return nil
}

func (ac *ACAnalysis) Execute() error {
	if ac.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	for _, freq := range ac.frequencies {
		status := &device.CircuitStatus{
			Omega: consts.TWO_PI * freq,
			Mode:  device.ACAnalysis,
		}

		if err := ac.Circuit.SolveStatus(status); err != nil {
			return fmt.Errorf("solve error at f=%g: %w", freq, err)
		}
		if err := ac.CheckResidual(); err != nil {
			return fmt.Errorf("at f=%g: %w", freq, err)
		}

		ac.StoreACResult(freq, ac.Circuit.GetSolution())
	}

	return nil
}

func (ac *ACAnalysis) Frequencies() []float64 {
	return ac.frequencies
}

func (ac *ACAnalysis) generateFrequencyPoints() {
	ac.frequencies = make([]float64, ac.numPoints)
	if ac.numPoints == 1 {
		ac.frequencies[0] = ac.startFreq
		return
	}

	switch ac.pointsType {
	case "DEC": // Decade
		logStart := math.Log10(ac.startFreq)
		logStop := math.Log10(ac.stopFreq)
		step := (logStop - logStart) / float64(ac.numPoints-1)
		for i := range ac.numPoints {
			ac.frequencies[i] = math.Pow(10, logStart+float64(i)*step)
		}

	case "OCT": // Octave
		logStart := math.Log2(ac.startFreq)
		logStop := math.Log2(ac.stopFreq)
		step := (logStop - logStart) / float64(ac.numPoints-1)
		for i := range ac.numPoints {
			ac.frequencies[i] = math.Pow(2, logStart+float64(i)*step)
		}

	case "LIN": // Linear
		step := (ac.stopFreq - ac.startFreq) / float64(ac.numPoints-1)
		for i := range ac.numPoints {
			ac.frequencies[i] = ac.startFreq + float64(i)*step
		}
	}
}
