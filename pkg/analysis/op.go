package analysis

import (
	"fmt"

	"github.com/edp1096/circuit-solver/pkg/circuit"
	"github.com/edp1096/circuit-solver/pkg/device"
)

type OperatingPoint struct{ BaseAnalysis }

func NewOP() *OperatingPoint {
	return &OperatingPoint{
		BaseAnalysis: *NewBaseAnalysis(),
	}
}

func (op *OperatingPoint) Setup(ckt *circuit.Circuit) error {
	op.Circuit = ckt
	return nil
}

func (op *OperatingPoint) Execute() error {
	if op.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	status := &device.CircuitStatus{Mode: device.OperatingPointAnalysis}
	if err := op.Circuit.SolveStatus(status); err != nil {
		return fmt.Errorf("operating point: %w", err)
	}
	if err := op.CheckResidual(); err != nil {
		return fmt.Errorf("operating point: %w", err)
	}

	op.StoreResult(op.Circuit.GetSolution())
	return nil
}
