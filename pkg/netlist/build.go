package netlist

import (
	"fmt"
	"slices"
	"strings"

	"github.com/edp1096/circuit-solver/internal/consts"
	"github.com/edp1096/circuit-solver/pkg/circuit"
	"github.com/edp1096/circuit-solver/pkg/device"
)

// Build turns parsed netlist data into a circuit. The reference node is
// taken from .ref, else from the first ground name present. Options given
// by the caller take precedence.
func Build(data *NetlistData, opts ...circuit.Option) (*circuit.Circuit, error) {
	parts := make(map[string]*device.Component, len(data.Elements))
	for _, elem := range data.Elements {
		if _, exists := parts[elem.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate element %s", circuit.ErrTopology, elem.Name)
		}
		comp, err := CreateComponent(elem)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", elem.Name, err)
		}
		parts[elem.Name] = comp
	}

	branches := make([]*circuit.Branch, 0, len(data.Branches))
	for _, line := range data.Branches {
		comps := make([]*device.Component, 0, len(line.Parts))
		for _, name := range line.Parts {
			reversed := strings.HasPrefix(name, "~")
			name = strings.TrimPrefix(name, "~")

			comp, ok := parts[name]
			if !ok {
				return nil, fmt.Errorf("%w: branch %s-%s uses undeclared part %s",
					circuit.ErrTopology, line.NodeA, line.NodeB, name)
			}
			if reversed {
				comp = comp.Reverse()
			}
			comps = append(comps, comp)
		}
		branches = append(branches, circuit.NewBranch(line.NodeA, line.NodeB, comps...))
	}

	if ref := data.reference(); ref != "" {
		opts = slices.Insert(opts, 0, circuit.WithReference(ref))
	}

	return circuit.New(branches, opts...)
}

func (n *NetlistData) reference() string {
	if n.Reference != "" {
		return n.Reference
	}
	for _, name := range consts.GroundNames {
		if _, ok := n.Nodes[name]; ok {
			return name
		}
	}
	return ""
}
