package circuit

import (
	"fmt"
	"strings"

	"github.com/edp1096/circuit-solver/pkg/device"
)

// Branch is a series chain of components between two nodes. Its current
// is referenced from NodeA through the chain to NodeB.
type Branch struct {
	NodeA, NodeB string
	Components   []*device.Component
}

func NewBranch(a, b string, components ...*device.Component) *Branch {
	return &Branch{NodeA: a, NodeB: b, Components: components}
}

func (b *Branch) String() string {
	names := make([]string, len(b.Components))
	for i, comp := range b.Components {
		if comp == nil {
			names[i] = "<nil>"
			continue
		}
		names[i] = comp.Label()
		if comp.Reversed() {
			names[i] = "~" + names[i]
		}
	}
	return fmt.Sprintf("%s->%s [%s]", b.NodeA, b.NodeB, strings.Join(names, " "))
}

// branchInfo is a validated branch with its node indices resolved.
type branchInfo struct {
	a, b     int
	vsource  *device.Component
	isource  *device.Component
	passives []*device.Component
	aux      int // unknown index of the voltage source current, 0 if none
}

func (bi *branchInfo) openComponents(omega float64) []*device.Component {
	var open []*device.Component
	for _, comp := range bi.passives {
		if comp.IsOpen(omega) {
			open = append(open, comp)
		}
	}
	return open
}
