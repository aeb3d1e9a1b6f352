package circuit

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/edp1096/circuit-solver/pkg/device"
)

// AssignNodeBranchMaps indexes the nodes and validates every branch.
//
// Nodes are numbered in first-seen order with the reference node at 0.
// Each branch holding a voltage source gets an auxiliary unknown numbered
// after the last node.
func (c *Circuit) AssignNodeBranchMaps() error {
	if len(c.branches) == 0 {
		return fmt.Errorf("%w: circuit has no branches", ErrTopology)
	}

	var order []string
	seenNode := make(map[string]bool)
	for i, br := range c.branches {
		if br == nil {
			return fmt.Errorf("%w: branch %d is nil", ErrInvalidBranch, i)
		}
		for _, name := range []string{br.NodeA, br.NodeB} {
			if name == "" {
				return fmt.Errorf("%w: branch %d (%s) has an empty node label", ErrInvalidBranch, i, br)
			}
			if !seenNode[name] {
				seenNode[name] = true
				order = append(order, name)
			}
		}
	}
	if len(order) < 2 {
		return fmt.Errorf("%w: need at least two nodes, got %d", ErrTopology, len(order))
	}

	reference := c.opts.reference
	if reference == "" {
		reference = order[0]
	} else if !seenNode[reference] {
		return fmt.Errorf("%w: reference node %q is not in the circuit", ErrTopology, reference)
	}

	c.reference = reference
	c.nodeNames = order
	c.nodeMap = map[string]int{reference: 0}
	c.labels = []string{reference}
	for _, name := range order {
		if name != reference {
			c.nodeMap[name] = len(c.nodeMap)
			c.labels = append(c.labels, name)
		}
	}

	c.components = make(map[string]*device.Component)
	c.branchMap = make(map[string]int)
	c.info = make([]branchInfo, len(c.branches))
	aux := len(c.nodeMap)
	for i, br := range c.branches {
		info, err := c.classify(i, br)
		if err != nil {
			return err
		}
		if info.vsource != nil {
			info.aux = aux
			c.branchMap[info.vsource.Label()] = aux
			aux++
		}
		c.info[i] = info
	}
	c.numAux = aux - len(c.nodeMap)

	return nil
}

func (c *Circuit) classify(i int, br *Branch) (branchInfo, error) {
	info := branchInfo{a: c.nodeMap[br.NodeA], b: c.nodeMap[br.NodeB]}

	if len(br.Components) == 0 {
		return info, fmt.Errorf("%w: branch %d (%s) has no components", ErrInvalidBranch, i, br)
	}

	for _, comp := range br.Components {
		if comp == nil {
			return info, fmt.Errorf("%w: branch %d (%s) holds a nil component", ErrInvalidBranch, i, br)
		}
		if !comp.Finite() {
			return info, fmt.Errorf("%w: %s has a non-finite value %v", ErrInvalidBranch, comp.Label(), comp.Value())
		}
		if prev, ok := c.components[comp.Label()]; ok {
			if prev.SameElement(comp) {
				return info, fmt.Errorf("%w: %s is wired more than once", ErrTopology, comp.Label())
			}
			return info, fmt.Errorf("%w: duplicate component label %s", ErrTopology, comp.Label())
		}
		c.components[comp.Label()] = comp

		switch comp.Kind() {
		case device.VoltageSource:
			if info.vsource != nil {
				return info, fmt.Errorf("%w: voltage sources %s and %s in series in branch %d",
					ErrUnsupportedTopology, info.vsource.Label(), comp.Label(), i)
			}
			info.vsource = comp
		case device.CurrentSource:
			if info.isource != nil {
				return info, fmt.Errorf("%w: current sources %s and %s in series in branch %d",
					ErrInvalidBranch, info.isource.Label(), comp.Label(), i)
			}
			info.isource = comp
		default:
			info.passives = append(info.passives, comp)
		}
	}

	if info.vsource != nil && info.isource != nil {
		return info, fmt.Errorf("%w: voltage source %s in series with current source %s",
			ErrInvalidBranch, info.vsource.Label(), info.isource.Label())
	}
	if info.vsource != nil && info.a == info.b {
		return info, fmt.Errorf("%w: voltage source %s shorted by a self-loop at node %s",
			ErrInvalidBranch, info.vsource.Label(), br.NodeA)
	}
	return info, nil
}

// floatingNodes returns the nodes whose potential is not tied to the
// reference by any branch that constrains voltage at this solve.
func (c *Circuit) floatingNodes(lay *layout) []string {
	g := simple.NewUndirectedGraph()
	for i := range c.nodeNames {
		g.AddNode(simple.Node(i))
	}
	for i, info := range c.info {
		if !lay.class[i].tiesNodes() || lay.open[i] || info.a == info.b {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(info.a), simple.Node(info.b)))
	}

	var floating []string
	for _, cc := range topo.ConnectedComponents(g) {
		grounded := false
		for _, n := range cc {
			if n.ID() == 0 {
				grounded = true
				break
			}
		}
		if grounded {
			continue
		}
		for _, n := range cc {
			floating = append(floating, c.labels[n.ID()])
		}
	}
	slices.Sort(floating)
	return floating
}
