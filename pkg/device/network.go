package device

import "strings"

// Part is a two-terminal element: a single Component or a Network of parts.
type Part interface {
	String() string
	part()
}

func (*Component) part() {}
func (*Network) part()   {}

type Topology int

const (
	SeriesTopology Topology = iota
	ParallelTopology
)

func (t Topology) String() string {
	if t == ParallelTopology {
		return "parallel"
	}
	return "series"
}

// Network combines parts in series or in parallel into one two-terminal
// part. Series current runs from the first part to the last.
type Network struct {
	topology Topology
	parts    []Part
	reversed bool
}

// Series chains parts. Unreversed series networks among parts are merged
// into the chain.
func Series(parts ...Part) *Network {
	return newNetwork(SeriesTopology, parts)
}

// Parallel joins parts between the same two terminals. Unreversed
// parallel networks among parts are merged.
func Parallel(parts ...Part) *Network {
	return newNetwork(ParallelTopology, parts)
}

func newNetwork(t Topology, parts []Part) *Network {
	n := &Network{topology: t}
	for _, p := range parts {
		if sub, ok := p.(*Network); ok && sub != nil && sub.topology == t && !sub.reversed {
			n.parts = append(n.parts, sub.parts...)
			continue
		}
		n.parts = append(n.parts, p)
	}
	return n
}

func (n *Network) Topology() Topology { return n.topology }
func (n *Network) Parts() []Part      { return n.parts }
func (n *Network) Reversed() bool     { return n.reversed }

// Reverse returns the network with its terminals swapped. The parts are
// shared and keep their own orientation.
func (n *Network) Reverse() *Network {
	return &Network{topology: n.topology, parts: n.parts, reversed: !n.reversed}
}

// Sources returns the direct parts of the given kind.
func (n *Network) Sources(kind Kind) []*Component {
	var out []*Component
	for _, p := range n.parts {
		if c, ok := p.(*Component); ok && c != nil && c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (n *Network) String() string {
	sep := " & "
	if n.topology == ParallelTopology {
		sep = " | "
	}
	names := make([]string, len(n.parts))
	for i, p := range n.parts {
		if p == nil {
			names[i] = "<nil>"
			continue
		}
		names[i] = p.String()
	}

	s := "(" + strings.Join(names, sep) + ")"
	if n.reversed {
		s = "~" + s
	}
	return s
}
