package circuit

import (
	"fmt"

	"github.com/edp1096/circuit-solver/pkg/device"
)

// Expand flattens a part placed between nodes a and b into branches.
//
// Direct components of a series network become one branch; nested
// networks get their own nodes, named "last:first" after the labels of the
// leaves on either side. With a == b a series network is closed into a
// loop with every part on its own branch.
func Expand(p device.Part, a, b string) ([]*Branch, error) {
	var x expander
	if err := x.expand(p, a, b); err != nil {
		return nil, err
	}
	return x.branches, nil
}

// FromNetwork builds a circuit from a single network. A series network is
// closed on itself at node "a"; any other part is left open between
// nodes "a" and "b".
func FromNetwork(p device.Part, opts ...Option) (*Circuit, error) {
	b := "b"
	if n, ok := p.(*device.Network); ok && n != nil && n.Topology() == device.SeriesTopology {
		b = "a"
	}
	branches, err := Expand(p, "a", b)
	if err != nil {
		return nil, err
	}
	return New(branches, opts...)
}

type expander struct {
	branches []*Branch
}

// segment is one stretch of a series network: a chain of direct
// components or a nested part.
type segment struct {
	chain []*device.Component
	part  device.Part
}

func (s segment) first() string {
	if s.chain != nil {
		return leafLabel(s.chain[0], true)
	}
	return leafLabel(s.part, true)
}

func (s segment) last() string {
	if s.chain != nil {
		return leafLabel(s.chain[len(s.chain)-1], false)
	}
	return leafLabel(s.part, false)
}

func leafLabel(p device.Part, first bool) string {
	switch p := p.(type) {
	case *device.Component:
		if p != nil {
			return p.Label()
		}
	case *device.Network:
		if p != nil && len(p.Parts()) > 0 {
			parts := p.Parts()
			if first {
				return leafLabel(parts[0], true)
			}
			return leafLabel(parts[len(parts)-1], false)
		}
	}
	return "?"
}

func (x *expander) expand(p device.Part, a, b string) error {
	switch p := p.(type) {
	case *device.Component:
		if p == nil {
			return fmt.Errorf("%w: nil component in network", ErrInvalidBranch)
		}
		x.branches = append(x.branches, NewBranch(a, b, p))
		return nil

	case *device.Network:
		if p == nil {
			return fmt.Errorf("%w: nil network", ErrInvalidBranch)
		}
		if len(p.Parts()) == 0 {
			return fmt.Errorf("%w: empty %s network", ErrInvalidBranch, p.Topology())
		}
		if p.Reversed() {
			a, b = b, a
		}
		if p.Topology() == device.ParallelTopology {
			return x.parallel(p, a, b)
		}
		return x.series(p, a, b)
	}
	return fmt.Errorf("%w: unsupported part %v", ErrInvalidBranch, p)
}

func (x *expander) parallel(n *device.Network, a, b string) error {
	if vs := n.Sources(device.VoltageSource); len(vs) > 1 {
		return fmt.Errorf("%w: voltage sources %s and %s in parallel",
			ErrInvalidBranch, vs[0].Label(), vs[1].Label())
	}
	for _, p := range n.Parts() {
		if err := x.expand(p, a, b); err != nil {
			return err
		}
	}
	return nil
}

func (x *expander) series(n *device.Network, a, b string) error {
	if js := n.Sources(device.CurrentSource); len(js) > 1 {
		return fmt.Errorf("%w: current sources %s and %s in series",
			ErrInvalidBranch, js[0].Label(), js[1].Label())
	}

	var chain []*device.Component
	var segments []segment
	for _, p := range n.Parts() {
		if c, ok := p.(*device.Component); ok && a != b {
			chain = append(chain, c)
			continue
		}
		segments = append(segments, segment{part: p})
	}
	if chain != nil {
		segments = append([]segment{{chain: chain}}, segments...)
	}

	nodes := make([]string, len(segments)+1)
	nodes[0], nodes[len(segments)] = a, b
	for i := 1; i < len(segments); i++ {
		nodes[i] = segments[i-1].last() + ":" + segments[i].first()
	}

	for i, seg := range segments {
		if seg.chain != nil {
			x.branches = append(x.branches, NewBranch(nodes[i], nodes[i+1], seg.chain...))
			continue
		}
		if err := x.expand(seg.part, nodes[i], nodes[i+1]); err != nil {
			return err
		}
	}
	return nil
}
