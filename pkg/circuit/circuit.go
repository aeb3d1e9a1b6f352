// Package circuit solves linear networks of two-terminal components by
// modified nodal analysis, at DC or as phasors at one angular frequency.
//
// A Circuit is built once from a list of branches and may be solved any
// number of times. Each Solve overwrites the results held by the
// components. Solving is synchronous; callers sharing components between
// circuits must serialize the solves.
package circuit

import (
	"fmt"
	"log/slog"
	"math/cmplx"

	"github.com/google/uuid"

	"github.com/edp1096/circuit-solver/internal/consts"
	"github.com/edp1096/circuit-solver/pkg/device"
	"github.com/edp1096/circuit-solver/pkg/field"
	"github.com/edp1096/circuit-solver/pkg/matrix"
)

type Backend int

const (
	SparseBackend Backend = iota // github.com/edp1096/sparse
	DenseBackend                 // dense LU with partial pivoting
)

func (b Backend) String() string {
	if b == DenseBackend {
		return "dense"
	}
	return "sparse"
}

type options struct {
	backend   Backend
	relTol    float64
	shortTol  float64
	reference string
	logger    *slog.Logger
}

type Option func(*options)

func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithTolerance sets the relative pivot magnitude under which the system
// is reported singular.
func WithTolerance(rel float64) Option {
	return func(o *options) { o.relTol = rel }
}

// WithShortTolerance sets the ratio |ΣZ| / Σ|Z| under which a passive
// branch is treated as a short circuit.
func WithShortTolerance(rel float64) Option {
	return func(o *options) { o.shortTol = rel }
}

// WithReference picks the reference node. By default it is the first node
// of the first branch.
func WithReference(node string) Option {
	return func(o *options) { o.reference = node }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

type Circuit struct {
	id       uuid.UUID
	branches []*Branch
	opts     options
	logger   *slog.Logger
	Status   *device.CircuitStatus

	reference  string
	nodeNames  []string       // first-seen order
	labels     []string       // by node index
	nodeMap    map[string]int // node label -> index, reference is 0
	branchMap  map[string]int // voltage source label -> aux index
	numAux     int
	info       []branchInfo
	components map[string]*device.Component

	solved   bool
	omega    float64
	voltages []complex128 // by node index
	currents []complex128 // by branch
}

// New indexes and validates branches. The returned error wraps
// ErrTopology, ErrInvalidBranch or ErrUnsupportedTopology.
func New(branches []*Branch, opts ...Option) (*Circuit, error) {
	o := options{
		relTol:   consts.SINGULAR_TOL,
		shortTol: consts.SHORT_TOL,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Circuit{
		id:       uuid.New(),
		branches: branches,
		opts:     o,
		logger:   o.logger,
		Status:   &device.CircuitStatus{},
	}
	if err := c.AssignNodeBranchMaps(); err != nil {
		return nil, err
	}

	c.logger.Debug("circuit built",
		"circuit", c.id,
		"nodes", len(c.nodeMap),
		"branches", len(c.branches),
		"vsources", c.numAux,
		"reference", c.reference)
	return c, nil
}

// Solve computes the steady state at angular frequency omega (rad/s);
// omega 0 is DC. On error no result is written.
func (c *Circuit) Solve(omega float64) error {
	mode := device.ACAnalysis
	if omega == 0 {
		mode = device.OperatingPointAnalysis
	}
	return c.SolveStatus(&device.CircuitStatus{Omega: omega, Mode: mode})
}

func (c *Circuit) SolveStatus(status *device.CircuitStatus) error {
	var newSystem func(int) (matrix.System[field.Complex], error)
	switch c.opts.backend {
	case DenseBackend:
		newSystem = func(size int) (matrix.System[field.Complex], error) {
			return matrix.NewDense[field.Complex](size, c.opts.relTol), nil
		}
	default:
		newSystem = func(size int) (matrix.System[field.Complex], error) {
			m, err := matrix.NewMatrix(size, c.opts.relTol)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}

	sol, err := run(c, status, nil, newSystem)
	if err != nil {
		return err
	}
	c.Status = status
	apply(c, sol)
	return nil
}

// Sensitivity is the derivative of a component's current and voltage
// with respect to one component value, in SI units.
type Sensitivity struct {
	Current complex128
	Voltage complex128
}

// Sensitivity solves at omega with dual numbers and returns, for every
// component, the derivative of its results with respect to the value of
// wrt. Derivatives are read in each component's declared orientation.
// The primal results are written to the components as by Solve.
func (c *Circuit) Sensitivity(omega float64, wrt *device.Component) (map[string]Sensitivity, error) {
	if wrt == nil {
		return nil, fmt.Errorf("%w: nil component", ErrNotFound)
	}
	seed, ok := c.components[wrt.Label()]
	if !ok || !seed.SameElement(wrt) {
		return nil, fmt.Errorf("%w: component %s", ErrNotFound, wrt.Label())
	}

	status := &device.CircuitStatus{Omega: omega, Mode: device.SensitivityAnalysis}
	sol, err := run(c, status, seed, func(size int) (matrix.System[field.Dual], error) {
		return matrix.NewDense[field.Dual](size, c.opts.relTol), nil
	})
	if err != nil {
		return nil, err
	}
	c.Status = status
	apply(c, sol)

	out := make(map[string]Sensitivity, len(sol.results))
	for _, r := range sol.results {
		s := complex(r.comp.Sign(), 0)
		out[r.comp.Label()] = Sensitivity{
			Current: r.current.Derivative() * s,
			Voltage: r.voltage.Derivative() * s,
		}
	}
	return out, nil
}

func (c *Circuit) ID() uuid.UUID { return c.id }

func (c *Circuit) Reference() string { return c.reference }

func (c *Circuit) Branches() []*Branch { return c.branches }

func (c *Circuit) Solved() bool { return c.solved }

// Omega is the angular frequency of the last solve.
func (c *Circuit) Omega() float64 { return c.omega }

// Nodes returns the node labels in first-seen order.
func (c *Circuit) Nodes() []string {
	return append([]string(nil), c.nodeNames...)
}

func (c *Circuit) GetNodeMap() map[string]int {
	return c.nodeMap
}

func (c *Circuit) GetBranchMap() map[string]int {
	return c.branchMap
}

func (c *Circuit) GetNumNodes() int {
	return len(c.nodeMap)
}

// Component returns the view of the component with label as it is wired.
func (c *Circuit) Component(label string) (*device.Component, bool) {
	comp, ok := c.components[label]
	return comp, ok
}

// Components returns every wired component in branch order.
func (c *Circuit) Components() []*device.Component {
	var out []*device.Component
	for _, br := range c.branches {
		out = append(out, br.Components...)
	}
	return out
}

// StateAt returns the solved current and voltage of a component in its
// declared orientation.
func (c *Circuit) StateAt(label string) (current, voltage complex128, err error) {
	comp, ok := c.components[label]
	if !ok {
		return 0, 0, fmt.Errorf("%w: component %s", ErrNotFound, label)
	}
	if !comp.Solved() {
		return 0, 0, fmt.Errorf("component %s has not been solved", label)
	}
	if comp.Reversed() {
		comp = comp.Reverse()
	}
	return comp.Current(), comp.Voltage(), nil
}

// NodeVoltage is the potential of a node relative to the reference.
func (c *Circuit) NodeVoltage(label string) (complex128, error) {
	idx, ok := c.nodeMap[label]
	if !ok {
		return 0, fmt.Errorf("%w: node %s", ErrNotFound, label)
	}
	if !c.solved {
		return 0, fmt.Errorf("circuit has not been solved")
	}
	return c.voltages[idx], nil
}

// BranchCurrent is the current of branch i from its NodeA to its NodeB.
func (c *Circuit) BranchCurrent(i int) (complex128, error) {
	if i < 0 || i >= len(c.branches) {
		return 0, fmt.Errorf("%w: branch %d", ErrNotFound, i)
	}
	if !c.solved {
		return 0, fmt.Errorf("circuit has not been solved")
	}
	return c.currents[i], nil
}

// GetSolution maps V(node) to node voltages and I(label), VD(label) to
// component currents and voltages as wired.
func (c *Circuit) GetSolution() map[string]complex128 {
	solution := make(map[string]complex128)
	if !c.solved {
		return solution
	}

	for name, idx := range c.nodeMap {
		solution[fmt.Sprintf("V(%s)", name)] = c.voltages[idx]
	}
	for _, comp := range c.Components() {
		solution[fmt.Sprintf("I(%s)", comp.Label())] = comp.Current()
		solution[fmt.Sprintf("VD(%s)", comp.Label())] = comp.Voltage()
	}
	return solution
}

// Residuals returns the net current leaving each node. For a solved
// circuit every entry is zero up to rounding.
func (c *Circuit) Residuals() map[string]complex128 {
	res := make(map[string]complex128, len(c.nodeNames))
	for _, name := range c.nodeNames {
		res[name] = 0
	}
	if !c.solved {
		return res
	}
	for i, br := range c.branches {
		res[br.NodeA] += c.currents[i]
		res[br.NodeB] -= c.currents[i]
	}
	return res
}

// MaxResidual is the largest KCL residual magnitude.
func (c *Circuit) MaxResidual() float64 {
	var worst float64
	for _, r := range c.Residuals() {
		worst = max(worst, cmplx.Abs(r))
	}
	return worst
}
