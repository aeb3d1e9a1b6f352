package circuit

import "errors"

var (
	// ErrTopology reports a branch list that does not form a circuit: no
	// branches, fewer than two nodes, or a component wired twice.
	ErrTopology = errors.New("topology error")

	// ErrInvalidBranch reports a branch that is malformed on its own.
	ErrInvalidBranch = errors.New("invalid branch")

	// ErrUnsupportedTopology reports a branch the MNA formulation does not
	// handle, such as two ideal voltage sources in series.
	ErrUnsupportedTopology = errors.New("unsupported topology")

	// ErrSingularSystem reports a network without a unique solution:
	// floating nodes, voltage source loops or current source cutsets.
	ErrSingularSystem = errors.New("singular system")

	// ErrNotFound reports a lookup of a component or node the circuit does
	// not contain.
	ErrNotFound = errors.New("not found")
)
