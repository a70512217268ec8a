package ardent

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped in *NodeError) by scene mutations.
var (
	// ErrUnknownNode is returned when the target node does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNotFound is returned for an identity whose node has been removed.
	// It matches ErrUnknownNode under errors.Is.
	ErrNotFound = fmt.Errorf("%w: removed", ErrUnknownNode)

	// ErrUnknownParent is returned when the requested parent does not exist.
	ErrUnknownParent = errors.New("unknown parent")

	// ErrCycle is returned when a reparent would make a node its own ancestor.
	ErrCycle = errors.New("reparent would create a cycle")

	// ErrRootNode is returned when an operation cannot apply to the root.
	ErrRootNode = errors.New("operation not permitted on root")

	// ErrIndexOutOfRange is returned by SetChildIndex for a bad index.
	ErrIndexOutOfRange = errors.New("child index out of range")
)

// NodeError records a failed scene operation and the node it targeted.
type NodeError struct {
	Op  string
	ID  NodeID
	Err error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("ardent: %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func nodeErr(op string, id NodeID, err error) error {
	return &NodeError{Op: op, ID: id, Err: err}
}
