package sigraph

import (
	"errors"
	"fmt"

	"github.com/dudk/sigraph/arena"
)

var (
	// ErrOutOfMemory is returned when the engine arena is exhausted.
	ErrOutOfMemory = arena.ErrOutOfMemory
	// ErrCapacityExceeded is returned when a list or the node table is full.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrDependencyOrder is returned when an input is bound to a node that
	// is not evaluated before the consumer.
	ErrDependencyOrder = errors.New("dependency order violation")
	// ErrForeignNode is returned when nodes of different engines are mixed.
	ErrForeignNode = errors.New("node belongs to another engine")
	// ErrAlreadyListed is returned when a node is appended for the second time.
	ErrAlreadyListed = errors.New("node is already listed")
	// ErrListFrozen is returned when a list is changed after an evaluator was built.
	ErrListFrozen = errors.New("list is frozen")
	// ErrUnknownKind is returned for kinds outside the built-in set.
	ErrUnknownKind = errors.New("unknown kind")
	// ErrUnknownParam is returned for parameter names the kind doesn't have.
	ErrUnknownParam = errors.New("unknown parameter")
	// ErrUnknownInput is returned for input names the kind doesn't have.
	ErrUnknownInput = errors.New("unknown input")
	// ErrUnknownOutput is returned for output names the kind doesn't have.
	ErrUnknownOutput = errors.New("unknown output")
	// ErrWrongKind is returned when an operation isn't supported by the kind.
	ErrWrongKind = errors.New("operation is not supported by node kind")
	// ErrClosed is returned when the engine was closed.
	ErrClosed = errors.New("engine is closed")
)

// BindError is returned when an input binding is rejected.
type BindError struct {
	Node     string // consumer
	Input    string
	Producer string
	Err      error
}

func (e *BindError) Error() string {
	if e.Producer == "" {
		return fmt.Sprintf("bind %v.%v: %v", e.Node, e.Input, e.Err)
	}
	return fmt.Sprintf("bind %v.%v <- %v: %v", e.Node, e.Input, e.Producer, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *BindError) Unwrap() error {
	return e.Err
}
