package autodiff

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors.
var (
	ErrUndefinedDerivative = errors.New("undefined derivative: output does not depend on leaf")
	ErrInvalidOperand      = errors.New("invalid operand")
	ErrNotSeeded           = errors.New("output accumulator not seeded")
	ErrLeafNotTracked      = errors.New("node is not a tracked leaf")
	ErrAlreadyTracked      = errors.New("node already has linkage")
)

// OperandError describes an operand rejected by a graph operation.
// Operators panic with *OperandError; it unwraps to ErrInvalidOperand.
type OperandError struct {
	Op     string    // Operation that rejected the operand
	Graph  uuid.UUID // Graph the operation ran on, uuid.Nil if unknown
	Reason string
}

func (e *OperandError) Error() string {
	if e.Graph == uuid.Nil {
		return fmt.Sprintf("autodiff: %s: %s: %s", e.Op, ErrInvalidOperand, e.Reason)
	}
	return fmt.Sprintf("autodiff: %s: %s: %s (graph %s)", e.Op, ErrInvalidOperand, e.Reason, e.Graph)
}

// Unwrap returns ErrInvalidOperand.
func (e *OperandError) Unwrap() error {
	return ErrInvalidOperand
}

func invalidOperand(g *Graph, op, format string, args ...any) *OperandError {
	err := &OperandError{Op: op, Reason: fmt.Sprintf(format, args...)}
	if g != nil {
		err.Graph = g.id
	}
	return err
}
