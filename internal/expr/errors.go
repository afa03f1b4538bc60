package expr

import "errors"

// Common errors.
var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnsupported     = errors.New("unsupported expression")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArity           = errors.New("wrong number of arguments")
	ErrInvalidValue    = errors.New("invalid value")
)
