package htmlmodule

import "errors"

// Errors.
var (
	ErrOutputCount  = errors.New("unexpected bundle output count")
	ErrNotVirtual   = errors.New("not a virtual module")
	ErrBuild        = errors.New("bundle failed")
	ErrInvalidEntry = errors.New("invalid entry module")
)
