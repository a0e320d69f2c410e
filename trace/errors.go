package trace

import "errors"

var (
	ErrAxisTooShort      = errors.New("trace: frequency axis needs at least 2 points")
	ErrAxisNotIncreasing = errors.New("trace: frequency axis must be strictly increasing")
	ErrAxisNotUniform    = errors.New("trace: frequency axis is not uniformly spaced")
)
