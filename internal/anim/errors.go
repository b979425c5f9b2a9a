package anim

import "errors"

// Error categories. Build-time failures wrap ErrValidation and abort
// construction; runtime failures wrap ErrLookup or ErrSampling and leave
// prior state untouched.
var (
	ErrValidation = errors.New("validation failed")
	ErrLookup     = errors.New("not found")
	ErrSampling   = errors.New("sampling failed")
)
