package domain

import "errors"

// ErrUnknownModule is returned when a module type name is not recognised.
var ErrUnknownModule = errors.New("unknown module type")
