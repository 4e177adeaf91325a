package core

import "errors"

// ErrInvalidArgument reports a violated precondition at a package boundary
// Wrapped with detail via fmt.Errorf("%w: ...")
var ErrInvalidArgument = errors.New("invalid argument")
