package storage

import "errors"

// ErrNoSnapshot signals that the archive does not hold any snapshot yet
var ErrNoSnapshot = errors.New("no snapshot captured yet")
