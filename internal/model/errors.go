package model

import "errors"

var (
	// ErrNotFound is returned by stores when the requested record is absent.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned by stores on a unique-key conflict. Opaque
	// identifiers are never expected to collide; the writer must fail
	// loudly instead of overwriting.
	ErrDuplicate = errors.New("record already exists")
)
