package repository

import "errors"

var (
	// ErrNotFound is returned by mutations whose WHERE clause matched no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a customer insert hits the UNIQUE name constraint.
	ErrDuplicateName = errors.New("customer name already exists")
)
