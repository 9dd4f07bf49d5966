package sieve

import "errors"

var (
	// ErrInvalidArgument is returned for queries outside the oracle's domain.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceExhausted is returned when the table cannot grow to the queried index.
	ErrResourceExhausted = errors.New("resource exhausted")
)
