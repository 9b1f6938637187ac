package store

import "errors"

// Error taxonomy (spec §7). The dispatcher maps each sentinel to a
// status code; none of them carry response-body text, since a failed
// request always returns an empty body.
var (
	// ErrMalformed covers JSON parse failures, field type mismatches,
	// and explicit null for a non-nullable field.
	ErrMalformed = errors.New("malformed request")
	// ErrDuplicateID covers a create whose id already exists.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrFKMissing covers a Visit referencing an absent User/Location.
	ErrFKMissing = errors.New("foreign key missing")
	// ErrBadQuery covers a recognized query parameter that fails to
	// parse, invalid year arithmetic, or an invalid gender literal.
	ErrBadQuery = errors.New("bad query")
	// ErrNotFound covers an update/read against an id that doesn't exist.
	ErrNotFound = errors.New("not found")
)
