package store

import "errors"

// ErrNotFound is returned by lookups when no record has the requested id.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by ValidateTrip when a trip fails the edit-screen
// rules (missing title, end date before start date).
var ErrValidation = errors.New("validation error")

// ErrDecode is returned by Import when the payload is not a JSON array of templates.
var ErrDecode = errors.New("decode error")
