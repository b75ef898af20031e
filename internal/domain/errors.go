package domain

import "errors"

// ErrNotFound is returned by service functions when the requested record
// does not exist in its collection.
// Handlers should map this to HTTP 404 on reads. Updates and deletes of a
// missing record are no-ops and never surface it.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, negative amount, unknown category).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrMalformedSnapshot is returned when an incoming snapshot document (file
// import or sync link) cannot be decoded. Nothing is written when it occurs.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// ErrConfirmationRequired is returned by destructive operations that were
// invoked without an explicit confirmation.
// Handlers should map this to HTTP 409 Conflict.
var ErrConfirmationRequired = errors.New("confirmation required")
