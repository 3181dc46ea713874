// Package repository contains the data access layer, separated from
// HTTP handlers.  Each entity gets its own repository type wrapping a
// *sql.DB, hand-written SQL and sentinel errors the handlers translate
// into HTTP status codes.  This file defines errors shared across
// repositories.
package repository

import "errors"

// ErrConflict is returned when an insert or delete cannot proceed
// because of conflicting state, such as creating a policy with a
// number that already exists for the same building, or deleting a
// building that still has policies.  Handlers translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")
