// Package repository defines the shared data store for tables, orders,
// reservations, waitlist entries, floors, roles and employees, plus the
// optional MySQL and Redis adapters that sit beside it.  The sentinel
// errors below are reused by the service and handler layers so that
// failures can be distinguished with errors.Is and mapped to HTTP codes.
package repository

import "errors"

// ErrNotFound is returned when an entity with the requested ID does not
// exist.  Handlers translate it into a 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller lacks the capability for an
// operation.  Handlers translate it into a 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because of
// dependent state, such as deleting a floor that still has an occupied
// table.  Handlers translate it into a 409 response.
var ErrConflict = errors.New("conflict")

// ErrLastFloor is returned when deleting the only remaining floor.
var ErrLastFloor = errors.New("cannot delete the last floor")

// ErrProtected is returned when deleting a default system role.
var ErrProtected = errors.New("system role is protected")

// ErrInconsistentState marks a structural fault: a table whose status
// disagrees with the presence of a claiming order, or two active orders on
// one table.  It indicates a defect, not a user error.
var ErrInconsistentState = errors.New("inconsistent table/order state")
