package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a state conflict: an illegal status transition, a
// mutation of a non-editable entity, or a lost update caught by a version check.
var ErrConflict = errors.New("resource conflict")

// ErrPersistence indicates a backing-store failure. Retry policy belongs to the caller.
var ErrPersistence = errors.New("persistence error")
