package domain

import "errors"

// Sentinel errors for the mutation and registration paths. NotFound and the
// validation errors are rejected before any write; callers match them with
// errors.Is to pick the response.
var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateID     = errors.New("product id already exists")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidAction   = errors.New("unknown stock action")
	ErrInvalidPrice    = errors.New("price must be non-negative")
	ErrMissingField    = errors.New("required field missing")
)
