// Package license gates access to the application. The oracle is an opaque
// network collaborator: the ledger never persists or reasons about its
// outcome beyond allow/deny, and an unreachable oracle is a retryable
// condition, never fatal to ledger operations.
package license

import "context"

// Status is the oracle's verdict on a key.
type Status string

const (
	StatusActive         Status = "active"
	StatusSuspended      Status = "suspended"
	StatusBoundHere      Status = "bound-here"
	StatusBoundElsewhere Status = "bound-elsewhere"
	StatusInvalid        Status = "invalid"
	StatusUnreachable    Status = "unreachable"
)

// Allowed reports whether the status opens the gate.
func (s Status) Allowed() bool {
	return s == StatusActive || s == StatusBoundHere
}

// Retryable distinguishes a transport failure from an explicit denial.
func (s Status) Retryable() bool {
	return s == StatusUnreachable
}

// Oracle validates a license key.
type Oracle interface {
	Check(ctx context.Context, key string) Status
}
