// Package actor identifies the employee performing an action so services can
// attribute ledger movements and log who triggered them.
package actor

import (
	"context"
	"fmt"
)

// SystemID is the actor id used for seeding, resets and other unattended work
const SystemID = "system"

// Actor represents the employee performing an action.
type Actor struct {
	// EmpID is the employee number from the lookup service
	EmpID string `json:"emp_id"`

	Name string `json:"name"`

	// Dept is the department code (DEPT)
	Dept string `json:"dept,omitempty"`
}

// String returns a string representation of the actor for logging
func (a *Actor) String() string {
	if a == nil {
		return SystemID
	}
	if a.Name == "" {
		return a.EmpID
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.EmpID)
}

// ID returns the employee id, or SystemID for a nil actor
func (a *Actor) ID() string {
	if a == nil {
		return SystemID
	}
	return a.EmpID
}

type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if no actor is present (e.g., system operations).
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, ok := ctx.Value(actorContextKey).(*Actor)
	if !ok {
		return nil
	}
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}

// SystemActor returns an Actor representing the service itself.
func SystemActor() *Actor {
	return &Actor{EmpID: SystemID, Name: "System"}
}

// IsSystem returns true if the actor represents the system.
func (a *Actor) IsSystem() bool {
	return a == nil || a.EmpID == SystemID
}
