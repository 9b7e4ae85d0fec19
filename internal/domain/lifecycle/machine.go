package lifecycle

import "context"

// Machine tracks the current status of a document version and validates
// transitions against the configured transition table.
type Machine interface {
	// Status returns the current status
	Status() Status

	// CanFire returns true if the trigger is permitted in the current status
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, moving to the new status if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current status
	PermittedTriggers() []Trigger
}
