package order

import (
	"errors"
	"fmt"

	"kds/internal/pkg/errs"
)

// ErrRiderHasNotArrived is the guard failure for READY -> DELIVERED.
var ErrRiderHasNotArrived = errors.New("rider has not arrived yet")

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	PENDING <──> IN_PROGRESS <──> READY <──> DELIVERED
//
// Each step can be undone by one step back. READY -> DELIVERED additionally
// requires the rider to have arrived.
type Status int

const (
	// Unknown is the zero value and never a valid lifecycle state.
	Unknown Status = iota
	Pending
	InProgress
	Ready
	Delivered
)

var statusNames = map[Status]string{
	Pending:    "PENDING",
	InProgress: "IN_PROGRESS",
	Ready:      "READY",
	Delivered:  "DELIVERED",
}

// allowedTransitions is the complete legal graph; order matters for messages.
var allowedTransitions = map[Status][]Status{
	Pending:    {InProgress},
	InProgress: {Ready, Pending},
	Ready:      {Delivered, InProgress},
	Delivered:  {Ready},
}

// ParseStatus converts the wire representation (e.g. "IN_PROGRESS").
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Statuses returns all valid statuses in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, InProgress, Ready, Delivered}
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// AllowedTransitions lists the statuses reachable from s in one step.
func (s Status) AllowedTransitions() []Status {
	allowed := allowedTransitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransitionTo reports whether target is adjacent to s, ignoring guards.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// ValidateTransition checks a status change against the legal graph and the
// rider-arrival guard. It has no side effects. Callers treat current == target
// as a no-op and never route it here; such a call is rejected like any other
// edge missing from the graph.
func ValidateTransition(current, target Status, riderArrived bool) error {
	if !current.CanTransitionTo(target) {
		allowed := current.AllowedTransitions()
		names := make([]string, 0, len(allowed))
		for _, next := range allowed {
			names = append(names, next.String())
		}
		return errs.NewTransitionIsInvalidError(current.String(), target.String(), names)
	}

	if current == Ready && target == Delivered && !riderArrived {
		return errs.NewTransitionIsInvalidErrorWithCause(current.String(), target.String(), ErrRiderHasNotArrived)
	}

	return nil
}
