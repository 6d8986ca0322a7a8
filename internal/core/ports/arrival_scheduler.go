package ports

import "kds/internal/core/domain/model/kernel"

// ArrivalScheduler keeps at most one pending rider-arrival callback per order.
type ArrivalScheduler interface {
	// Arm replaces any pending callback for id with a freshly delayed one.
	Arm(id kernel.UUID)

	// Cancel discards the pending callback for id, if any.
	Cancel(id kernel.UUID)
}
