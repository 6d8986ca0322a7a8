// Package order implements the Order aggregate of the kitchen display system.
//
// The package includes:
//   - Order: the aggregate root holding identity, lines, total and lifecycle state
//   - Status: the lifecycle states and the transition graph between them
//   - ValidateTransition: the pure check behind every status change
//   - ExternalID: the human-facing order code (GLO-123, MAN-001)
//   - Item and ComputeTotal: order lines and the derived total
//
// Key business rules:
//   - PENDING -> IN_PROGRESS -> READY -> DELIVERED, each step reversible by one
//   - READY -> DELIVERED requires the rider to have arrived
//   - the total is never set directly; it follows the items
package order
