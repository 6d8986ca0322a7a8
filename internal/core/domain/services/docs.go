// Package services provides domain services of the kitchen display system that
// don't naturally belong to the Order aggregate.
//
// The package includes:
//   - ArrivalDelayPolicy: draws the simulated delay until a rider arrives
//
// Services here are pure: randomness is injected so behaviour is reproducible in tests.
package services
