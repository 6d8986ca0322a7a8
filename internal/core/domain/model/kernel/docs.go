// Package kernel holds the value objects shared by the order domain:
//   - UUID: opaque identifier assigned to orders at creation
//   - Money: an amount in minor currency units with its currency code
//
// Both are immutable and their zero values are invalid.
package kernel
