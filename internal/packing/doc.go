// Package packing holds the candidate-solution model shared by every search
// driver: items, capacity-bounded containers, the packing state built from
// them, constructive seeding, the repair pass and the cost function.
package packing
