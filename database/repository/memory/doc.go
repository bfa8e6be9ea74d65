// Package memoryRepo holds map-backed repositories with the same contracts as the
// Mongo ones. Services and handlers use them in tests.
package memoryRepo
