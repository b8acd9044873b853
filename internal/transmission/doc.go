// Package transmission runs one decode job end to end.
//
// Ownership boundary:
// - text source to packet tree pipeline
// - version-sum and evaluation modes
// - per-stage logging and metrics
package transmission
