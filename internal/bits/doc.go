// Package bits owns MSB-first bit storage and cursor primitives.
//
// Ownership boundary:
// - hex text to bit buffer conversion
// - bounded forward cursor used by packet decoding
package bits
