// Package packet owns the transmission packet model, decoder, and evaluator.
//
// Ownership boundary:
// - literal/operator packet tree
// - recursive and explicit-stack decoding with exact bit accounting
// - evaluation, version sum, and inspection reports
package packet
