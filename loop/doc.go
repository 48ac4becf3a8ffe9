// Package loop provides the core numeric primitives for closed hysteresis
// loops: symmetry-centre estimation, the parity (point-reflection)
// transform, baseline normalization, and one-pass summary statistics.
//
// All functions treat their inputs as immutable and return fresh slices.
package loop
