// Package fresnel computes the polarization state of light reflected at
// the interface between a dense and a rare medium, covering both the
// sub-critical regime (real Fresnel coefficients, linear output) and
// total internal reflection (unit-modulus complex coefficients,
// elliptical output).
//
// The package is a pure calculator: no I/O, no state.
package fresnel
