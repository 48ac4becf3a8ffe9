// Package feature extracts scalar figures of merit from a normalized
// hysteresis loop: saturation level from the tail means of the signal and
// coercivity from the signed area enclosed by the loop.
package feature
