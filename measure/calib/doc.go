// Package calib fits the linear calibration relations of the setup: the
// polarizer-offset calibration of loop centres, the signal-vs-angle
// calibration s = k*(theta + theta0), and the rotation/ellipticity
// relation between measurement categories.
package calib
