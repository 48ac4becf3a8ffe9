// Package report renders the plain-text analysis artifacts: loop-centre
// summaries, improvement (tail-mean) summaries, calibration reports and
// the rotation/ellipticity relation report.
package report
