// Package chart renders the PNG figures of the analysis: loop overlays,
// mirrored-loop comparisons, calibration fits and saturation scatter
// plots.
package chart
