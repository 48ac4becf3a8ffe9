// Package dump parses the instrument's measurement logs: a text file of
// <line>...</line> blocks, each labelled with a measurement category and
// carrying a <data>: section of whitespace-separated numeric triples
// (field in mT, raw signal, calibrated value).
package dump
