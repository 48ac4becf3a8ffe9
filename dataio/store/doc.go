// Package store reads and writes the JSON experiment stores: the raw
// store grouping measured loops by category and the improved store
// carrying normalized loops with their centres and tail means.
package store
