// Package table handles the CSV side of the toolchain: reading measured
// loops from three-column CSV files, converting raw triple-column text
// dumps to CSV, and exporting per-experiment feature tables.
package table
