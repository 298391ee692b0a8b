// Package core defines the shared language of gdpplot.
//
// This package contains:
//   - Dataset entities (DatasetConfig, RawTable, Point, SeriesMap)
//   - Error kinds surfaced by loading and extraction
//   - Run history entities and the Store interface
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
