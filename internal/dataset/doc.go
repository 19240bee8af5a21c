// Package dataset defines the three course datasets: their expected CSV
// columns, in destination order, and the record types they decode into.
package dataset
