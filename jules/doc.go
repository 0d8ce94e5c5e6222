// Package jules declares the directory layout of a JULES land surface
// model run for use with dirconf, and extracts run information such as
// the input files the namelists refer to.
package jules
