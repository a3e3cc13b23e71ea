// Package naming derives artifact and output paths and resolves output name
// collisions within a run.
//
// Fixed artifact names are defined here so stages, publishing, and tests
// agree on them.
package naming
