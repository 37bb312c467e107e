// Package pipeline loads the support and query sets of a dataset and runs
// matching over them.
package pipeline
