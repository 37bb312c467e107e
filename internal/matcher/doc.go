// Package matcher runs the exhaustive retrieval experiment: every support
// image is compared with every query image and paired with the query of
// lowest divergence. A support image counts as retrieved when that query
// carries its own identifier.
package matcher
