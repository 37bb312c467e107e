// Package dataset loads a directory of images as identified, decoded
// entries for a retrieval run.
package dataset
