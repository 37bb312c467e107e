// Package histogram holds the histogram types of decoded RGB images:
// per-channel counts, the additive joint-color histogram derived from them,
// epsilon-smoothed normalization and grid geometry. Counting itself is done
// on OpenCV Mats in package opencv.
package histogram
