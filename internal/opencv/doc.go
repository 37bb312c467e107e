// Package opencv is the gocv side of the module: decoding with imdecode,
// conversion between BGR Mats and RGB images, and histogram counting with
// CalcHist over whole images or grid regions.
package opencv
