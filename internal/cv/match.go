package cv

import (
	"fmt"
	"image"
)

// MatchResult is the outcome of classifying a single scan cell
type MatchResult struct {
	Ratio   float64 // matched pixels / total pixels, in [0,1]
	OffsetX int     // centroid x minus cell center, 0 when Ratio is 0
	OffsetY int     // centroid y minus cell center, 0 when Ratio is 0
	Err     error   // set when capture or classification failed
}

// Failed reports whether the cell could not be sampled
func (m MatchResult) Failed() bool {
	return m.Err != nil
}

// String renders the result for logs
func (m MatchResult) String() string {
	if m.Err != nil {
		return fmt.Sprintf("ratio=0 error=%v", m.Err)
	}
	return fmt.Sprintf("ratio=%.3f offset=(%d,%d)", m.Ratio, m.OffsetX, m.OffsetY)
}

// FailedMatch builds the zero-ratio result used in place of a capture error
func FailedMatch(err error) MatchResult {
	return MatchResult{Err: err}
}

// Classifier turns a captured cell into a match ratio and centroid offset
type Classifier interface {
	Classify(frame *image.RGBA) MatchResult
}

// ClassifierFunc adapts a plain function to the Classifier interface
type ClassifierFunc func(frame *image.RGBA) MatchResult

// Classify calls f(frame)
func (f ClassifierFunc) Classify(frame *image.RGBA) MatchResult {
	return f(frame)
}
