package hsv

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"jordanella.com/cursor-tracker/internal/cv"
)

// Classifier builds a binary color mask from a profile's HSV bands and
// scores a cell by the share of matching pixels.
type Classifier struct {
	profile Profile
}

// NewClassifier creates a classifier for a validated profile
func NewClassifier(profile Profile) (*Classifier, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{profile: profile}, nil
}

// Profile returns the profile the classifier was built with
func (c *Classifier) Profile() Profile {
	return c.profile
}

// Classify converts the frame to HSV, ORs the band masks, applies one
// erode+dilate pass and reports the match ratio plus the centroid offset of
// the matched pixels from the frame center.
func (c *Classifier) Classify(frame *image.RGBA) cv.MatchResult {
	src, err := gocv.ImageToMatRGB(rebase(frame))
	if err != nil {
		return cv.FailedMatch(fmt.Errorf("failed to convert frame: %w", err))
	}
	defer src.Close()

	if src.Empty() {
		return cv.FailedMatch(fmt.Errorf("empty frame"))
	}

	hsvMat := gocv.NewMat()
	defer hsvMat.Close()
	gocv.CvtColor(src, &hsvMat, gocv.ColorBGRToHSV)

	mask := c.bandMask(hsvMat)
	defer mask.Close()

	denoised := c.denoise(mask)
	defer denoised.Close()

	total := denoised.Rows() * denoised.Cols()
	matched := gocv.CountNonZero(denoised)
	if total == 0 || matched == 0 {
		return cv.MatchResult{}
	}

	result := cv.MatchResult{Ratio: float64(matched) / float64(total)}

	m := gocv.Moments(denoised, true)
	if m00 := m["m00"]; m00 > 0 {
		cx := int(m["m10"] / m00)
		cy := int(m["m01"] / m00)
		result.OffsetX = cx - denoised.Cols()/2
		result.OffsetY = cy - denoised.Rows()/2
	}

	return result
}

// bandMask returns the union of all band masks
func (c *Classifier) bandMask(hsvMat gocv.Mat) gocv.Mat {
	mask := gocv.NewMat()
	for i, band := range c.profile.Bands {
		lower := gocv.NewScalar(float64(band.Lower.H), float64(band.Lower.S), float64(band.Lower.V), 0)
		upper := gocv.NewScalar(float64(band.Upper.H), float64(band.Upper.S), float64(band.Upper.V), 0)

		if i == 0 {
			gocv.InRangeWithScalar(hsvMat, lower, upper, &mask)
			continue
		}

		bandMat := gocv.NewMat()
		gocv.InRangeWithScalar(hsvMat, lower, upper, &bandMat)
		gocv.BitwiseOr(mask, bandMat, &mask)
		bandMat.Close()
	}
	return mask
}

// denoise drops isolated pixels with an erosion followed by a dilation
func (c *Classifier) denoise(mask gocv.Mat) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(c.profile.KernelSize, c.profile.KernelSize))
	defer kernel.Close()

	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(mask, &eroded, kernel)

	dilated := gocv.NewMat()
	gocv.Dilate(eroded, &dilated, kernel)
	return dilated
}

// rebase returns frame with its bounds moved to the origin. ImageToMatRGB
// indexes Pix by absolute coordinates, and Pix[0] is always the pixel at
// Rect.Min, so only the rectangle changes.
func rebase(frame *image.RGBA) *image.RGBA {
	if frame.Rect.Min == (image.Point{}) {
		return frame
	}
	return &image.RGBA{
		Pix:    frame.Pix,
		Stride: frame.Stride,
		Rect:   image.Rect(0, 0, frame.Rect.Dx(), frame.Rect.Dy()),
	}
}
