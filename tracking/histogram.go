package tracking

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitracker/types"
	"roitracker/utils"
)

// BuildHistogram computes the normalised hue histogram of rect within a BGR
// frame. The rectangle must be non-empty, not inverted and fully inside the
// frame; otherwise ErrInvalidRegion is returned. The frame is not modified.
func BuildHistogram(frame gocv.Mat, rect image.Rectangle) (types.Histogram, error) {
	if frame.Empty() {
		return types.Histogram{}, errors.Wrap(types.ErrInvalidRegion, "frame is empty")
	}
	if frame.Channels() != 3 {
		return types.Histogram{}, errors.Errorf("expected 3-channel BGR frame, got %d channels", frame.Channels())
	}
	if rect.Empty() {
		return types.Histogram{}, errors.Wrapf(types.ErrInvalidRegion, "empty rectangle %v", rect)
	}
	if bounds := utils.FrameBounds(frame.Cols(), frame.Rows()); !rect.In(bounds) {
		return types.Histogram{}, errors.Wrapf(types.ErrInvalidRegion, "rectangle %v outside frame %v", rect, bounds)
	}

	roi := frame.Region(rect)
	defer roi.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(roi, &hsv, gocv.ColorBGRToHSV); err != nil {
		return types.Histogram{}, errors.Wrap(err, "convert region to HSV")
	}

	mask := gocv.NewMat()
	defer mask.Close()
	hist := gocv.NewMat()
	defer hist.Close()

	if err := gocv.CalcHist([]gocv.Mat{hsv}, []int{0}, mask, &hist, []int{types.HistogramBins}, []float64{0, types.HueRange}, false); err != nil {
		return types.Histogram{}, errors.Wrap(err, "compute hue histogram")
	}
	if err := gocv.Normalize(hist, &hist, 0, 255, gocv.NormMinMax); err != nil {
		return types.Histogram{}, errors.Wrap(err, "normalize hue histogram")
	}

	var bins [types.HistogramBins]float32
	for i := range bins {
		bins[i] = hist.GetFloatAt(i, 0)
	}
	return types.NewHistogram(bins), nil
}

// histogramMat converts a histogram into the single-column float matrix the
// OpenCV back-projection expects. The caller owns the returned Mat.
func histogramMat(h types.Histogram) gocv.Mat {
	bins := h.Bins()
	m := gocv.NewMatWithSize(len(bins), 1, gocv.MatTypeCV32F)
	for i, v := range bins {
		m.SetFloatAt(i, 0, v)
	}
	return m
}
