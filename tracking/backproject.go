package tracking

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitracker/types"
)

// LikelihoodMap is a single-channel 8-bit map with the same size as the
// frame it was projected from. Each pixel holds the histogram value of that
// pixel's hue. Close must be called to release it.
type LikelihoodMap struct {
	gocv.Mat
}

// Mass returns the summed likelihood inside rect, clipped to the map.
func (l LikelihoodMap) Mass(rect image.Rectangle) float64 {
	rect = rect.Intersect(image.Rect(0, 0, l.Cols(), l.Rows()))
	if rect.Empty() {
		return 0
	}
	return regionMoments(l, rect)["m00"]
}

// BackProject maps every pixel of a BGR frame to the histogram bin value of
// its hue. It has no side effects and keeps no state between calls.
func BackProject(frame gocv.Mat, hist types.Histogram) (LikelihoodMap, error) {
	if frame.Empty() {
		return LikelihoodMap{}, errors.New("cannot back-project an empty frame")
	}
	if frame.Channels() != 3 {
		return LikelihoodMap{}, errors.Errorf("expected 3-channel BGR frame, got %d channels", frame.Channels())
	}
	if !hist.Valid() {
		return LikelihoodMap{}, errors.New("cannot back-project without a histogram")
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	if err := gocv.CvtColor(frame, &hsv, gocv.ColorBGRToHSV); err != nil {
		return LikelihoodMap{}, errors.Wrap(err, "convert frame to HSV")
	}

	model := histogramMat(hist)
	defer model.Close()

	// The final argument is forwarded to OpenCV as the scale factor, so true means 1.
	dst := gocv.NewMat()
	if err := gocv.CalcBackProject([]gocv.Mat{hsv}, []int{0}, model, &dst, []float64{0, types.HueRange}, true); err != nil {
		dst.Close()
		return LikelihoodMap{}, errors.Wrap(err, "back-project histogram")
	}

	return LikelihoodMap{Mat: dst}, nil
}
