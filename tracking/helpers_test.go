package tracking

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"roitracker/types"
)

var (
	// pure hues: green is 60 (bin 5), blue is 120 (bin 10)
	green = color.RGBA{G: 255}
	blue  = color.RGBA{B: 255}
)

// newFrame returns a cols x rows BGR frame filled with bg.
func newFrame(t *testing.T, cols, rows int, bg color.RGBA) gocv.Mat {
	t.Helper()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(float64(bg.B), float64(bg.G), float64(bg.R), 0), rows, cols, gocv.MatTypeCV8UC3)
	require.False(t, frame.Empty())
	return frame
}

// fillRect paints rect with a solid colour.
func fillRect(frame *gocv.Mat, rect image.Rectangle, c color.RGBA) {
	_ = gocv.Rectangle(frame, rect, c, -1)
}

// rectCenter returns the centroid of the pixels covered by rect.
func rectCenter(rect image.Rectangle) (float64, float64) {
	return float64(rect.Min.X+rect.Max.X-1) / 2, float64(rect.Min.Y+rect.Max.Y-1) / 2
}

func distance(box types.RotatedBox, x, y float64) float64 {
	return math.Hypot(box.CenterX-x, box.CenterY-y)
}

// greenHistogram is a model that only matches green hues.
func greenHistogram() types.Histogram {
	var bins [types.HistogramBins]float32
	bins[types.BinForHue(60)] = 255
	return types.NewHistogram(bins)
}
