package types

import (
	"image"
	"math"
)

// Mode is the interaction mode of a tracking session.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSelectingROI
	ModeTracking
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeSelectingROI:
		return "selecting"
	case ModeTracking:
		return "tracking"
	default:
		return "unknown"
	}
}

const (
	// HistogramBins is the number of hue bins in a colour model.
	HistogramBins = 16
	// HueRange is the exclusive upper bound of 8-bit OpenCV hue values.
	HueRange = 180
	// MaxROIPoints is the number of clicks that complete a selection.
	MaxROIPoints = 4
)

// Histogram is a min-max normalised hue histogram. Bin values lie in [0, 255].
// It is a value type and is never modified after construction.
type Histogram struct {
	bins  [HistogramBins]float32
	valid bool
}

// NewHistogram wraps already normalised bin values.
func NewHistogram(bins [HistogramBins]float32) Histogram {
	return Histogram{bins: bins, valid: true}
}

// Bins returns a copy of the bin values.
func (h Histogram) Bins() [HistogramBins]float32 {
	return h.bins
}

// Valid reports whether the histogram was built from a region.
func (h Histogram) Valid() bool {
	return h.valid
}

// Max returns the largest bin value.
func (h Histogram) Max() float32 {
	var m float32
	for _, v := range h.bins {
		if v > m {
			m = v
		}
	}
	return m
}

// BinForHue returns the bin index a hue value in [0, HueRange) falls into.
func BinForHue(hue int) int {
	if hue < 0 {
		return 0
	}
	bin := hue * HistogramBins / HueRange
	if bin >= HistogramBins {
		return HistogramBins - 1
	}
	return bin
}

// RotatedBox is an oriented rectangle. Angle is in degrees within [0, 180)
// and Height is the length along the major axis.
type RotatedBox struct {
	CenterX float64
	CenterY float64
	Width   float64
	Height  float64
	Angle   float64
}

// Center returns the box centre rounded to pixel coordinates.
func (b RotatedBox) Center() image.Point {
	return image.Pt(int(math.Round(b.CenterX)), int(math.Round(b.CenterY)))
}

// Empty reports whether the box has no area.
func (b RotatedBox) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Points returns the four corners of the box in drawing order.
func (b RotatedBox) Points() []image.Point {
	rad := b.Angle * math.Pi / 180
	cs := math.Cos(rad) * 0.5
	sn := math.Sin(rad) * 0.5

	x0 := b.CenterX - sn*b.Height - cs*b.Width
	y0 := b.CenterY + cs*b.Height - sn*b.Width
	x1 := b.CenterX + sn*b.Height - cs*b.Width
	y1 := b.CenterY - cs*b.Height - sn*b.Width
	x2 := 2*b.CenterX - x0
	y2 := 2*b.CenterY - y0
	x3 := 2*b.CenterX - x1
	y3 := 2*b.CenterY - y1

	return []image.Point{
		image.Pt(int(math.Round(x0)), int(math.Round(y0))),
		image.Pt(int(math.Round(x1)), int(math.Round(y1))),
		image.Pt(int(math.Round(x2)), int(math.Round(y2))),
		image.Pt(int(math.Round(x3)), int(math.Round(y3))),
	}
}

// TrackedRegion pairs the best-fit oriented box of a frame with the
// axis-aligned window that seeds the next frame's search.
type TrackedRegion struct {
	Box    RotatedBox
	Window image.Rectangle
}

// NewTrackedRegion seeds a region from an axis-aligned rectangle.
func NewTrackedRegion(window image.Rectangle) TrackedRegion {
	c := window.Min.Add(window.Max)
	return TrackedRegion{
		Box: RotatedBox{
			CenterX: float64(c.X) / 2,
			CenterY: float64(c.Y) / 2,
			Width:   float64(window.Dx()),
			Height:  float64(window.Dy()),
		},
		Window: window,
	}
}
