package utils

import (
	"image"
)

// BoundingRect derives the selection rectangle from ROI points. The top-left
// corner is the point with the smallest x+y and the bottom-right corner the
// point with the largest x+y; ties keep the earlier point. The result is not
// canonicalised, so inverted selections stay detectable as empty.
func BoundingRect(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}

	tl, br := points[0], points[0]
	for _, p := range points[1:] {
		if p.X+p.Y < tl.X+tl.Y {
			tl = p
		}
		if p.X+p.Y > br.X+br.Y {
			br = p
		}
	}
	return image.Rectangle{Min: tl, Max: br}
}

// FrameBounds returns the rectangle covering a cols x rows frame.
func FrameBounds(cols, rows int) image.Rectangle {
	return image.Rect(0, 0, cols, rows)
}

// ClampRect intersects rect with the frame. An empty result is returned as
// the zero rectangle.
func ClampRect(rect image.Rectangle, imgWidth, imgHeight int) image.Rectangle {
	return rect.Intersect(FrameBounds(imgWidth, imgHeight))
}

// ExpandRect grows rect by margin on every side and clamps it to the frame.
func ExpandRect(rect image.Rectangle, margin, imgWidth, imgHeight int) image.Rectangle {
	return ClampRect(rect.Inset(-margin), imgWidth, imgHeight)
}

// ShiftWithin moves rect by (dx, dy) without letting it leave the frame. The
// size of rect is preserved when it fits inside the frame.
func ShiftWithin(rect image.Rectangle, dx, dy, imgWidth, imgHeight int) image.Rectangle {
	nx := clamp(rect.Min.X+dx, 0, imgWidth-rect.Dx())
	ny := clamp(rect.Min.Y+dy, 0, imgHeight-rect.Dy())
	return rect.Add(image.Pt(nx-rect.Min.X, ny-rect.Min.Y))
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
