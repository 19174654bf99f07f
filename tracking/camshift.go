package tracking

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitracker/types"
	"roitracker/utils"
)

// DefaultSearchTolerance is the margin added around the converged window
// before the orientation and size of the mass are measured.
const DefaultSearchTolerance = 10

const (
	// massEpsilon is the smallest total likelihood treated as non-zero.
	massEpsilon = 1e-9
	// isotropyEpsilon is the relative eccentricity below which mass is
	// treated as having no orientation.
	isotropyEpsilon = 1e-9
)

// regionMoments returns the spatial and central moments of rect.
func regionMoments(lm LikelihoodMap, rect image.Rectangle) map[string]float64 {
	roi := lm.Region(rect)
	defer roi.Close()
	return gocv.Moments(roi, false)
}

// roundInt rounds half to even, which keeps a symmetric blob from drifting by
// one pixel per iteration.
func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}

// MeanShift moves window towards the centroid of the likelihood mass it
// covers until the shift drops below policy.Epsilon or policy.MaxIterations
// iterations ran. It returns the converged window and the iteration count.
// If the seed window holds no mass the window is returned unchanged together
// with ErrTrackLost.
func MeanShift(lm LikelihoodMap, window image.Rectangle, policy types.TerminationPolicy) (image.Rectangle, int, error) {
	cols, rows := lm.Cols(), lm.Rows()
	cur := utils.ClampRect(window, cols, rows)
	if cur.Empty() {
		return window, 0, errors.Wrapf(types.ErrTrackLost, "window %v does not overlap the %dx%d map", window, cols, rows)
	}

	if lm.Mass(cur) < massEpsilon {
		return window, 0, errors.Wrapf(types.ErrTrackLost, "no likelihood mass in window %v", cur)
	}

	minShift := policy.Epsilon * policy.Epsilon
	iterations := 0
	for iterations < policy.MaxIterations {
		m := regionMoments(lm, cur)
		if m["m00"] < massEpsilon {
			break
		}

		dx := roundInt(m["m10"]/m["m00"] - float64(cur.Dx())*0.5)
		dy := roundInt(m["m01"]/m["m00"] - float64(cur.Dy())*0.5)
		next := utils.ShiftWithin(cur, dx, dy, cols, rows)
		shift := next.Min.Sub(cur.Min)
		cur = next
		iterations++

		if float64(shift.X*shift.X+shift.Y*shift.Y) < minShift {
			break
		}
	}
	return cur, iterations, nil
}

// CamShift runs MeanShift from window and then fits an oriented box to the
// mass around the converged window using its second-order central moments.
// The returned region carries both the box and the axis-aligned window for
// the next frame.
func CamShift(lm LikelihoodMap, window image.Rectangle, policy types.TerminationPolicy, tolerance int) (types.TrackedRegion, error) {
	converged, _, err := MeanShift(lm, window, policy)
	if err != nil {
		return types.TrackedRegion{}, err
	}

	cols, rows := lm.Cols(), lm.Rows()
	search := utils.ExpandRect(converged, tolerance, cols, rows)
	m := regionMoments(lm, search)
	m00 := m["m00"]
	if m00 < massEpsilon {
		return types.TrackedRegion{}, errors.Wrapf(types.ErrTrackLost, "no likelihood mass around window %v", converged)
	}

	inv := 1 / m00
	xc := roundInt(m["m10"]*inv + float64(search.Min.X))
	yc := roundInt(m["m01"]*inv + float64(search.Min.Y))

	mu20, mu11, mu02 := m["mu20"], m["mu11"], m["mu02"]
	a, b, c := mu20*inv, mu11*inv, mu02*inv
	// principal axis of the mass; an isotropic blob keeps the axis-aligned frame
	theta := 0.5 * math.Atan2(2*b, a-c)
	if math.Hypot(2*b, a-c) <= isotropyEpsilon*(a+c) {
		theta = 0
	}
	cs, sn := math.Cos(theta), math.Sin(theta)

	rotateA := cs*cs*mu20 + 2*cs*sn*mu11 + sn*sn*mu02
	rotateC := sn*sn*mu20 - 2*cs*sn*mu11 + cs*cs*mu02
	length := math.Sqrt(math.Max(rotateA, 0)*inv) * 4
	width := math.Sqrt(math.Max(rotateC, 0)*inv) * 4

	// length is the major axis
	if length < width {
		length, width = width, length
		cs, sn = sn, cs
		theta = math.Pi/2 - theta
	}

	w := max(roundInt(math.Abs(length*cs)), roundInt(math.Abs(width*sn))) + 2
	w = min(w, (cols-xc)*2)
	h := max(roundInt(math.Abs(length*sn)), roundInt(math.Abs(width*cs))) + 2
	h = min(h, (rows-yc)*2)

	x := max(0, xc-w/2)
	y := max(0, yc-h/2)
	w = min(cols-x, w)
	h = min(rows-y, h)

	next := image.Rect(x, y, x+w, y+h)
	box := types.RotatedBox{
		CenterX: float64(x) + float64(w)*0.5,
		CenterY: float64(y) + float64(h)*0.5,
		Width:   width,
		Height:  length,
		Angle:   normalizeAngle((math.Pi/2 + theta) * 180 / math.Pi),
	}
	return types.TrackedRegion{Box: box, Window: next}, nil
}

// normalizeAngle folds degrees into [0, 180).
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 180 {
		deg -= 180
	}
	return deg
}

// UpdateTrack advances prior by one frame on lm. When the seed window holds
// no mass, prior is returned unchanged together with ErrTrackLost so the
// caller can freeze the track.
func UpdateTrack(lm LikelihoodMap, prior types.TrackedRegion, policy types.TerminationPolicy) (types.TrackedRegion, types.RotatedBox, error) {
	return updateTrack(lm, prior, policy, DefaultSearchTolerance)
}

func updateTrack(lm LikelihoodMap, prior types.TrackedRegion, policy types.TerminationPolicy, tolerance int) (types.TrackedRegion, types.RotatedBox, error) {
	region, err := CamShift(lm, prior.Window, policy, tolerance)
	if err != nil {
		return prior, prior.Box, err
	}
	return region, region.Box, nil
}
