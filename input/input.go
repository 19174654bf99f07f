package input

import (
	"image"
	"log"

	"roitracker/types"
	"roitracker/utils"
)

// HandleEvent is the ROI selection controller. It returns the session that
// results from ev together with the side effect the frame loop has to carry
// out. The given session is never modified.
func HandleEvent(ev Event, s types.Session) (types.Session, Action) {
	switch e := ev.(type) {
	case KeyPressed:
		return handleKey(e.Code&0xFF, s)
	case MouseClicked:
		return handleClick(e.Point, s)
	default:
		return s, ActionNone
	}
}

func handleKey(key int, s types.Session) (types.Session, Action) {
	switch key {
	case KeyEscape:
		return handleEscapeKey(s)

	case KeyQuit:
		return s, ActionQuit

	case KeySelect:
		if s.Mode == types.ModeSelectingROI || s.Full() {
			return s, ActionNone
		}
		s.Mode = types.ModeSelectingROI
		log.Println("ROI selection mode. Click four corners of the object, ESC to cancel.")
		return s, ActionBeginSelection

	case KeyReset:
		s.Mode = types.ModeIdle
		s.Points = nil
		log.Println("Tracking reset. Press 'i' to select a new region.")
		return s, ActionReset

	case KeyRecord:
		if s.Mode == types.ModeSelectingROI {
			return s, ActionNone
		}
		return s, ActionToggleRecording

	case KeyDebugToggle:
		s.DebugMode = !s.DebugMode
		if s.DebugMode {
			log.Println("Debug mode enabled - logs will appear on screen")
		} else {
			log.Println("Debug mode disabled")
		}
		return s, ActionNone
	}

	return s, ActionNone
}

// handleEscapeKey cancels an ongoing selection, otherwise it quits.
func handleEscapeKey(s types.Session) (types.Session, Action) {
	if s.Mode != types.ModeSelectingROI {
		return s, ActionQuit
	}
	s.Mode = types.ModeIdle
	s.Points = nil
	log.Println("ROI selection cancelled")
	return s, ActionCancelSelection
}

// handleClick buffers a point while selecting. Clicks outside the frame and
// clicks after the fourth point are ignored.
func handleClick(p image.Point, s types.Session) (types.Session, Action) {
	if s.Mode != types.ModeSelectingROI || s.Full() {
		return s, ActionNone
	}
	if !p.In(s.Bounds) {
		log.Printf("Ignoring click at (%d,%d) outside the frame\n", p.X, p.Y)
		return s, ActionNone
	}

	points := make([]image.Point, len(s.Points), len(s.Points)+1)
	copy(points, s.Points)
	s.Points = append(points, p)

	if !s.Full() {
		return s, ActionNone
	}
	s.Mode = types.ModeTracking
	return s, ActionCompleteSelection
}

// SelectionRect returns the bounding rectangle of a complete selection.
func SelectionRect(s types.Session) (image.Rectangle, bool) {
	if !s.Full() {
		return image.Rectangle{}, false
	}
	return utils.BoundingRect(s.Points[:types.MaxROIPoints]), true
}
