package tracking

import (
	"image"
	"log"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitracker/types"
)

// InitializeTracking builds the colour model of rect from the selection
// snapshot and seeds the tracked region with it. On error the previous
// tracking state is left untouched.
func InitializeTracking(state *types.AppState, rect image.Rectangle) error {
	hist, err := BuildHistogram(state.Snapshot, rect)
	if err != nil {
		return errors.Wrap(err, "build colour model")
	}

	state.Histogram = hist
	state.Region = types.NewTrackedRegion(rect)
	state.TrackLostCount = 0
	state.Session.Mode = types.ModeTracking
	log.Printf("Tracking started! ROI: %dx%d at (%d,%d)\n", rect.Dx(), rect.Dy(), rect.Min.X, rect.Min.Y)
	return nil
}

// ProcessTracking runs back-projection and mode-seeking on frame and returns
// the box to draw together with whether the track was updated this frame.
// A lost track is frozen in place until config.MaxLostFrames consecutive
// losses, after which tracking is reset.
func ProcessTracking(state *types.AppState, frame gocv.Mat, config types.TrackingConfig) (types.RotatedBox, bool) {
	if state.Session.Mode != types.ModeTracking || !state.Histogram.Valid() {
		return types.RotatedBox{}, false
	}

	likelihood, err := BackProject(frame, state.Histogram)
	if err != nil {
		log.Printf("Back-projection failed: %v\n", err)
		return state.Region.Box, false
	}
	defer likelihood.Close()

	region, box, err := updateTrack(likelihood, state.Region, config.Termination, config.SearchTolerance)
	if err == nil {
		state.TrackLostCount = 0
		state.Region = region
		return box, true
	}

	state.TrackLostCount++
	log.Printf("Track lost %d/%d at frame %d: %v\n", state.TrackLostCount, config.MaxLostFrames, state.FrameCount, err)

	if config.MaxLostFrames > 0 && state.TrackLostCount >= config.MaxLostFrames {
		ResetTracking(state)
		log.Println("Tracking lost permanently. Press 'i' to select a new region.")
		return types.RotatedBox{}, false
	}
	return state.Region.Box, false
}

// ResetTracking drops the colour model, the tracked region and any buffered
// selection points, returning the session to idle.
func ResetTracking(state *types.AppState) {
	state.Session.Mode = types.ModeIdle
	state.Session.Points = nil
	state.Histogram = types.Histogram{}
	state.Region = types.TrackedRegion{}
	state.TrackLostCount = 0
}
