package tracking

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"roitracker/types"
)

func newTrackingState(t *testing.T, square image.Rectangle) *types.AppState {
	t.Helper()
	state := types.NewAppState()
	frame := newFrame(t, 320, 240, blue)
	defer frame.Close()
	fillRect(&frame, square, green)
	require.NoError(t, frame.CopyTo(&state.Snapshot))

	state.Session.Mode = types.ModeSelectingROI
	state.Session.Points = []image.Point{square.Min, {square.Max.X, square.Min.Y}, {square.Min.X, square.Max.Y}, square.Max}
	return state
}

func TestInitializeTracking(t *testing.T) {
	square := image.Rect(100, 80, 140, 120)
	state := newTrackingState(t, square)
	defer state.Close()

	require.NoError(t, InitializeTracking(state, square))
	assert.Equal(t, types.ModeTracking, state.Session.Mode)
	assert.True(t, state.Histogram.Valid())
	assert.Equal(t, square, state.Region.Window)
	assert.InDelta(t, 120, state.Region.Box.CenterX, 1e-9)
	assert.InDelta(t, 100, state.Region.Box.CenterY, 1e-9)
}

func TestInitializeTracking_InvalidRegion(t *testing.T) {
	square := image.Rect(100, 80, 140, 120)
	state := newTrackingState(t, square)
	defer state.Close()

	err := InitializeTracking(state, image.Rectangle{Min: image.Pt(50, 50), Max: image.Pt(50, 50)})
	assert.ErrorIs(t, err, types.ErrInvalidRegion)
	assert.Equal(t, types.ModeSelectingROI, state.Session.Mode)
	assert.False(t, state.Histogram.Valid())
}

func TestProcessTracking_FollowsAndFreezes(t *testing.T) {
	square := image.Rect(100, 80, 140, 120)
	state := newTrackingState(t, square)
	defer state.Close()
	require.NoError(t, InitializeTracking(state, square))

	config := types.DefaultTrackingConfig()

	moved := square.Add(image.Pt(5, 3))
	frame := newFrame(t, 320, 240, blue)
	defer frame.Close()
	fillRect(&frame, moved, green)

	box, ok := ProcessTracking(state, frame, config)
	require.True(t, ok)
	cx, cy := rectCenter(moved)
	assert.LessOrEqual(t, distance(box, cx, cy), 2.0)
	assert.Equal(t, 0, state.TrackLostCount)

	empty := newFrame(t, 320, 240, blue)
	defer empty.Close()

	held := state.Region
	frozen, ok := ProcessTracking(state, empty, config)
	assert.False(t, ok)
	assert.Equal(t, held.Box, frozen)
	assert.Equal(t, held, state.Region)
	assert.Equal(t, 1, state.TrackLostCount)
	assert.Equal(t, types.ModeTracking, state.Session.Mode)

	// the object returns to where the track was frozen
	_, ok = ProcessTracking(state, frame, config)
	assert.True(t, ok)
	assert.Equal(t, 0, state.TrackLostCount)
}

func TestProcessTracking_ResetsAfterMaxLostFrames(t *testing.T) {
	square := image.Rect(100, 80, 140, 120)
	state := newTrackingState(t, square)
	defer state.Close()
	require.NoError(t, InitializeTracking(state, square))

	config := types.DefaultTrackingConfig()
	config.MaxLostFrames = 3

	empty := newFrame(t, 320, 240, blue)
	defer empty.Close()

	for i := 1; i < config.MaxLostFrames; i++ {
		_, ok := ProcessTracking(state, empty, config)
		assert.False(t, ok)
		assert.Equal(t, types.ModeTracking, state.Session.Mode)
	}

	box, ok := ProcessTracking(state, empty, config)
	assert.False(t, ok)
	assert.True(t, box.Empty())
	assert.Equal(t, types.ModeIdle, state.Session.Mode)
	assert.Empty(t, state.Session.Points)
	assert.False(t, state.Histogram.Valid())
}

func TestProcessTracking_FreezesIndefinitelyWithoutLimit(t *testing.T) {
	square := image.Rect(100, 80, 140, 120)
	state := newTrackingState(t, square)
	defer state.Close()
	require.NoError(t, InitializeTracking(state, square))

	config := types.DefaultTrackingConfig()
	config.MaxLostFrames = 0

	empty := newFrame(t, 320, 240, blue)
	defer empty.Close()
	for i := 0; i < 30; i++ {
		ProcessTracking(state, empty, config)
	}
	assert.Equal(t, types.ModeTracking, state.Session.Mode)
	assert.Equal(t, 30, state.TrackLostCount)
}

func TestProcessTracking_BadFrameIsNotALoss(t *testing.T) {
	square := image.Rect(100, 80, 140, 120)
	state := newTrackingState(t, square)
	defer state.Close()
	require.NoError(t, InitializeTracking(state, square))

	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC1)
	defer gray.Close()

	box, updated := ProcessTracking(state, gray, types.DefaultTrackingConfig())
	assert.False(t, updated)
	assert.Equal(t, 0, state.TrackLostCount)
	assert.Equal(t, types.ModeTracking, state.Session.Mode)
	assert.Equal(t, state.Region.Box, box)
}

func TestProcessTracking_IdleIsNoop(t *testing.T) {
	state := types.NewAppState()
	defer state.Close()

	frame := newFrame(t, 32, 32, blue)
	defer frame.Close()

	box, ok := ProcessTracking(state, frame, types.DefaultTrackingConfig())
	assert.False(t, ok)
	assert.True(t, box.Empty())
}

func TestResetTracking(t *testing.T) {
	square := image.Rect(100, 80, 140, 120)
	state := newTrackingState(t, square)
	defer state.Close()
	require.NoError(t, InitializeTracking(state, square))
	state.TrackLostCount = 4

	ResetTracking(state)
	assert.Equal(t, types.ModeIdle, state.Session.Mode)
	assert.Nil(t, state.Session.Points)
	assert.False(t, state.Histogram.Valid())
	assert.Equal(t, types.TrackedRegion{}, state.Region)
	assert.Equal(t, 0, state.TrackLostCount)
}
