package recording

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"roitracker/types"
)

func TestFileName(t *testing.T) {
	config := types.DefaultVideoConfig()
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "camshift_tracking_20240309_140507.mp4", FileName(config, types.ModeTracking, ts))
	assert.Equal(t, "camshift_idle_20240309_140507.mp4", FileName(config, types.ModeIdle, ts))
}

func TestDescribeTrack(t *testing.T) {
	state := types.NewAppState()
	defer state.Close()
	assert.Equal(t, "no track", DescribeTrack(state))

	state.Session.Mode = types.ModeSelectingROI
	state.Session.Points = []image.Point{{1, 1}, {5, 1}}
	assert.Equal(t, "selecting, 2/4 points", DescribeTrack(state))

	state.Session.Mode = types.ModeTracking
	state.Region = types.NewTrackedRegion(image.Rect(10, 20, 50, 80))
	assert.Equal(t, "tracking 40x60+10+20", DescribeTrack(state))

	state.TrackLostCount = 3
	assert.Equal(t, "track lost 3 frames at 40x60+10+20", DescribeTrack(state))
}

func TestCountFrame_SplitsLostFrames(t *testing.T) {
	state := types.NewAppState()
	defer state.Close()
	state.Session.Mode = types.ModeTracking

	countFrame(state)
	state.TrackLostCount = 1
	countFrame(state)
	countFrame(state)
	state.Session.Mode = types.ModeIdle
	countFrame(state)

	assert.Equal(t, 4, state.RecordedFrames)
	assert.Equal(t, 2, state.RecordedLostFrames)
	assert.Contains(t, Summary(state), "4 frames (2 with track lost)")
}

func TestStopRecording_NotActive(t *testing.T) {
	state := types.NewAppState()
	defer state.Close()

	assert.Error(t, StopRecording(state))
	assert.Zero(t, GetRecordingDuration(state))
	assert.NoError(t, WriteFrame(state, gocv.NewMat()))
}

func TestStartRecording_EmptyFrame(t *testing.T) {
	state := types.NewAppState()
	defer state.Close()
	frame := gocv.NewMat()
	defer frame.Close()

	assert.Error(t, StartRecording(state, frame, types.DefaultVideoConfig()))
	assert.False(t, state.IsRecording)
}

func TestStartRecording_AlreadyActive(t *testing.T) {
	state := types.NewAppState()
	defer state.Close()
	state.IsRecording = true
	frame := gocv.NewMat()
	defer frame.Close()

	assert.Error(t, StartRecording(state, frame, types.DefaultVideoConfig()))
}
