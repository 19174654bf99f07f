package recording

import (
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitracker/types"
)

// FileName returns the output file for a recording started at t while the
// session was in mode.
func FileName(config types.VideoConfig, mode types.Mode, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s.mp4", config.FilePrefix, mode, t.Format("20060102_150405"))
}

// DescribeTrack summarises the tracking state for recording logs.
func DescribeTrack(state *types.AppState) string {
	switch state.Session.Mode {
	case types.ModeTracking:
		w := state.Region.Window
		if state.TrackLostCount > 0 {
			return fmt.Sprintf("track lost %d frames at %dx%d+%d+%d", state.TrackLostCount, w.Dx(), w.Dy(), w.Min.X, w.Min.Y)
		}
		return fmt.Sprintf("tracking %dx%d+%d+%d", w.Dx(), w.Dy(), w.Min.X, w.Min.Y)
	case types.ModeSelectingROI:
		return fmt.Sprintf("selecting, %d/%d points", len(state.Session.Points), types.MaxROIPoints)
	default:
		return "no track"
	}
}

// Summary reports how much of the current recording was written and how
// much of it showed a lost track.
func Summary(state *types.AppState) string {
	return fmt.Sprintf("%d frames (%d with track lost) in %s",
		state.RecordedFrames, state.RecordedLostFrames, GetRecordingDuration(state).Round(time.Second))
}

// StartRecording starts recording rendered frames sized like frame.
func StartRecording(state *types.AppState, frame gocv.Mat, config types.VideoConfig) error {
	if state.IsRecording {
		return errors.New("recording already active")
	}
	if frame.Empty() {
		return errors.New("cannot size a recording from an empty frame")
	}

	now := time.Now()
	filename := FileName(config, state.Session.Mode, now)

	var vw *gocv.VideoWriter
	var err error
	var usedCodec string

	for _, fourcc := range config.Codecs {
		vw, err = gocv.VideoWriterFile(filename, fourcc, config.FPS, frame.Cols(), frame.Rows(), true)
		if err == nil {
			usedCodec = fourcc
			break
		}
	}
	if vw == nil && err == nil {
		err = errors.New("no codecs configured")
	}
	if err != nil {
		return errors.Wrapf(err, "open %s with codecs %v", filename, config.Codecs)
	}

	state.VideoWriter = vw
	state.IsRecording = true
	state.RecordingStartTime = now
	state.RecordedFrames = 0
	state.RecordedLostFrames = 0
	log.Printf("Recording started: %s (codec: %s, %s)\n", filename, usedCodec, DescribeTrack(state))

	return nil
}

// StopRecording closes the writer and logs what was captured.
func StopRecording(state *types.AppState) error {
	if !state.IsRecording {
		return errors.New("no active recording")
	}

	if state.VideoWriter != nil {
		if err := state.VideoWriter.Close(); err != nil {
			return errors.Wrap(err, "close video writer")
		}
		state.VideoWriter = nil
	}

	log.Printf("Recording stopped: %s, %s\n", Summary(state), DescribeTrack(state))
	state.IsRecording = false

	return nil
}

// ToggleRecording toggles video recording on/off
func ToggleRecording(state *types.AppState, frame gocv.Mat, config types.VideoConfig) error {
	if state.IsRecording {
		return StopRecording(state)
	}
	return StartRecording(state, frame, config)
}

// WriteFrame appends a rendered frame to the active recording and counts it
// against the current track state.
func WriteFrame(state *types.AppState, frame gocv.Mat) error {
	if !state.IsRecording || state.VideoWriter == nil {
		return nil
	}
	if err := state.VideoWriter.Write(frame); err != nil {
		return errors.Wrapf(err, "write frame %d", state.FrameCount)
	}
	countFrame(state)
	return nil
}

func countFrame(state *types.AppState) {
	state.RecordedFrames++
	if state.Session.Mode == types.ModeTracking && state.TrackLostCount > 0 {
		state.RecordedLostFrames++
	}
}

// GetRecordingDuration returns the duration of the current recording
func GetRecordingDuration(state *types.AppState) time.Duration {
	if !state.IsRecording {
		return 0
	}
	return time.Since(state.RecordingStartTime)
}

// CleanupRecording ensures recording is properly stopped and cleaned up
func CleanupRecording(state *types.AppState) {
	if state.IsRecording {
		if err := StopRecording(state); err != nil {
			log.Printf("Recording error: %v\n", err)
		}
	}
}
