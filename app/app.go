// Package app runs the frame loop: acquire a frame, update the track,
// render the overlay and dispatch user input.
package app

import (
	"log"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitracker/input"
	"roitracker/recording"
	"roitracker/tracking"
	"roitracker/types"
	"roitracker/ui"
	"roitracker/utils"
)

// VideoSource delivers frames. NextFrame returns an error wrapping
// types.ErrEndOfStream when the stream is exhausted.
type VideoSource interface {
	NextFrame(dst *gocv.Mat) error
}

// DisplaySink shows a rendered frame.
type DisplaySink interface {
	Show(frame gocv.Mat)
}

// InputSource delivers user input. PollEvent must not block; WaitEvent
// blocks until an event is available.
type InputSource interface {
	PollEvent() input.Event
	WaitEvent() input.Event
}

// Config groups the configuration of every stage of the loop.
type Config struct {
	Tracking types.TrackingConfig
	Video    types.VideoConfig
	UI       types.UIConfig
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	return Config{
		Tracking: types.DefaultTrackingConfig(),
		Video:    types.DefaultVideoConfig(),
		UI:       types.DefaultUIConfig(),
	}
}

// Runner owns the session state and drives it from a single goroutine.
type Runner struct {
	source  VideoSource
	display DisplaySink
	events  InputSource
	config  Config
	state   *types.AppState

	frame   gocv.Mat
	overlay gocv.Mat
}

// NewRunner wires the collaborators into a runner. Close must be called to
// release its buffers.
func NewRunner(source VideoSource, display DisplaySink, events InputSource, config Config) *Runner {
	config.Tracking.Validate()
	return &Runner{
		source:  source,
		display: display,
		events:  events,
		config:  config,
		state:   types.NewAppState(),
		frame:   gocv.NewMat(),
		overlay: gocv.NewMat(),
	}
}

// State exposes the session state, e.g. to attach a debug logger.
func (r *Runner) State() *types.AppState {
	return r.state
}

// Close stops any recording and releases native buffers.
func (r *Runner) Close() error {
	recording.CleanupRecording(r.state)
	_ = r.frame.Close()
	_ = r.overlay.Close()
	return r.state.Close()
}

// Run processes frames until the stream ends or the user quits. The end of
// the stream is a normal return.
func (r *Runner) Run() error {
	for {
		if err := r.source.NextFrame(&r.frame); err != nil {
			if errors.Is(err, types.ErrEndOfStream) {
				log.Println("End of stream")
				return nil
			}
			return errors.Wrap(err, "acquire frame")
		}

		quit, err := r.Step()
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// Step processes the frame currently held by the runner: track, render,
// show and handle one input event. It reports whether the user quit.
func (r *Runner) Step() (bool, error) {
	r.state.FrameCount++
	r.state.Session.Bounds = utils.FrameBounds(r.frame.Cols(), r.frame.Rows())

	box, ok := tracking.ProcessTracking(r.state, r.frame, r.config.Tracking)
	r.render(box, ok)

	if r.dispatch(r.events.PollEvent()) {
		return true, nil
	}

	// tracking is suspended while the selection is open
	for r.state.Session.Mode == types.ModeSelectingROI {
		r.renderSelection()
		if r.dispatch(r.events.WaitEvent()) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Runner) render(box types.RotatedBox, ok bool) {
	if err := r.frame.CopyTo(&r.overlay); err != nil {
		log.Printf("Render error: %v\n", err)
		return
	}
	ui.RenderFrame(&r.overlay, r.state, box, ok, r.config.UI)
	if err := recording.WriteFrame(r.state, r.overlay); err != nil {
		log.Printf("Recording error: %v\n", err)
	}
	r.display.Show(r.overlay)
}

func (r *Runner) renderSelection() {
	if err := r.state.Snapshot.CopyTo(&r.overlay); err != nil {
		log.Printf("Render error: %v\n", err)
		return
	}
	ui.RenderFrame(&r.overlay, r.state, types.RotatedBox{}, false, r.config.UI)
	r.display.Show(r.overlay)
}

// dispatch applies ev to the session and performs the resulting side effect.
func (r *Runner) dispatch(ev input.Event) bool {
	session, action := input.HandleEvent(ev, r.state.Session)
	r.state.Session = session

	switch action {
	case input.ActionQuit:
		return true

	case input.ActionBeginSelection:
		// snapshot the raw frame; the live frame is not advanced until selection ends
		if err := r.frame.CopyTo(&r.state.Snapshot); err != nil {
			log.Printf("Selection snapshot failed: %v\n", err)
			tracking.ResetTracking(r.state)
		}

	case input.ActionCompleteSelection:
		r.completeSelection()

	case input.ActionCancelSelection, input.ActionReset:
		tracking.ResetTracking(r.state)

	case input.ActionToggleRecording:
		if err := recording.ToggleRecording(r.state, r.overlay, r.config.Video); err != nil {
			log.Printf("Recording error: %v\n", err)
		}
	}
	return false
}

// completeSelection seeds the colour model from the snapshot. An invalid
// selection returns the session to idle with the point buffer cleared.
func (r *Runner) completeSelection() {
	rect, _ := input.SelectionRect(r.state.Session)
	if err := tracking.InitializeTracking(r.state, rect); err != nil {
		log.Printf("Selection rejected: %v\n", err)
		tracking.ResetTracking(r.state)
	}
}
