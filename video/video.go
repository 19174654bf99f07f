// Package video adapts gocv capture devices and HighGUI windows to the
// collaborator interfaces of the frame loop.
package video

import (
	"image"
	"log"
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"roitracker/input"
	"roitracker/types"
)

// CaptureSource reads frames from a camera or a video file.
type CaptureSource struct {
	capture *gocv.VideoCapture
	name    string
}

// OpenSource opens path as a video file, or the camera deviceID when path is
// empty.
func OpenSource(path string, deviceID int) (*CaptureSource, error) {
	if path == "" {
		capture, err := gocv.VideoCaptureDevice(deviceID)
		if err != nil {
			return nil, errors.Wrapf(err, "open camera %d", deviceID)
		}
		log.Printf("Reading camera device %d\n", deviceID)
		return &CaptureSource{capture: capture, name: "camera"}, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "video file %s", path)
	}
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open video file %s", path)
	}
	log.Printf("Reading video file %s\n", path)
	return &CaptureSource{capture: capture, name: path}, nil
}

// NextFrame reads the next frame into dst. A failed read or an empty frame
// ends the stream.
func (c *CaptureSource) NextFrame(dst *gocv.Mat) error {
	if ok := c.capture.Read(dst); !ok || dst.Empty() {
		return errors.Wrapf(types.ErrEndOfStream, "read %s", c.name)
	}
	return nil
}

// Close releases the capture device.
func (c *CaptureSource) Close() error {
	return c.capture.Close()
}

// Window shows frames and turns key presses and mouse selections into input
// events.
type Window struct {
	window  *gocv.Window
	last    gocv.Mat
	pending []input.Event
}

// NewWindow opens a named display window.
func NewWindow(name string) *Window {
	return &Window{
		window: gocv.NewWindow(name),
		last:   gocv.NewMat(),
	}
}

// Show displays frame and keeps a copy for point picking.
func (w *Window) Show(frame gocv.Mat) {
	if err := frame.CopyTo(&w.last); err != nil {
		log.Printf("Error keeping displayed frame: %v\n", err)
	}
	if err := w.window.IMShow(frame); err != nil {
		log.Printf("Error showing frame: %v\n", err)
	}
}

// PollEvent waits one millisecond for a key press.
func (w *Window) PollEvent() input.Event {
	if ev, ok := w.popPending(); ok {
		return ev
	}
	return keyEvent(w.window.WaitKey(1))
}

// WaitEvent blocks until the user picks a region on the last shown frame.
// HighGUI exposes mouse input only through its rectangle picker, so the
// picked rectangle is delivered as four corner clicks. An aborted pick is
// delivered as an escape key press.
func (w *Window) WaitEvent() input.Event {
	if ev, ok := w.popPending(); ok {
		return ev
	}
	if w.last.Empty() {
		return keyEvent(w.window.WaitKey(0))
	}

	rect := w.window.SelectROI(w.last)
	if rect.Empty() {
		return input.KeyPressed{Code: input.KeyEscape}
	}
	for _, p := range cornerPoints(rect) {
		w.pending = append(w.pending, input.MouseClicked{Point: p})
	}
	ev, _ := w.popPending()
	return ev
}

func (w *Window) popPending() (input.Event, bool) {
	if len(w.pending) == 0 {
		return nil, false
	}
	ev := w.pending[0]
	w.pending = w.pending[1:]
	return ev, true
}

// Close closes the window.
func (w *Window) Close() error {
	_ = w.last.Close()
	return w.window.Close()
}

// cornerPoints returns the corners of rect as pixel coordinates inside it.
func cornerPoints(rect image.Rectangle) []image.Point {
	maxX, maxY := rect.Max.X-1, rect.Max.Y-1
	return []image.Point{
		rect.Min,
		{X: maxX, Y: rect.Min.Y},
		{X: rect.Min.X, Y: maxY},
		{X: maxX, Y: maxY},
	}
}

func keyEvent(key int) input.Event {
	if key < 0 {
		return input.NoEvent{}
	}
	return input.KeyPressed{Code: key}
}
