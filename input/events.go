package input

import "image"

// Event is a single user input delivered by an input source.
type Event interface {
	isEvent()
}

// KeyPressed carries a key code as returned by the display window.
type KeyPressed struct {
	Code int
}

// MouseClicked carries the frame coordinate of a click.
type MouseClicked struct {
	Point image.Point
}

// NoEvent is returned by a non-blocking poll when nothing happened.
type NoEvent struct{}

func (KeyPressed) isEvent()   {}
func (MouseClicked) isEvent() {}
func (NoEvent) isEvent()      {}

// Key bindings
const (
	KeyEscape      = 27
	KeyQuit        = 'q'
	KeySelect      = 'i'
	KeyReset       = 'r'
	KeyRecord      = 'v'
	KeyDebugToggle = 'd'
)

// Action tells the frame loop which side effect an event requires.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionBeginSelection
	ActionCompleteSelection
	ActionCancelSelection
	ActionReset
	ActionToggleRecording
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionQuit:
		return "quit"
	case ActionBeginSelection:
		return "begin-selection"
	case ActionCompleteSelection:
		return "complete-selection"
	case ActionCancelSelection:
		return "cancel-selection"
	case ActionReset:
		return "reset"
	case ActionToggleRecording:
		return "toggle-recording"
	default:
		return "unknown"
	}
}
