package types

import "github.com/pkg/errors"

var (
	// ErrEndOfStream is returned by a video source once no further frames can
	// be read. It ends the frame loop and is not a failure.
	ErrEndOfStream = errors.New("end of stream")

	// ErrInvalidRegion is returned when a selected region is empty, inverted
	// or not fully inside the frame.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrTrackLost is returned when the search window holds no likelihood mass.
	ErrTrackLost = errors.New("track lost")
)
