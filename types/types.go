package types

import (
	"image"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Session is the state the ROI selection controller works on. It is a plain
// value so event handling can return a new Session instead of mutating one.
type Session struct {
	Mode      Mode
	Points    []image.Point
	Bounds    image.Rectangle
	DebugMode bool
}

// Full reports whether the point buffer holds a complete selection.
func (s Session) Full() bool {
	return len(s.Points) >= MaxROIPoints
}

// AppState holds the complete application state
type AppState struct {
	Session Session

	// Frame captured at the moment selection began
	Snapshot gocv.Mat

	// Tracking state
	Histogram      Histogram
	Region         TrackedRegion
	TrackLostCount int

	// Video recording
	IsRecording        bool
	VideoWriter        *gocv.VideoWriter
	RecordingStartTime time.Time
	// Frames written to the current recording, and how many of those
	// showed a frozen (lost) track
	RecordedFrames     int
	RecordedLostFrames int

	// Frame processing
	FrameCount int

	// Debug logging
	DebugLogs     []string
	DebugLogMutex sync.Mutex
}

// NewAppState returns an idle state. Close must be called to release the
// snapshot buffer.
func NewAppState() *AppState {
	return &AppState{
		Snapshot: gocv.NewMat(),
	}
}

// Close releases native resources held by the state.
func (s *AppState) Close() error {
	if s.VideoWriter != nil {
		_ = s.VideoWriter.Close()
		s.VideoWriter = nil
	}
	return s.Snapshot.Close()
}

// TerminationPolicy bounds the mode-seeking iterations of one frame.
type TerminationPolicy struct {
	// Epsilon is the minimum window displacement, in pixels, to keep iterating.
	Epsilon float64
	// MaxIterations is a hard cap on iterations.
	MaxIterations int
}

// DefaultTerminationPolicy returns ten iterations or a sub-pixel shift.
func DefaultTerminationPolicy() TerminationPolicy {
	return TerminationPolicy{
		Epsilon:       1,
		MaxIterations: 10,
	}
}

// TrackingConfig holds tracking configuration constants
type TrackingConfig struct {
	Termination TerminationPolicy
	// MaxLostFrames is the number of consecutive lost frames after which the
	// track is dropped. Zero keeps a lost track frozen indefinitely.
	MaxLostFrames int
	// SearchTolerance widens the converged window before orientation and
	// size are estimated.
	SearchTolerance int
}

// DefaultTrackingConfig returns the default tracking configuration
func DefaultTrackingConfig() TrackingConfig {
	return TrackingConfig{
		Termination:     DefaultTerminationPolicy(),
		MaxLostFrames:   12,
		SearchTolerance: 10,
	}
}

// Validate resets out-of-range values to their defaults.
func (c *TrackingConfig) Validate() {
	def := DefaultTrackingConfig()
	if c.Termination.Epsilon < 0 {
		c.Termination.Epsilon = def.Termination.Epsilon
	}
	if c.Termination.MaxIterations <= 0 {
		c.Termination.MaxIterations = def.Termination.MaxIterations
	}
	if c.MaxLostFrames < 0 {
		c.MaxLostFrames = def.MaxLostFrames
	}
	if c.SearchTolerance < 0 {
		c.SearchTolerance = def.SearchTolerance
	}
}

// VideoConfig holds video recording configuration
type VideoConfig struct {
	FPS        float64
	Codecs     []string
	FilePrefix string
}

// DefaultVideoConfig returns the default video configuration
func DefaultVideoConfig() VideoConfig {
	return VideoConfig{
		FPS:        30.0,
		Codecs:     []string{"H264", "avc1", "x264", "mp4v"},
		FilePrefix: "camshift",
	}
}

// UIConfig holds UI configuration constants
type UIConfig struct {
	HelpFontSize   float64
	StatusFontSize float64
	HelpOffsetY    int
	MaxDebugLogs   int
	DebugFontSize  float64
	PointRadius    int
	BoxThickness   int
}

// DefaultUIConfig returns the default UI configuration
func DefaultUIConfig() UIConfig {
	return UIConfig{
		HelpFontSize:   0.9,
		StatusFontSize: 1.5,
		HelpOffsetY:    60,
		MaxDebugLogs:   10,
		DebugFontSize:  0.8,
		PointRadius:    4,
		BoxThickness:   2,
	}
}

// DebugLogger provides thread-safe debug logging functionality
type DebugLogger struct {
	state          *AppState
	maxLogs        int
	originalOutput io.Writer
}

// NewDebugLogger creates a new debug logger
func NewDebugLogger(state *AppState, maxLogs int) *DebugLogger {
	return &DebugLogger{
		state:          state,
		maxLogs:        maxLogs,
		originalOutput: log.Default().Writer(),
	}
}

// Log adds a debug message to the log buffer
func (d *DebugLogger) Log(message string) {
	if !d.state.Session.DebugMode {
		return
	}

	d.state.DebugLogMutex.Lock()
	defer d.state.DebugLogMutex.Unlock()

	d.state.DebugLogs = append(d.state.DebugLogs, message)
	if len(d.state.DebugLogs) > d.maxLogs {
		d.state.DebugLogs = d.state.DebugLogs[len(d.state.DebugLogs)-d.maxLogs:]
	}
}

// GetLogs returns a copy of the current debug logs
func (d *DebugLogger) GetLogs() []string {
	d.state.DebugLogMutex.Lock()
	defer d.state.DebugLogMutex.Unlock()

	logs := make([]string, len(d.state.DebugLogs))
	copy(logs, d.state.DebugLogs)
	return logs
}

// Write implements io.Writer so standard log output lands in the on-screen buffer.
func (d *DebugLogger) Write(p []byte) (n int, err error) {
	if d.originalOutput != nil {
		_, _ = d.originalOutput.Write(p)
	}

	if d.state.Session.DebugMode {
		if message := stripLogPrefix(strings.TrimSpace(string(p))); message != "" {
			d.Log(message)
		}
	}

	return len(p), nil
}

// stripLogPrefix removes the "2006/01/02 15:04:05 " prefix of the standard logger.
func stripLogPrefix(message string) string {
	if len(message) > 19 && message[4] == '/' && message[7] == '/' && message[10] == ' ' {
		if spaceIndex := strings.Index(message[11:], " "); spaceIndex != -1 {
			return message[11+spaceIndex+1:]
		}
	}
	return message
}

// SetAsLogOutput configures this debug logger to capture standard log output
func (d *DebugLogger) SetAsLogOutput() {
	log.SetOutput(d)
}

// RestoreOriginalLogOutput restores the original log output
func (d *DebugLogger) RestoreOriginalLogOutput() {
	if d.originalOutput != nil {
		log.SetOutput(d.originalOutput)
	}
}
