package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"

	"roitracker/recording"
	"roitracker/types"
)

var (
	Blue   = color.RGBA{B: 255}
	Red    = color.RGBA{R: 255}
	Green  = color.RGBA{G: 255}
	Yellow = color.RGBA{R: 255, G: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255}
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 120}
)

// DrawTrackedBox draws the oriented track box. A frozen (lost) track is
// drawn in red.
func DrawTrackedBox(frame *gocv.Mat, box types.RotatedBox, success bool, config types.UIConfig) {
	if box.Empty() {
		return
	}
	boxColor := Green
	if !success {
		boxColor = Red
	}

	pts := gocv.NewPointsVectorFromPoints([][]image.Point{box.Points()})
	defer pts.Close()
	if err := gocv.Polylines(frame, pts, true, boxColor, config.BoxThickness); err != nil {
		log.Printf("Error drawing track box: %v", err)
		return
	}

	if err := gocv.Circle(frame, box.Center(), config.PointRadius, Blue, -1); err != nil {
		log.Printf("Error drawing track center: %v", err)
	}
}

// DrawROIPoints marks the points clicked so far in the current selection.
func DrawROIPoints(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if state.Session.Mode != types.ModeSelectingROI {
		return
	}
	for _, p := range state.Session.Points {
		if err := gocv.Circle(frame, p, config.PointRadius, Green, 2); err != nil {
			log.Printf("Error drawing ROI point: %v", err)
		}
	}
}

// DrawStatusMessage draws the main status message
func DrawStatusMessage(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	var statusText string
	var textColor color.RGBA

	switch state.Session.Mode {
	case types.ModeSelectingROI:
		statusText = fmt.Sprintf("Click corner %d of %d, ESC: cancel", len(state.Session.Points)+1, types.MaxROIPoints)
		textColor = Yellow
	case types.ModeTracking:
		if state.TrackLostCount > 0 {
			statusText = fmt.Sprintf("Track lost (%d)", state.TrackLostCount)
			textColor = Red
		} else {
			statusText = "Tracking active"
			textColor = Green
		}
	default:
		statusText = "Press 'i' to select a region"
		textColor = Red
	}

	if err := gocv.PutText(frame, statusText, image.Pt(10, 30), gocv.FontHersheyPlain, config.StatusFontSize, textColor, 2); err != nil {
		log.Printf("Error adding status text: %v", err)
	}
}

// DrawRecordingStatus draws the recording status and timer
func DrawRecordingStatus(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if !state.IsRecording {
		return
	}

	duration := recording.GetRecordingDuration(state)
	recordingText := fmt.Sprintf("REC %02d:%02d", int(duration.Minutes()), int(duration.Seconds())%60)

	if err := gocv.PutText(frame, recordingText, image.Pt(10, 60), gocv.FontHersheyPlain, config.StatusFontSize, Red, 2); err != nil {
		log.Printf("Error adding recording text: %v", err)
	}
}

// HelpText returns the key help line for the current mode.
func HelpText(state *types.AppState) string {
	if state.Session.Mode == types.ModeSelectingROI {
		return "ROI: click 4 corners  Esc=cancel  q=quit"
	}
	return "Controls: i=select  r=reset  v=record  d=debug  q=quit"
}

// DrawHelpText draws the compact help text in the bottom corner
func DrawHelpText(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	helpY := frame.Rows() - config.HelpOffsetY
	helpText := HelpText(state)

	textSize := gocv.GetTextSize(helpText, gocv.FontHersheyPlain, config.HelpFontSize, 1)
	helpRect := image.Rect(5, helpY-5, textSize.X+15, helpY+textSize.Y+5)

	if err := gocv.Rectangle(frame, helpRect, Black, -1); err != nil {
		log.Printf("Error drawing help background: %v", err)
	}

	if err := gocv.PutText(frame, helpText, image.Pt(10, helpY+10), gocv.FontHersheyPlain, config.HelpFontSize, White, 1); err != nil {
		log.Printf("Error adding help text: %v", err)
	}
}

// DrawDebugLogs draws the debug log messages on screen
func DrawDebugLogs(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if !state.Session.DebugMode {
		return
	}

	state.DebugLogMutex.Lock()
	logs := make([]string, len(state.DebugLogs))
	copy(logs, state.DebugLogs)
	state.DebugLogMutex.Unlock()

	if len(logs) == 0 {
		return
	}

	// right side of the screen
	frameWidth := frame.Cols()
	startY := 100
	lineHeight := 20
	maxWidth := 400
	padding := 10

	debugHeight := len(logs)*lineHeight + padding*2
	debugRect := image.Rect(frameWidth-maxWidth-padding, startY-padding, frameWidth-padding, startY+debugHeight-padding)

	if err := gocv.Rectangle(frame, debugRect, Black, -1); err != nil {
		log.Printf("Error drawing debug background: %v", err)
	}

	headerText := fmt.Sprintf("Debug Logs (%d):", len(logs))
	if err := gocv.PutText(frame, headerText, image.Pt(frameWidth-maxWidth, startY), gocv.FontHersheyPlain, config.DebugFontSize, Yellow, 1); err != nil {
		log.Printf("Error adding debug header: %v", err)
	}

	for i, logMsg := range logs {
		y := startY + (i+1)*lineHeight
		if err := gocv.PutText(frame, truncate(logMsg, 50), image.Pt(frameWidth-maxWidth, y), gocv.FontHersheyPlain, config.DebugFontSize, White, 1); err != nil {
			log.Printf("Error adding debug text: %v", err)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// RenderFrame renders all UI elements on the frame
func RenderFrame(frame *gocv.Mat, state *types.AppState, box types.RotatedBox, trackingSuccess bool, config types.UIConfig) {
	if state.Session.Mode == types.ModeTracking {
		DrawTrackedBox(frame, box, trackingSuccess, config)
	}
	DrawROIPoints(frame, state, config)

	DrawStatusMessage(frame, state, config)
	DrawRecordingStatus(frame, state, config)
	DrawHelpText(frame, state, config)
	DrawDebugLogs(frame, state, config)
}

// PrintStartupInstructions prints the initial control instructions
func PrintStartupInstructions() {
	fmt.Println("Controls:")
	fmt.Println("- Press 'i' and click four corners around the object to start tracking")
	fmt.Println("- In selection mode: ESC cancels")
	fmt.Println("- Press 'r' to reset tracking")
	fmt.Println("- Press 'v' to start/stop video recording")
	fmt.Println("- Press 'd' to toggle debug mode (shows last N logs on screen)")
	fmt.Println("- Press 'q' or ESC to quit")
}
