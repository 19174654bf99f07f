package main

import (
	"flag"
	"log"

	"roitracker/app"
	"roitracker/types"
	"roitracker/ui"
	"roitracker/video"
)

func main() {
	var (
		videoPath string
		cameraID  int
		debug     bool
	)
	flag.StringVar(&videoPath, "video", "", "Path to the (optional) video file; the camera is used when empty")
	flag.IntVar(&cameraID, "camera", 0, "Camera device ID used when no video file is given")
	flag.BoolVar(&debug, "debug", false, "Start with the on-screen debug log enabled")
	flag.Parse()

	source, err := video.OpenSource(videoPath, cameraID)
	if err != nil {
		log.Fatalf("Error opening video source: %v", err)
	}
	defer source.Close()

	window := video.NewWindow("frame")
	defer window.Close()

	config := app.DefaultConfig()
	runner := app.NewRunner(source, window, window, config)
	defer runner.Close()

	logger := types.NewDebugLogger(runner.State(), config.UI.MaxDebugLogs)
	logger.SetAsLogOutput()
	defer logger.RestoreOriginalLogOutput()
	runner.State().Session.DebugMode = debug

	ui.PrintStartupInstructions()

	if err := runner.Run(); err != nil {
		log.Printf("Stopped: %v", err)
	}
}
