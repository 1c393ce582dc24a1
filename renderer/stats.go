package renderer

import "time"

// FrameStats describes the last rendered frame.
type FrameStats struct {
	// Internal render resolution and final output resolution.
	RenderResX, RenderResY int
	OutputW, OutputH       int

	// Number of tracer sub-batches and total rays traced.
	Batches int
	Rays    int

	// Step count used for the frame.
	NumSteps int

	// Total render time for the frame.
	RenderTime time.Duration
}
