package viewer

import (
	"math"
	"time"
)

// Render resolution scale limits while interacting.
const (
	minRenderScale = 0.125
	maxRenderScale = 1.0
)

// The resolution scaler assumes that the volume of tracing work between
// two subsequent frames is approximately the same: it picks the render
// resolution for the next interactive frame from the time the last one
// took, so camera movement stays responsive regardless of field cost.
type resScaler struct {
	targetFrameTime time.Duration
	scale           float64
}

func newResScaler(targetFrameTime time.Duration) *resScaler {
	return &resScaler{
		targetFrameTime: targetFrameTime,
		scale:           maxRenderScale,
	}
}

// RenderRes returns the interactive render resolution for the given
// output resolution.
func (s *resScaler) RenderRes(outW, outH int) (int, int) {
	w := int(float64(outW) * s.scale)
	h := int(float64(outH) * s.scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Observe feeds back the last frame's render time. Pixel cost scales
// with area, so the scale moves with the square root of the time ratio.
func (s *resScaler) Observe(frameTime time.Duration) {
	if frameTime <= 0 {
		return
	}

	ratio := float64(s.targetFrameTime) / float64(frameTime)
	if ratio > 1 {
		// Grow slowly to avoid oscillating around the budget.
		ratio = 1 + (ratio-1)*0.25
	}
	s.scale *= math.Sqrt(ratio)

	if s.scale < minRenderScale {
		s.scale = minRenderScale
	}
	if s.scale > maxRenderScale {
		s.scale = maxRenderScale
	}
}
