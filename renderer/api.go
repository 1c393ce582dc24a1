// Package renderer contains the per-frame lifecycle contract between
// the viewer host and field renderers, the renderer registry and the
// radiance-field renderer adapter.
package renderer

import (
	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/scene"
	"github.com/lyra-render/lyra/types"
)

// FramePayload is the per-frame context the host hands to renderers.
// It is read-only to renderers.
type FramePayload struct {
	// Internal render resolution. May be lower than the camera's
	// output resolution while the user interacts with the view.
	RenderResX int
	RenderResY int

	// Camera carries the output resolution and clip extents.
	Camera *scene.Camera

	// Window clear color.
	ClearColor types.Vec3

	// True while the user is moving the camera; renderers trade
	// fidelity for responsiveness.
	InteractiveMode bool

	// Channels requested for this frame.
	Channels core.ChannelSet
}

func (p FramePayload) validate() error {
	if p.RenderResX < 1 || p.RenderResY < 1 {
		return ErrInvalidResolution
	}
	if p.Camera == nil {
		return ErrCameraNotDefined
	}
	if p.Camera.Width < 1 || p.Camera.Height < 1 {
		return ErrInvalidResolution
	}
	return nil
}

// RayTracedRenderer is implemented by renderer adapters driven by the
// host's fixed per-frame lifecycle: PreRender, NeedsRefresh, Render,
// PostRender.
type RayTracedRenderer interface {
	// Human readable name of the object this renderer paints.
	Name() string

	// Numeric precision of the produced buffers.
	DType() core.DType

	// PreRender copies frame parameters into local state ahead of
	// Render.
	PreRender(payload FramePayload) error

	// NeedsRefresh reports whether the host should re-trigger
	// rendering, either because the previous frame was traced below
	// the target fidelity or because the channel set changed.
	NeedsRefresh(payload FramePayload) bool

	// Render traces the frame's rays and returns a buffer shaped to
	// the output resolution.
	Render(rays *core.Rays) (*core.RenderBuffer, error)

	// PostRender commits the frame's fidelity state for the next
	// NeedsRefresh comparison.
	PostRender()

	// NeedsRedraw reports whether the visualization overlays must be
	// regenerated.
	NeedsRedraw() bool

	// RegenerateDataLayers rebuilds the visualization overlays.
	RegenerateDataLayers() map[string]*core.PrimitivesPack
}
