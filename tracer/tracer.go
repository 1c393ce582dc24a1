// Package tracer defines the ray-tracing backend contract consumed by
// renderers and a CPU transmittance-marching implementation.
package tracer

import (
	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/field"
)

// Kind identifiers used by the renderer registry.
const (
	KindRadiance = "radiance"
)

// Request carries one ray sub-batch through the tracer.
type Request struct {
	// Channels to evaluate for this batch.
	Channels core.ChannelSet

	// The ray sub-batch.
	Rays *core.Rays

	// Index of this sub-batch within the frame's partition.
	BatchIndex int

	// Marching policy.
	Method   core.RaymarchMethod
	NumSteps int

	// Background composited behind rays that miss the field.
	BGColor core.BGColorPolicy
}

// Tracer maps a ray batch plus a field to a partial render buffer.
type Tracer interface {
	// Registry kind identifier for this tracer class.
	Kind() string

	// Trace evaluates the requested channels for every ray in the
	// request and returns a buffer holding exactly one entry per ray.
	Trace(f field.RadianceField, req Request) (*core.RenderBuffer, error)
}
