package renderer

import (
	"time"

	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/datalayers"
	"github.com/lyra-render/lyra/field"
	"github.com/lyra-render/lyra/tracer"
	"github.com/lyra-render/lyra/types"
)

const (
	// Rays handed to the tracer per call. Bounds peak memory, not
	// parallelism; batches run sequentially.
	defaultBatchSize = 16384

	// Target step count for static (full fidelity) frames.
	defaultNumSteps = 16
)

// Options configure a radiance field renderer.
type Options struct {
	// Rays per tracer call. Defaults to 16384.
	BatchSize int

	// Target step count for static frames. Interactive frames use
	// max(NumSteps/4, 1). Defaults to 16.
	NumSteps int

	// Marching policy handed to the tracer. Defaults to voxel.
	Method core.RaymarchMethod

	// Tracer override. Defaults to tracer.NewRadianceTracer().
	Tracer tracer.Tracer
}

// RadianceFieldRenderer adapts a radiance field plus ray tracer to the
// host's per-frame lifecycle. It batches rays, forwards them to the
// tracer, reshapes and rescales the accumulated buffer and tracks the
// committed fidelity state that drives progressive refinement.
type RadianceFieldRenderer struct {
	field field.RadianceField
	tr    tracer.Tracer

	batchSize        int
	numSteps         int
	numStepsMovement int
	method           core.RaymarchMethod

	// Per-frame state copied from the payload by PreRender.
	curNumSteps int
	renderResX  int
	renderResY  int
	outputW     int
	outputH     int
	farClipping float32
	bgColor     core.BGColorPolicy
	channels    core.ChannelSet

	painter datalayers.Datalayers

	lastState struct {
		numSteps int
		channels core.ChannelSet
	}

	stats FrameStats
}

// NewRadianceFieldRenderer builds the adapter for a field. Construction
// selects the static and interactive step counts; the tracer is only
// invoked from Render.
func NewRadianceFieldRenderer(f field.RadianceField, opts Options) (*RadianceFieldRenderer, error) {
	if f == nil {
		return nil, ErrFieldNotDefined
	}
	if opts.BatchSize < 0 {
		return nil, ErrInvalidBatchSize
	}
	if opts.NumSteps < 0 {
		return nil, ErrInvalidStepCount
	}

	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = defaultBatchSize
	}
	numSteps := opts.NumSteps
	if numSteps == 0 {
		numSteps = defaultNumSteps
	}
	numStepsMovement := numSteps / 4
	if numStepsMovement < 1 {
		numStepsMovement = 1
	}
	tr := opts.Tracer
	if tr == nil {
		tr = tracer.NewRadianceTracer()
	}

	r := &RadianceFieldRenderer{
		field:            f,
		tr:               tr,
		batchSize:        batchSize,
		numSteps:         numSteps,
		numStepsMovement: numStepsMovement,
		method:           opts.Method,
		curNumSteps:      numSteps,
		bgColor:          core.BGBlack,
	}
	r.painter = datalayers.ForStructure(f.BLAS())
	return r, nil
}

func (r *RadianceFieldRenderer) Name() string {
	return "Neural Radiance Field"
}

func (r *RadianceFieldRenderer) DType() core.DType {
	return core.Float32
}

// PreRender copies the frame parameters into local state: resolutions,
// far clip, background policy and the step count matching the payload's
// interactivity.
func (r *RadianceFieldRenderer) PreRender(payload FramePayload) error {
	if err := payload.validate(); err != nil {
		return err
	}

	r.renderResX = payload.RenderResX
	r.renderResY = payload.RenderResY
	r.outputW = payload.Camera.Width
	r.outputH = payload.Camera.Height
	r.farClipping = payload.Camera.Far

	if payload.ClearColor == (types.Vec3{}) {
		r.bgColor = core.BGBlack
	} else {
		r.bgColor = core.BGWhite
	}

	if payload.InteractiveMode {
		r.curNumSteps = r.numStepsMovement
	} else {
		r.curNumSteps = r.numSteps
	}
	r.channels = payload.Channels
	return nil
}

// NeedsRefresh reports whether the previous frame was committed below
// the target step count or with a different channel set. The host uses
// it to re-trigger rendering at increasing fidelity once interaction
// stops.
func (r *RadianceFieldRenderer) NeedsRefresh(payload FramePayload) bool {
	return r.lastState.numSteps < r.numSteps ||
		!r.lastState.channels.Equal(r.channels)
}

// Render partitions the rays into fixed-size batches, traces each batch
// sequentially, accumulates the partial buffers, reshapes to the render
// resolution and rescales to the output resolution when they differ.
// Tracer failures propagate unchanged.
func (r *RadianceFieldRenderer) Render(rays *core.Rays) (*core.RenderBuffer, error) {
	start := time.Now()

	rb := core.NewRenderBuffer()
	batches := rays.Split(r.batchSize)
	for i, batch := range batches {
		part, err := r.tr.Trace(r.field, tracer.Request{
			Channels:   r.channels,
			Rays:       batch,
			BatchIndex: i,
			Method:     r.method,
			NumSteps:   r.curNumSteps,
			BGColor:    r.bgColor,
		})
		if err != nil {
			return nil, err
		}
		if err = rb.Add(part); err != nil {
			return nil, err
		}
	}

	if err := rb.Reshape(r.renderResY, r.renderResX); err != nil {
		return nil, err
	}
	if r.renderResX != r.outputW || r.renderResY != r.outputH {
		scaled, err := rb.Scale(r.outputH, r.outputW)
		if err != nil {
			return nil, err
		}
		rb = scaled
	}

	r.stats = FrameStats{
		RenderResX: r.renderResX,
		RenderResY: r.renderResY,
		OutputW:    r.outputW,
		OutputH:    r.outputH,
		Batches:    len(batches),
		Rays:       rays.Count(),
		NumSteps:   r.curNumSteps,
		RenderTime: time.Since(start),
	}
	return rb, nil
}

// PostRender commits the frame's step count and channel set for the
// next NeedsRefresh comparison.
func (r *RadianceFieldRenderer) PostRender() {
	r.lastState.numSteps = r.curNumSteps
	r.lastState.channels = r.channels.Clone()
}

// NeedsRedraw delegates to the datalayer painter; renderers without a
// painter always report true.
func (r *RadianceFieldRenderer) NeedsRedraw() bool {
	if r.painter == nil {
		return true
	}
	return r.painter.NeedsRedraw(r.field.BLAS())
}

// RegenerateDataLayers rebuilds the occupancy overlays from the field's
// acceleration structure.
func (r *RadianceFieldRenderer) RegenerateDataLayers() map[string]*core.PrimitivesPack {
	if r.painter == nil {
		return map[string]*core.PrimitivesPack{}
	}
	return r.painter.Regenerate(r.field.BLAS())
}

// Stats returns statistics for the last rendered frame.
func (r *RadianceFieldRenderer) Stats() FrameStats {
	return r.stats
}

func init() {
	// Default fallback: any field kind rendered through the radiance
	// tracer uses this adapter.
	Register(AnyField, tracer.KindRadiance, func(f field.RadianceField, opts Options) (RayTracedRenderer, error) {
		return NewRadianceFieldRenderer(f, opts)
	})
}
