package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lyra-render/lyra/accel"
	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/field"
	"github.com/lyra-render/lyra/scene"
	"github.com/lyra-render/lyra/tracer"
	"github.com/lyra-render/lyra/types"
)

// stubField is a minimal field implementation; the fake tracer never
// samples it.
type stubField struct {
	blas accel.Structure
}

func newStubField() *stubField {
	return &stubField{blas: accel.NewAABB(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))}
}

func (s *stubField) Kind() string                       { return "stub" }
func (s *stubField) Name() string                       { return "Stub Field" }
func (s *stubField) BLAS() accel.Structure              { return s.blas }
func (s *stubField) SupportedChannels() core.ChannelSet { return core.NewChannelSet(core.ChannelRGB) }
func (s *stubField) Sample(pts, dirs []types.Vec3) ([]float32, []float32, error) {
	return make([]float32, len(pts)*3), make([]float32, len(pts)), nil
}

// fakeTracer records every request and derives outputs purely from ray
// content, so batched tracing accumulates to the same buffer as a
// single call.
type fakeTracer struct {
	requests []tracer.Request
	err      error
}

func (f *fakeTracer) Kind() string { return "fake" }

func (f *fakeTracer) Trace(_ field.RadianceField, req tracer.Request) (*core.RenderBuffer, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, req)

	n := req.Rays.Count()
	rb := core.NewRenderBuffer()
	rb.Hit = make([]bool, n)
	rgb := make([]float32, n*3)
	alpha := make([]float32, n)
	for i := 0; i < n; i++ {
		rb.Hit[i] = true
		rgb[i*3] = req.Rays.Origins[i][0]
		rgb[i*3+1] = req.Rays.Origins[i][1]
		rgb[i*3+2] = req.Rays.Dirs[i][2]
		alpha[i] = req.Rays.Origins[i][0] * 0.5
	}
	if err := rb.SetChannel(core.ChannelRGB, 3, rgb); err != nil {
		return nil, err
	}
	if err := rb.SetChannel(core.ChannelAlpha, 1, alpha); err != nil {
		return nil, err
	}
	return rb, nil
}

func testRays(count int) *core.Rays {
	origins := make([]types.Vec3, count)
	dirs := make([]types.Vec3, count)
	for i := 0; i < count; i++ {
		origins[i] = types.XYZ(float32(i), float32(i)*0.5, 0)
		dirs[i] = types.XYZ(0, 0, -1)
	}
	return &core.Rays{Origins: origins, Dirs: dirs, DistMax: 100}
}

func testPayload(renderW, renderH, outW, outH int, interactive bool) FramePayload {
	return FramePayload{
		RenderResX:      renderW,
		RenderResY:      renderH,
		Camera:          scene.NewCamera(45, outW, outH),
		InteractiveMode: interactive,
		Channels:        core.NewChannelSet(core.ChannelRGB, core.ChannelAlpha),
	}
}

func TestNewRadianceFieldRendererValidation(t *testing.T) {
	_, err := NewRadianceFieldRenderer(nil, Options{})
	require.ErrorIs(t, err, ErrFieldNotDefined)

	_, err = NewRadianceFieldRenderer(newStubField(), Options{BatchSize: -1})
	require.ErrorIs(t, err, ErrInvalidBatchSize)

	_, err = NewRadianceFieldRenderer(newStubField(), Options{NumSteps: -1})
	require.ErrorIs(t, err, ErrInvalidStepCount)
}

func TestRendererIdentity(t *testing.T) {
	r, err := NewRadianceFieldRenderer(newStubField(), Options{})
	require.NoError(t, err)
	require.Equal(t, "Neural Radiance Field", r.Name())
	require.Equal(t, core.Float32, r.DType())
}

func TestPreRenderValidatesPayload(t *testing.T) {
	r, err := NewRadianceFieldRenderer(newStubField(), Options{})
	require.NoError(t, err)

	payload := testPayload(0, 4, 4, 4, false)
	require.ErrorIs(t, r.PreRender(payload), ErrInvalidResolution)

	payload = testPayload(4, 4, 4, 4, false)
	payload.Camera = nil
	require.ErrorIs(t, r.PreRender(payload), ErrCameraNotDefined)
}

func TestStepCountSelection(t *testing.T) {
	fake := &fakeTracer{}
	r, err := NewRadianceFieldRenderer(newStubField(), Options{NumSteps: 16, Tracer: fake})
	require.NoError(t, err)

	// Interactive frames drop to a quarter of the target step count.
	require.NoError(t, r.PreRender(testPayload(2, 2, 2, 2, true)))
	_, err = r.Render(testRays(4))
	require.NoError(t, err)
	require.Equal(t, 4, fake.requests[0].NumSteps)

	require.NoError(t, r.PreRender(testPayload(2, 2, 2, 2, false)))
	_, err = r.Render(testRays(4))
	require.NoError(t, err)
	require.Equal(t, 16, fake.requests[len(fake.requests)-1].NumSteps)
}

func TestBackgroundColorPolicy(t *testing.T) {
	fake := &fakeTracer{}
	r, err := NewRadianceFieldRenderer(newStubField(), Options{Tracer: fake})
	require.NoError(t, err)

	payload := testPayload(2, 2, 2, 2, false)
	require.NoError(t, r.PreRender(payload))
	_, err = r.Render(testRays(4))
	require.NoError(t, err)
	require.Equal(t, core.BGBlack, fake.requests[0].BGColor)

	payload.ClearColor = types.XYZ(1, 1, 1)
	require.NoError(t, r.PreRender(payload))
	_, err = r.Render(testRays(4))
	require.NoError(t, err)
	require.Equal(t, core.BGWhite, fake.requests[len(fake.requests)-1].BGColor)
}

func TestRenderPartitionsRays(t *testing.T) {
	fake := &fakeTracer{}
	r, err := NewRadianceFieldRenderer(newStubField(), Options{BatchSize: 32, Tracer: fake})
	require.NoError(t, err)

	require.NoError(t, r.PreRender(testPayload(10, 10, 10, 10, false)))
	_, err = r.Render(testRays(100))
	require.NoError(t, err)

	require.Len(t, fake.requests, 4)
	total := 0
	for i, req := range fake.requests {
		require.Equal(t, i, req.BatchIndex)
		total += req.Rays.Count()
		require.LessOrEqual(t, req.Rays.Count(), 32)
	}
	require.Equal(t, 100, total)
}

// Rendering in N batches vs a single batch must yield an equivalent
// buffer.
func TestRenderBatchEquivalence(t *testing.T) {
	render := func(batchSize int) *core.RenderBuffer {
		r, err := NewRadianceFieldRenderer(newStubField(), Options{BatchSize: batchSize, Tracer: &fakeTracer{}})
		require.NoError(t, err)
		require.NoError(t, r.PreRender(testPayload(10, 10, 10, 10, false)))
		rb, err := r.Render(testRays(100))
		require.NoError(t, err)
		return rb
	}

	whole := render(1000)
	batched := render(7)

	require.Equal(t, whole.Count(), batched.Count())
	for _, name := range whole.Channels() {
		require.Equal(t, whole.Channel(name), batched.Channel(name), "channel %q", name)
	}
}

func TestRenderOutputAlwaysMatchesOutputResolution(t *testing.T) {
	type spec struct {
		renderW, renderH int
		outW, outH       int
	}
	specs := []spec{
		{8, 8, 8, 8},
		{8, 8, 16, 16},
		{16, 8, 4, 12},
	}

	for _, s := range specs {
		r, err := NewRadianceFieldRenderer(newStubField(), Options{Tracer: &fakeTracer{}})
		require.NoError(t, err)
		require.NoError(t, r.PreRender(testPayload(s.renderW, s.renderH, s.outW, s.outH, false)))

		rb, err := r.Render(testRays(s.renderW * s.renderH))
		require.NoError(t, err)

		h, w := rb.Dims()
		require.Equal(t, s.outH, h)
		require.Equal(t, s.outW, w)
	}
}

func TestRenderPropagatesTracerErrors(t *testing.T) {
	boom := errors.New("tracer exploded")
	r, err := NewRadianceFieldRenderer(newStubField(), Options{Tracer: &fakeTracer{err: boom}})
	require.NoError(t, err)

	require.NoError(t, r.PreRender(testPayload(2, 2, 2, 2, false)))
	_, err = r.Render(testRays(4))
	require.ErrorIs(t, err, boom)
}

func TestNeedsRefreshLifecycle(t *testing.T) {
	r, err := NewRadianceFieldRenderer(newStubField(), Options{NumSteps: 16, Tracer: &fakeTracer{}})
	require.NoError(t, err)

	payload := testPayload(2, 2, 2, 2, false)

	// Nothing committed yet.
	require.NoError(t, r.PreRender(payload))
	require.True(t, r.NeedsRefresh(payload))

	_, err = r.Render(testRays(4))
	require.NoError(t, err)
	r.PostRender()
	require.False(t, r.NeedsRefresh(payload))

	// Changing the channel set invalidates the committed state.
	payload.Channels = core.NewChannelSet(core.ChannelRGB, core.ChannelDepth)
	require.NoError(t, r.PreRender(payload))
	require.True(t, r.NeedsRefresh(payload))

	// An interactive frame commits below the target step count, so a
	// refresh is requested until a static frame lands.
	payload.Channels = core.NewChannelSet(core.ChannelRGB, core.ChannelAlpha)
	payload.InteractiveMode = true
	require.NoError(t, r.PreRender(payload))
	_, err = r.Render(testRays(4))
	require.NoError(t, err)
	r.PostRender()
	require.True(t, r.NeedsRefresh(payload))

	payload.InteractiveMode = false
	require.NoError(t, r.PreRender(payload))
	_, err = r.Render(testRays(4))
	require.NoError(t, err)
	r.PostRender()
	require.False(t, r.NeedsRefresh(payload))
}

func TestStatsRecorded(t *testing.T) {
	r, err := NewRadianceFieldRenderer(newStubField(), Options{BatchSize: 3, Tracer: &fakeTracer{}})
	require.NoError(t, err)

	require.NoError(t, r.PreRender(testPayload(4, 2, 4, 2, false)))
	_, err = r.Render(testRays(8))
	require.NoError(t, err)

	stats := r.Stats()
	require.Equal(t, 8, stats.Rays)
	require.Equal(t, 3, stats.Batches)
	require.Equal(t, 4, stats.RenderResX)
	require.Equal(t, 2, stats.RenderResY)
}

func TestDataLayersDelegation(t *testing.T) {
	r, err := NewRadianceFieldRenderer(newStubField(), Options{Tracer: &fakeTracer{}})
	require.NoError(t, err)

	// The stub field carries an AABB, so the box painter applies.
	require.True(t, r.NeedsRedraw())
	layers := r.RegenerateDataLayers()
	require.Len(t, layers, 1)
	require.False(t, r.NeedsRedraw())
}
