package core

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"
)

var (
	ErrChannelArityMismatch = errors.New("core: channel data length is not a multiple of its arity")
	ErrBufferShapeMismatch  = errors.New("core: render buffers have different channel sets")
	ErrBufferNotReshaped    = errors.New("core: render buffer has no dimensions; call Reshape first")
	ErrMissingRGBChannel    = errors.New("core: render buffer has no rgb channel")
)

// RenderBuffer accumulates per-ray tracer outputs. Values are stored as
// flat per-ray channel slices until Reshape records the frame dims.
type RenderBuffer struct {
	// Per-ray hit flags.
	Hit []bool

	channels map[string][]float32
	arity    map[string]int

	h, w int
}

func NewRenderBuffer() *RenderBuffer {
	return &RenderBuffer{
		channels: make(map[string][]float32),
		arity:    make(map[string]int),
	}
}

// SetChannel stores flat channel data with the given per-ray arity.
func (rb *RenderBuffer) SetChannel(name string, arity int, data []float32) error {
	if arity < 1 || len(data)%arity != 0 {
		return ErrChannelArityMismatch
	}
	rb.channels[name] = data
	rb.arity[name] = arity
	return nil
}

// Channel returns the flat data slice for a channel, or nil.
func (rb *RenderBuffer) Channel(name string) []float32 {
	return rb.channels[name]
}

// Arity returns the per-ray component count for a channel.
func (rb *RenderBuffer) Arity(name string) int {
	return rb.arity[name]
}

// Channels returns the stored channel names in stable order.
func (rb *RenderBuffer) Channels() []string {
	names := make([]string, 0, len(rb.channels))
	for name := range rb.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of rays accumulated so far.
func (rb *RenderBuffer) Count() int {
	return len(rb.Hit)
}

// Dims returns the frame dimensions recorded by Reshape.
func (rb *RenderBuffer) Dims() (h, w int) {
	return rb.h, rb.w
}

// Add concatenates another buffer's per-ray data onto this one. An
// empty receiver adopts the other buffer's channel set; otherwise the
// channel sets must match. Concatenation is associative across any
// partition of the ray set, which is what makes batched tracing
// equivalent to a single call.
func (rb *RenderBuffer) Add(other *RenderBuffer) error {
	if other.Count() == 0 && len(other.channels) == 0 {
		return nil
	}
	if rb.Count() == 0 && len(rb.channels) == 0 {
		rb.Hit = append(rb.Hit, other.Hit...)
		for name, data := range other.channels {
			rb.channels[name] = append([]float32(nil), data...)
			rb.arity[name] = other.arity[name]
		}
		return nil
	}
	if len(rb.channels) != len(other.channels) {
		return ErrBufferShapeMismatch
	}
	for name := range rb.channels {
		if _, ok := other.channels[name]; !ok || rb.arity[name] != other.arity[name] {
			return ErrBufferShapeMismatch
		}
	}
	rb.Hit = append(rb.Hit, other.Hit...)
	for name, data := range other.channels {
		rb.channels[name] = append(rb.channels[name], data...)
	}
	return nil
}

// Reshape records the frame dimensions. The accumulated ray count must
// match h*w exactly.
func (rb *RenderBuffer) Reshape(h, w int) error {
	if h < 1 || w < 1 {
		return fmt.Errorf("core: cannot reshape render buffer to %dx%d", h, w)
	}
	if rb.Count() != h*w {
		return fmt.Errorf("core: cannot reshape %d rays to %dx%d", rb.Count(), h, w)
	}
	for name, data := range rb.channels {
		if len(data) != h*w*rb.arity[name] {
			return fmt.Errorf("core: channel %q holds %d values, want %d", name, len(data), h*w*rb.arity[name])
		}
	}
	rb.h, rb.w = h, w
	return nil
}

// Scale resamples the buffer to the given dimensions using bilinear
// filtering for channel data and nearest-neighbour for hit flags. The
// buffer must have been reshaped. Returns the receiver unchanged when
// the dims already match.
func (rb *RenderBuffer) Scale(h, w int) (*RenderBuffer, error) {
	if rb.h == 0 || rb.w == 0 {
		return nil, ErrBufferNotReshaped
	}
	if h < 1 || w < 1 {
		return nil, fmt.Errorf("core: cannot scale render buffer to %dx%d", h, w)
	}
	if h == rb.h && w == rb.w {
		return rb, nil
	}

	out := NewRenderBuffer()
	out.h, out.w = h, w
	out.Hit = make([]bool, h*w)

	scaleY := float32(rb.h) / float32(h)
	scaleX := float32(rb.w) / float32(w)

	for y := 0; y < h; y++ {
		srcY := int((float32(y) + 0.5) * scaleY)
		if srcY >= rb.h {
			srcY = rb.h - 1
		}
		for x := 0; x < w; x++ {
			srcX := int((float32(x) + 0.5) * scaleX)
			if srcX >= rb.w {
				srcX = rb.w - 1
			}
			out.Hit[y*w+x] = rb.Hit[srcY*rb.w+srcX]
		}
	}

	for name, data := range rb.channels {
		arity := rb.arity[name]
		scaled := make([]float32, h*w*arity)
		for y := 0; y < h; y++ {
			// Map the destination pixel center back into source space.
			fy := (float32(y)+0.5)*scaleY - 0.5
			y0, ty := splitCoord(fy, rb.h)
			y1 := y0 + 1
			if y1 >= rb.h {
				y1 = rb.h - 1
			}
			for x := 0; x < w; x++ {
				fx := (float32(x)+0.5)*scaleX - 0.5
				x0, tx := splitCoord(fx, rb.w)
				x1 := x0 + 1
				if x1 >= rb.w {
					x1 = rb.w - 1
				}
				for c := 0; c < arity; c++ {
					v00 := data[(y0*rb.w+x0)*arity+c]
					v01 := data[(y0*rb.w+x1)*arity+c]
					v10 := data[(y1*rb.w+x0)*arity+c]
					v11 := data[(y1*rb.w+x1)*arity+c]
					top := v00 + (v01-v00)*tx
					bot := v10 + (v11-v10)*tx
					scaled[(y*w+x)*arity+c] = top + (bot-top)*ty
				}
			}
		}
		out.channels[name] = scaled
		out.arity[name] = arity
	}

	return out, nil
}

// splitCoord clamps a source-space coordinate and splits it into an
// integer cell index and a fractional interpolation weight.
func splitCoord(f float32, max int) (int, float32) {
	if f < 0 {
		return 0, 0
	}
	i := int(f)
	if i >= max-1 {
		return max - 1, 0
	}
	return i, f - float32(i)
}

// RGBA converts the rgb channel (and alpha channel if present) into an
// 8-bit image suitable for display or encoding.
func (rb *RenderBuffer) RGBA() (*image.RGBA, error) {
	if rb.h == 0 || rb.w == 0 {
		return nil, ErrBufferNotReshaped
	}
	rgb, ok := rb.channels[ChannelRGB]
	if !ok {
		return nil, ErrMissingRGBChannel
	}
	alpha := rb.channels[ChannelAlpha]

	img := image.NewRGBA(image.Rect(0, 0, rb.w, rb.h))
	for i := 0; i < rb.h*rb.w; i++ {
		a := uint8(255)
		if alpha != nil {
			a = quantize(alpha[i])
		}
		img.SetRGBA(i%rb.w, i/rb.w, color.RGBA{
			R: quantize(rgb[i*3]),
			G: quantize(rgb[i*3+1]),
			B: quantize(rgb[i*3+2]),
			A: a,
		})
	}
	return img, nil
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
