// Package field defines the neural-field model contract consumed by
// tracers and renderers, plus a baked dense-grid implementation used as
// the concrete model.
package field

import (
	"errors"
	"fmt"

	"github.com/lyra-render/lyra/accel"
	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/types"
)

var (
	ErrSampleCountMismatch = errors.New("field: point and direction counts differ")
)

// Kind identifiers used by the renderer registry.
const (
	KindGrid = "grid"
)

// RadianceField is the model contract: a spatial radiance/density
// function with an attached bottom-level acceleration structure.
type RadianceField interface {
	// Registry kind identifier for this field class.
	Kind() string

	// Human readable field name.
	Name() string

	// The bottom-level acceleration structure over the field's
	// occupied space.
	BLAS() accel.Structure

	// Channels this field can produce.
	SupportedChannels() core.ChannelSet

	// Sample evaluates radiance and density at the given points. The
	// view directions allow view-dependent appearance; implementations
	// may ignore them. Returns rgb (3 per point) and density (1 per
	// point) slices.
	Sample(pts, dirs []types.Vec3) (rgb, density []float32, err error)
}

// GridField is a radiance field baked into a dense voxel grid with
// trilinear interpolation between cell centers.
type GridField struct {
	res      int
	min, max types.Vec3
	rgb      []float32
	density  []float32
	blas     accel.Structure
}

// Octree depth used for the baked grid's acceleration structure.
const gridOctreeDepth = 4

// NewGridField wraps pre-baked grid data. rgb must hold res^3*3 values
// and density res^3 values.
func NewGridField(res int, min, max types.Vec3, rgb, density []float32) (*GridField, error) {
	if res < 2 {
		return nil, fmt.Errorf("field: grid resolution %d is too small", res)
	}
	if len(rgb) != res*res*res*3 {
		return nil, fmt.Errorf("field: rgb data holds %d values, want %d", len(rgb), res*res*res*3)
	}
	if len(density) != res*res*res {
		return nil, fmt.Errorf("field: density data holds %d values, want %d", len(density), res*res*res)
	}

	f := &GridField{
		res:     res,
		min:     types.MinVec3(min, max),
		max:     types.MaxVec3(min, max),
		rgb:     rgb,
		density: density,
	}
	f.blas = accel.NewOctree(f.min, f.max, gridOctreeDepth, f.regionOccupied)
	return f, nil
}

// BakeGridField samples fn at every cell center of a res^3 grid.
func BakeGridField(res int, min, max types.Vec3, fn func(p types.Vec3) (rgb types.Vec3, density float32)) (*GridField, error) {
	if res < 2 {
		return nil, fmt.Errorf("field: grid resolution %d is too small", res)
	}
	rgb := make([]float32, res*res*res*3)
	density := make([]float32, res*res*res)

	lo := types.MinVec3(min, max)
	hi := types.MaxVec3(min, max)
	for z := 0; z < res; z++ {
		for y := 0; y < res; y++ {
			for x := 0; x < res; x++ {
				p := types.XYZ(
					lo[0]+(hi[0]-lo[0])*(float32(x)+0.5)/float32(res),
					lo[1]+(hi[1]-lo[1])*(float32(y)+0.5)/float32(res),
					lo[2]+(hi[2]-lo[2])*(float32(z)+0.5)/float32(res),
				)
				c, d := fn(p)
				idx := (z*res+y)*res + x
				rgb[idx*3] = c[0]
				rgb[idx*3+1] = c[1]
				rgb[idx*3+2] = c[2]
				density[idx] = d
			}
		}
	}

	return NewGridField(res, lo, hi, rgb, density)
}

func (f *GridField) Kind() string {
	return KindGrid
}

func (f *GridField) Name() string {
	return "Baked Grid Field"
}

func (f *GridField) BLAS() accel.Structure {
	return f.blas
}

func (f *GridField) SupportedChannels() core.ChannelSet {
	return core.NewChannelSet(core.ChannelRGB, core.ChannelDepth, core.ChannelAlpha)
}

// Resolution returns the number of cells per axis.
func (f *GridField) Resolution() int {
	return f.res
}

// Bounds returns the world-space extents of the grid.
func (f *GridField) Bounds() (types.Vec3, types.Vec3) {
	return f.min, f.max
}

// Sample trilinearly interpolates the baked grid at each point. View
// directions are accepted for interface compatibility but the baked
// appearance is view independent.
func (f *GridField) Sample(pts, dirs []types.Vec3) ([]float32, []float32, error) {
	if dirs != nil && len(dirs) != len(pts) {
		return nil, nil, ErrSampleCountMismatch
	}

	rgb := make([]float32, len(pts)*3)
	density := make([]float32, len(pts))
	for i, p := range pts {
		r, g, b, d := f.sampleAt(p)
		rgb[i*3] = r
		rgb[i*3+1] = g
		rgb[i*3+2] = b
		density[i] = d
	}
	return rgb, density, nil
}

func (f *GridField) sampleAt(p types.Vec3) (r, g, b, d float32) {
	// Continuous cell-center coordinates.
	var fx, fy, fz float32
	for axis, out := range []*float32{&fx, &fy, &fz} {
		span := f.max[axis] - f.min[axis]
		if span <= 0 {
			return 0, 0, 0, 0
		}
		*out = (p[axis]-f.min[axis])/span*float32(f.res) - 0.5
	}

	x0, tx := clampCell(fx, f.res)
	y0, ty := clampCell(fy, f.res)
	z0, tz := clampCell(fz, f.res)
	x1, y1, z1 := x0+1, y0+1, z0+1
	if x1 >= f.res {
		x1 = f.res - 1
	}
	if y1 >= f.res {
		y1 = f.res - 1
	}
	if z1 >= f.res {
		z1 = f.res - 1
	}

	lerp := func(data []float32, arity, c int) float32 {
		at := func(x, y, z int) float32 {
			return data[((z*f.res+y)*f.res+x)*arity+c]
		}
		v00 := at(x0, y0, z0) + (at(x1, y0, z0)-at(x0, y0, z0))*tx
		v10 := at(x0, y1, z0) + (at(x1, y1, z0)-at(x0, y1, z0))*tx
		v01 := at(x0, y0, z1) + (at(x1, y0, z1)-at(x0, y0, z1))*tx
		v11 := at(x0, y1, z1) + (at(x1, y1, z1)-at(x0, y1, z1))*tx
		v0 := v00 + (v10-v00)*ty
		v1 := v01 + (v11-v01)*ty
		return v0 + (v1-v0)*tz
	}

	return lerp(f.rgb, 3, 0), lerp(f.rgb, 3, 1), lerp(f.rgb, 3, 2), lerp(f.density, 1, 0)
}

func clampCell(f float32, res int) (int, float32) {
	if f < 0 {
		return 0, 0
	}
	i := int(f)
	if i >= res-1 {
		return res - 1, 0
	}
	return i, f - float32(i)
}

// Density threshold below which a grid cell counts as empty space.
const occupancyThreshold = 1e-3

// regionOccupied probes the density grid cells overlapping [min, max].
func (f *GridField) regionOccupied(min, max types.Vec3) bool {
	var lo, hi [3]int
	for axis := 0; axis < 3; axis++ {
		span := f.max[axis] - f.min[axis]
		if span <= 0 {
			return false
		}
		lo[axis] = int((min[axis] - f.min[axis]) / span * float32(f.res))
		hi[axis] = int((max[axis] - f.min[axis]) / span * float32(f.res))
		if lo[axis] < 0 {
			lo[axis] = 0
		}
		if hi[axis] >= f.res {
			hi[axis] = f.res - 1
		}
		if lo[axis] > hi[axis] {
			return false
		}
	}

	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				if f.density[(z*f.res+y)*f.res+x] > occupancyThreshold {
					return true
				}
			}
		}
	}
	return false
}
