// Package accel provides the bottom-level acceleration structures the
// tracer marches through and the datalayer painters visualize.
package accel

import (
	"github.com/chewxy/math32"

	"github.com/lyra-render/lyra/types"
)

// Cell is an axis-aligned occupied region exposed for visualization.
type Cell struct {
	Min types.Vec3
	Max types.Vec3
}

// Structure is implemented by all acceleration structures.
type Structure interface {
	// Human readable structure name.
	Name() string

	// World-space bounds of the structure.
	Bounds() (min, max types.Vec3)

	// Occupied reports whether the point lies in an occupied region.
	Occupied(p types.Vec3) bool

	// Intersect clips a ray against the structure bounds and returns
	// the entry/exit distances.
	Intersect(origin, dir types.Vec3) (tmin, tmax float32, hit bool)

	// Cells enumerates the occupied leaf cells.
	Cells() []Cell

	// Dirty reports whether the occupancy topology changed since the
	// last MarkClean call.
	Dirty() bool
	MarkClean()
}

// AABB is the simplest acceleration structure: a single axis-aligned
// bounding box treated as fully occupied.
type AABB struct {
	min, max types.Vec3
	dirty    bool
}

func NewAABB(min, max types.Vec3) *AABB {
	return &AABB{
		min:   types.MinVec3(min, max),
		max:   types.MaxVec3(min, max),
		dirty: true,
	}
}

func (b *AABB) Name() string {
	return "AABB"
}

func (b *AABB) Bounds() (types.Vec3, types.Vec3) {
	return b.min, b.max
}

func (b *AABB) Occupied(p types.Vec3) bool {
	return p[0] >= b.min[0] && p[0] <= b.max[0] &&
		p[1] >= b.min[1] && p[1] <= b.max[1] &&
		p[2] >= b.min[2] && p[2] <= b.max[2]
}

func (b *AABB) Intersect(origin, dir types.Vec3) (float32, float32, bool) {
	return slabTest(b.min, b.max, origin, dir)
}

func (b *AABB) Cells() []Cell {
	return []Cell{{Min: b.min, Max: b.max}}
}

func (b *AABB) Dirty() bool {
	return b.dirty
}

func (b *AABB) MarkClean() {
	b.dirty = false
}

// slabTest intersects a ray with an axis-aligned box and returns the
// parametric entry/exit distances. Entry is clamped to zero for rays
// starting inside the box.
func slabTest(min, max, origin, dir types.Vec3) (float32, float32, bool) {
	tmin := float32(0)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if math32.Abs(dir[axis]) < 1e-9 {
			// Ray parallel to slab; miss unless origin is inside it.
			if origin[axis] < min[axis] || origin[axis] > max[axis] {
				return 0, 0, false
			}
			continue
		}
		invD := 1.0 / dir[axis]
		t0 := (min[axis] - origin[axis]) * invD
		t1 := (max[axis] - origin[axis]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmax < tmin {
			return 0, 0, false
		}
	}

	return tmin, tmax, true
}
