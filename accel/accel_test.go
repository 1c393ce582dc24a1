package accel

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/lyra-render/lyra/types"
)

func TestAABBIntersect(t *testing.T) {
	box := NewAABB(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))

	type spec struct {
		origin, dir types.Vec3
		expHit      bool
		expTmin     float32
		expTmax     float32
	}
	specs := []spec{
		// Head-on hit from outside
		{types.XYZ(0, 0, 5), types.XYZ(0, 0, -1), true, 4, 6},
		// Pointing away from the box
		{types.XYZ(0, 0, 5), types.XYZ(0, 0, 1), false, 0, 0},
		// Origin inside the box clamps entry to zero
		{types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), true, 0, 1},
		// Parallel ray outside the slab
		{types.XYZ(0, 5, 5), types.XYZ(0, 0, -1), false, 0, 0},
		// Diagonal hit
		{types.XYZ(5, 5, 5), types.XYZ(-1, -1, -1).Normalize(), true, 4 * math32.Sqrt(3), 6 * math32.Sqrt(3)},
	}

	for index, s := range specs {
		tmin, tmax, hit := box.Intersect(s.origin, s.dir)
		if hit != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, hit)
		}
		if !hit {
			continue
		}
		if math32.Abs(tmin-s.expTmin) > 1e-3 || math32.Abs(tmax-s.expTmax) > 1e-3 {
			t.Fatalf("[spec %d] expected (%f, %f); got (%f, %f)", index, s.expTmin, s.expTmax, tmin, tmax)
		}
	}
}

func TestAABBOccupied(t *testing.T) {
	box := NewAABB(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))
	if !box.Occupied(types.XYZ(0, 0, 0)) {
		t.Fatal("box center should be occupied")
	}
	if box.Occupied(types.XYZ(0, 0, 2)) {
		t.Fatal("point outside box should not be occupied")
	}
}

func TestAABBDirtyLifecycle(t *testing.T) {
	box := NewAABB(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))
	if !box.Dirty() {
		t.Fatal("fresh structure should be dirty")
	}
	box.MarkClean()
	if box.Dirty() {
		t.Fatal("structure should be clean after MarkClean")
	}
}

// sphereProbe reports regions overlapping a sphere at the origin.
func sphereProbe(radius float32) OccupancyProbe {
	return func(min, max types.Vec3) bool {
		var d2 float32
		for axis := 0; axis < 3; axis++ {
			if min[axis] > 0 {
				d2 += min[axis] * min[axis]
			} else if max[axis] < 0 {
				d2 += max[axis] * max[axis]
			}
		}
		return d2 <= radius*radius
	}
}

func TestOctreeOccupancy(t *testing.T) {
	oct := NewOctree(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1), 3, sphereProbe(0.5))

	if !oct.Occupied(types.XYZ(0, 0, 0)) {
		t.Fatal("sphere center should be occupied")
	}
	if oct.Occupied(types.XYZ(0.9, 0.9, 0.9)) {
		t.Fatal("corner far from the sphere should be empty")
	}
	if oct.Occupied(types.XYZ(0, 0, 5)) {
		t.Fatal("point outside the bounds should be empty")
	}
}

func TestOctreeCellsWithinBounds(t *testing.T) {
	oct := NewOctree(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1), 3, sphereProbe(0.5))

	cells := oct.Cells()
	if len(cells) == 0 {
		t.Fatal("expected occupied cells for a non-empty sphere")
	}
	for index, cell := range cells {
		for axis := 0; axis < 3; axis++ {
			if cell.Min[axis] < -1 || cell.Max[axis] > 1 {
				t.Fatalf("cell %d escapes the octree bounds", index)
			}
			if cell.Min[axis] >= cell.Max[axis] {
				t.Fatalf("cell %d has inverted extents", index)
			}
		}
	}
}

func TestOctreeFullOccupancyCellCount(t *testing.T) {
	all := func(min, max types.Vec3) bool { return true }
	oct := NewOctree(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), 2, all)

	// Depth 2 fully occupied: 4^3 leaves.
	if len(oct.Cells()) != 64 {
		t.Fatalf("expected 64 leaf cells; got %d", len(oct.Cells()))
	}
}

func TestOctreeIntersectUsesBounds(t *testing.T) {
	oct := NewOctree(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1), 2, sphereProbe(0.5))
	tmin, tmax, hit := oct.Intersect(types.XYZ(0, 0, 5), types.XYZ(0, 0, -1))
	if !hit || tmin != 4 || tmax != 6 {
		t.Fatalf("expected bounds intersection (4, 6); got (%f, %f, %t)", tmin, tmax, hit)
	}
}
