package datalayers

import (
	"testing"

	"github.com/lyra-render/lyra/accel"
	"github.com/lyra-render/lyra/types"
)

// flatStructure is an acceleration structure type the painters don't
// know about.
type flatStructure struct{}

func (s *flatStructure) Name() string                     { return "Flat" }
func (s *flatStructure) Bounds() (types.Vec3, types.Vec3) { return types.Vec3{}, types.Vec3{} }
func (s *flatStructure) Occupied(p types.Vec3) bool       { return false }
func (s *flatStructure) Cells() []accel.Cell              { return nil }
func (s *flatStructure) Dirty() bool                      { return false }
func (s *flatStructure) MarkClean()                       {}
func (s *flatStructure) Intersect(o, d types.Vec3) (float32, float32, bool) {
	return 0, 0, false
}

func TestForStructureSelection(t *testing.T) {
	oct := accel.NewOctree(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), 1, func(min, max types.Vec3) bool { return true })
	box := accel.NewAABB(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1))

	if _, ok := ForStructure(oct).(*OctreeDatalayers); !ok {
		t.Fatal("expected the octree painter for an octree")
	}
	if _, ok := ForStructure(box).(*AABBDatalayers); !ok {
		t.Fatal("expected the box painter for an AABB")
	}
	if ForStructure(&flatStructure{}) != nil {
		t.Fatal("expected no painter for an unknown structure")
	}
}

func TestAABBLayersRegeneration(t *testing.T) {
	box := accel.NewAABB(types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1))
	painter := NewAABBDatalayers()

	if !painter.NeedsRedraw(box) {
		t.Fatal("fresh structure should need a redraw")
	}

	layers := painter.Regenerate(box)
	pack, ok := layers["aabb:bounds"]
	if !ok {
		t.Fatal("expected the aabb:bounds layer")
	}
	if pack.LineCount() != 12 {
		t.Fatalf("expected 12 box edges; got %d", pack.LineCount())
	}

	if painter.NeedsRedraw(box) {
		t.Fatal("regeneration should clear the redraw flag")
	}
}

func TestOctreeLayersRegeneration(t *testing.T) {
	oct := accel.NewOctree(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), 1, func(min, max types.Vec3) bool { return true })
	painter := NewOctreeDatalayers()

	layers := painter.Regenerate(oct)
	pack, ok := layers["octree:occupancy"]
	if !ok {
		t.Fatal("expected the octree:occupancy layer")
	}

	// Depth 1, fully occupied: 8 leaf cells, 12 edges each.
	if pack.LineCount() != 8*12 {
		t.Fatalf("expected %d edges; got %d", 8*12, pack.LineCount())
	}

	if painter.NeedsRedraw(oct) {
		t.Fatal("regeneration should clear the redraw flag")
	}
}
