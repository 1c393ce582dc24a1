// Package datalayers paints visualization overlays of acceleration
// structure occupancy as line primitive packs.
package datalayers

import (
	"github.com/lyra-render/lyra/accel"
	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/types"
)

// Datalayers is implemented by painters that turn an acceleration
// structure into named primitive packs.
type Datalayers interface {
	// NeedsRedraw reports whether the structure changed since the
	// layers were last regenerated.
	NeedsRedraw(blas accel.Structure) bool

	// Regenerate rebuilds the primitive packs from the structure's
	// current occupancy.
	Regenerate(blas accel.Structure) map[string]*core.PrimitivesPack
}

// ForStructure selects the painter matching the structure's concrete
// type, or nil when no painter applies.
func ForStructure(blas accel.Structure) Datalayers {
	switch blas.(type) {
	case *accel.Octree:
		return NewOctreeDatalayers()
	case *accel.AABB:
		return NewAABBDatalayers()
	default:
		return nil
	}
}

var occupancyColor = types.XYZW(0.4, 0.8, 1.0, 1.0)

// OctreeDatalayers paints a wireframe box per occupied octree leaf.
type OctreeDatalayers struct{}

func NewOctreeDatalayers() *OctreeDatalayers {
	return &OctreeDatalayers{}
}

func (d *OctreeDatalayers) NeedsRedraw(blas accel.Structure) bool {
	return blas.Dirty()
}

func (d *OctreeDatalayers) Regenerate(blas accel.Structure) map[string]*core.PrimitivesPack {
	pack := core.NewPrimitivesPack()
	for _, cell := range blas.Cells() {
		pack.AddBox(cell.Min, cell.Max, occupancyColor)
	}
	blas.MarkClean()
	return map[string]*core.PrimitivesPack{
		"octree:occupancy": pack,
	}
}

// AABBDatalayers paints the single bounding box of an AABB structure.
type AABBDatalayers struct{}

func NewAABBDatalayers() *AABBDatalayers {
	return &AABBDatalayers{}
}

func (d *AABBDatalayers) NeedsRedraw(blas accel.Structure) bool {
	return blas.Dirty()
}

func (d *AABBDatalayers) Regenerate(blas accel.Structure) map[string]*core.PrimitivesPack {
	pack := core.NewPrimitivesPack()
	min, max := blas.Bounds()
	pack.AddBox(min, max, occupancyColor)
	blas.MarkClean()
	return map[string]*core.PrimitivesPack{
		"aabb:bounds": pack,
	}
}
