package core

import "github.com/lyra-render/lyra/types"

// PrimitivesPack collects line primitives emitted by datalayer painters.
// Lines are stored as parallel start/end/color slices so the viewer can
// stream them to the GPU in one pass.
type PrimitivesPack struct {
	LineStarts []types.Vec3
	LineEnds   []types.Vec3
	LineColors []types.Vec4
}

func NewPrimitivesPack() *PrimitivesPack {
	return &PrimitivesPack{}
}

// AddLine appends a single colored line segment.
func (p *PrimitivesPack) AddLine(start, end types.Vec3, color types.Vec4) {
	p.LineStarts = append(p.LineStarts, start)
	p.LineEnds = append(p.LineEnds, end)
	p.LineColors = append(p.LineColors, color)
}

// AddBox appends the 12 wireframe edges of an axis-aligned box.
func (p *PrimitivesPack) AddBox(min, max types.Vec3, color types.Vec4) {
	corners := [8]types.Vec3{
		{min[0], min[1], min[2]},
		{max[0], min[1], min[2]},
		{max[0], max[1], min[2]},
		{min[0], max[1], min[2]},
		{min[0], min[1], max[2]},
		{max[0], min[1], max[2]},
		{max[0], max[1], max[2]},
		{min[0], max[1], max[2]},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		p.AddLine(corners[e[0]], corners[e[1]], color)
	}
}

// LineCount returns the number of line segments in the pack.
func (p *PrimitivesPack) LineCount() int {
	return len(p.LineStarts)
}
