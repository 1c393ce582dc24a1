package accel

import "github.com/lyra-render/lyra/types"

// Octree is a sparse occupancy octree over a cubic region. Leaves at
// the maximum depth are marked occupied when the supplied occupancy
// probe reports content anywhere inside them; interior nodes exist only
// where at least one descendant leaf is occupied.
type Octree struct {
	min, max types.Vec3
	maxDepth int
	root     *octreeNode
	cells    []Cell
	dirty    bool
}

type octreeNode struct {
	children [8]*octreeNode
	occupied bool
}

// OccupancyProbe reports whether the region [min, max] contains any
// content. Probing whole regions (instead of point samples) keeps thin
// features from slipping between leaf centers.
type OccupancyProbe func(min, max types.Vec3) bool

// Build an occupancy octree by recursively subdividing the given bounds
// down to maxDepth levels.
func NewOctree(min, max types.Vec3, maxDepth int, probe OccupancyProbe) *Octree {
	if maxDepth < 1 {
		maxDepth = 1
	}
	oct := &Octree{
		min:      types.MinVec3(min, max),
		max:      types.MaxVec3(min, max),
		maxDepth: maxDepth,
		dirty:    true,
	}
	oct.root = oct.subdivide(oct.min, oct.max, 0, probe)
	return oct
}

func (o *Octree) subdivide(min, max types.Vec3, depth int, probe OccupancyProbe) *octreeNode {
	if !probe(min, max) {
		return nil
	}
	node := &octreeNode{}
	if depth == o.maxDepth {
		node.occupied = true
		o.cells = append(o.cells, Cell{Min: min, Max: max})
		return node
	}

	mid := types.Lerp(min, max, 0.5)
	any := false
	for i := 0; i < 8; i++ {
		cmin := min
		cmax := mid
		if i&1 != 0 {
			cmin[0], cmax[0] = mid[0], max[0]
		}
		if i&2 != 0 {
			cmin[1], cmax[1] = mid[1], max[1]
		}
		if i&4 != 0 {
			cmin[2], cmax[2] = mid[2], max[2]
		}
		node.children[i] = o.subdivide(cmin, cmax, depth+1, probe)
		if node.children[i] != nil {
			any = true
		}
	}
	if !any {
		return nil
	}
	return node
}

func (o *Octree) Name() string {
	return "Octree"
}

func (o *Octree) Bounds() (types.Vec3, types.Vec3) {
	return o.min, o.max
}

// Occupied descends to the leaf containing p and reports its state.
func (o *Octree) Occupied(p types.Vec3) bool {
	for axis := 0; axis < 3; axis++ {
		if p[axis] < o.min[axis] || p[axis] > o.max[axis] {
			return false
		}
	}

	node := o.root
	min, max := o.min, o.max
	for depth := 0; node != nil; depth++ {
		if node.occupied {
			return true
		}
		if depth == o.maxDepth {
			return false
		}
		mid := types.Lerp(min, max, 0.5)
		idx := 0
		if p[0] >= mid[0] {
			idx |= 1
			min[0] = mid[0]
		} else {
			max[0] = mid[0]
		}
		if p[1] >= mid[1] {
			idx |= 2
			min[1] = mid[1]
		} else {
			max[1] = mid[1]
		}
		if p[2] >= mid[2] {
			idx |= 4
			min[2] = mid[2]
		} else {
			max[2] = mid[2]
		}
		node = node.children[idx]
	}
	return false
}

func (o *Octree) Intersect(origin, dir types.Vec3) (float32, float32, bool) {
	return slabTest(o.min, o.max, origin, dir)
}

// Cells returns the occupied leaf cells discovered during construction.
func (o *Octree) Cells() []Cell {
	return o.cells
}

func (o *Octree) Dirty() bool {
	return o.dirty
}

func (o *Octree) MarkClean() {
	o.dirty = false
}
