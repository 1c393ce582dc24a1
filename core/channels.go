package core

// Channel names understood by the built-in radiance tracer.
const (
	ChannelRGB   = "rgb"
	ChannelDepth = "depth"
	ChannelAlpha = "alpha"
)

// ChannelArity returns the number of float components a channel carries
// per ray.
func ChannelArity(name string) int {
	if name == ChannelRGB {
		return 3
	}
	return 1
}

// ChannelSet holds the channel names requested for a frame. Order is
// preserved for display purposes but is not significant for equality.
type ChannelSet []string

// Create a channel set from the given names, dropping duplicates.
func NewChannelSet(names ...string) ChannelSet {
	cs := make(ChannelSet, 0, len(names))
	for _, name := range names {
		if !cs.Contains(name) {
			cs = append(cs, name)
		}
	}
	return cs
}

func (cs ChannelSet) Contains(name string) bool {
	for _, n := range cs {
		if n == name {
			return true
		}
	}
	return false
}

// Equal performs set comparison; channel order is ignored.
func (cs ChannelSet) Equal(other ChannelSet) bool {
	if len(cs) != len(other) {
		return false
	}
	for _, n := range cs {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

func (cs ChannelSet) Clone() ChannelSet {
	out := make(ChannelSet, len(cs))
	copy(out, cs)
	return out
}

// DType declares the numeric precision a renderer produces.
type DType uint8

const (
	Float32 DType = iota
	Float16
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	}
	return "unknown"
}

// BGColorPolicy selects the background color composited behind rays
// that miss the field.
type BGColorPolicy uint8

const (
	BGBlack BGColorPolicy = iota
	BGWhite
)

// Color returns the background rgb triple for this policy.
func (p BGColorPolicy) Color() [3]float32 {
	if p == BGWhite {
		return [3]float32{1, 1, 1}
	}
	return [3]float32{0, 0, 0}
}

func (p BGColorPolicy) String() string {
	if p == BGWhite {
		return "white"
	}
	return "black"
}

// RaymarchMethod selects how sample positions are generated along a ray.
type RaymarchMethod uint8

const (
	// Sample only inside occupied cells of the acceleration structure.
	RaymarchVoxel RaymarchMethod = iota
	// Sample uniformly along the ray segment inside the structure bounds.
	RaymarchRay
)

func (m RaymarchMethod) String() string {
	if m == RaymarchRay {
		return "ray"
	}
	return "voxel"
}
