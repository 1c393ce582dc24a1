package core

import (
	"errors"

	"github.com/lyra-render/lyra/types"
)

var ErrRayCountMismatch = errors.New("core: ray origin and direction counts differ")

// Rays is a batch of rays stored as parallel origin/direction slices,
// one entry per pixel in row-major order.
type Rays struct {
	Origins []types.Vec3
	Dirs    []types.Vec3

	// Maximum marching distance for every ray in the batch.
	DistMax float32
}

// Create a ray batch. Origin and direction counts must match.
func NewRays(origins, dirs []types.Vec3, distMax float32) (*Rays, error) {
	if len(origins) != len(dirs) {
		return nil, ErrRayCountMismatch
	}
	return &Rays{
		Origins: origins,
		Dirs:    dirs,
		DistMax: distMax,
	}, nil
}

// Count returns the number of rays in the batch.
func (r *Rays) Count() int {
	return len(r.Origins)
}

// Split partitions the batch into contiguous sub-batches of at most
// batchSize rays. The sub-batches share the underlying slices, cover
// every ray exactly once and never overlap. A non-positive batchSize
// yields a single batch.
func (r *Rays) Split(batchSize int) []*Rays {
	count := r.Count()
	if batchSize <= 0 || batchSize >= count {
		return []*Rays{r}
	}

	numBatches := (count + batchSize - 1) / batchSize
	batches := make([]*Rays, 0, numBatches)
	for start := 0; start < count; start += batchSize {
		end := start + batchSize
		if end > count {
			end = count
		}
		batches = append(batches, &Rays{
			Origins: r.Origins[start:end],
			Dirs:    r.Dirs[start:end],
			DistMax: r.DistMax,
		})
	}
	return batches
}
