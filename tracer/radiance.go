package tracer

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/field"
	"github.com/lyra-render/lyra/types"
)

var (
	ErrNoRays      = errors.New("tracer: request carries no rays")
	ErrNoSteps     = errors.New("tracer: step count must be positive")
	ErrMissingBLAS = errors.New("tracer: field has no acceleration structure")
)

// Alpha above which a ray counts as having hit the field.
const hitAlphaThreshold = 1e-4

// RadianceTracer marches rays through the field's acceleration
// structure, integrating emission weighted by accumulated transmittance.
// Rays are processed independently and deterministically, so tracing a
// partition of a ray set batch-by-batch accumulates to the same buffer
// as tracing it whole.
type RadianceTracer struct{}

func NewRadianceTracer() *RadianceTracer {
	return &RadianceTracer{}
}

func (t *RadianceTracer) Kind() string {
	return KindRadiance
}

func (t *RadianceTracer) Trace(f field.RadianceField, req Request) (*core.RenderBuffer, error) {
	if req.Rays == nil || req.Rays.Count() == 0 {
		return nil, ErrNoRays
	}
	if req.NumSteps < 1 {
		return nil, ErrNoSteps
	}
	blas := f.BLAS()
	if blas == nil {
		return nil, ErrMissingBLAS
	}

	count := req.Rays.Count()
	bg := req.BGColor.Color()

	hit := make([]bool, count)
	var rgb, depth, alpha []float32
	wantRGB := req.Channels.Contains(core.ChannelRGB)
	wantDepth := req.Channels.Contains(core.ChannelDepth)
	wantAlpha := req.Channels.Contains(core.ChannelAlpha)
	if wantRGB {
		rgb = make([]float32, count*3)
	}
	if wantDepth {
		depth = make([]float32, count)
	}
	if wantAlpha {
		alpha = make([]float32, count)
	}

	// Scratch buffers reused across rays.
	pts := make([]types.Vec3, 0, req.NumSteps)
	dirs := make([]types.Vec3, 0, req.NumSteps)
	dists := make([]float32, 0, req.NumSteps)

	for i := 0; i < count; i++ {
		origin := req.Rays.Origins[i]
		dir := req.Rays.Dirs[i]

		tmin, tmax, boundsHit := blas.Intersect(origin, dir)
		if req.Rays.DistMax > 0 && tmax > req.Rays.DistMax {
			tmax = req.Rays.DistMax
		}

		pts, dirs, dists = pts[:0], dirs[:0], dists[:0]
		if boundsHit && tmax > tmin {
			dt := (tmax - tmin) / float32(req.NumSteps)
			for s := 0; s < req.NumSteps; s++ {
				d := tmin + (float32(s)+0.5)*dt
				p := origin.Add(dir.Mul(d))
				if req.Method == core.RaymarchVoxel && !blas.Occupied(p) {
					continue
				}
				pts = append(pts, p)
				dirs = append(dirs, dir)
				dists = append(dists, d)
			}
		}

		var r, g, b, a, depthAcc float32
		if len(pts) > 0 {
			sampleRGB, sampleDensity, err := f.Sample(pts, dirs)
			if err != nil {
				return nil, err
			}

			dt := (tmax - tmin) / float32(req.NumSteps)
			transmittance := float32(1)
			for s := range pts {
				// Beer-Lambert absorption over the step interval.
				absorbed := 1 - math32.Exp(-sampleDensity[s]*dt)
				weight := transmittance * absorbed
				r += weight * sampleRGB[s*3]
				g += weight * sampleRGB[s*3+1]
				b += weight * sampleRGB[s*3+2]
				depthAcc += weight * dists[s]
				a += weight
				transmittance *= 1 - absorbed
			}
		}

		hit[i] = a > hitAlphaThreshold
		if wantRGB {
			rgb[i*3] = r + (1-a)*bg[0]
			rgb[i*3+1] = g + (1-a)*bg[1]
			rgb[i*3+2] = b + (1-a)*bg[2]
		}
		if wantDepth {
			if a > hitAlphaThreshold {
				depth[i] = depthAcc / a
			}
		}
		if wantAlpha {
			alpha[i] = a
		}
	}

	rb := core.NewRenderBuffer()
	rb.Hit = hit
	if wantRGB {
		if err := rb.SetChannel(core.ChannelRGB, 3, rgb); err != nil {
			return nil, err
		}
	}
	if wantDepth {
		if err := rb.SetChannel(core.ChannelDepth, 1, depth); err != nil {
			return nil, err
		}
	}
	if wantAlpha {
		if err := rb.SetChannel(core.ChannelAlpha, 1, alpha); err != nil {
			return nil, err
		}
	}
	return rb, nil
}
