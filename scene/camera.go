package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/mat"

	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/types"
)

type CameraDirection uint8

const (
	Forward CameraDirection = iota
	Backward
	Left
	Right
)

// Frustum stores the ray directions at the four corners of the camera
// frustum. Per-pixel rays are generated by interpolating the corner
// rays, which is much cheaper than a matrix multiply per pixel.
type Frustum [4]types.Vec3

func (fr Frustum) String() string {
	return fmt.Sprintf(
		"Frustum Rays:\nTL : (%3.3f, %3.3f, %3.3f)\nTR : (%3.3f, %3.3f, %3.3f)\nBL : (%3.3f, %3.3f, %3.3f)\nBR : (%3.3f, %3.3f, %3.3f)",
		fr[0][0], fr[0][1], fr[0][2],
		fr[1][0], fr[1][1], fr[1][2],
		fr[2][0], fr[2][1], fr[2][2],
		fr[3][0], fr[3][1], fr[3][2],
	)
}

// The camera type controls the viewer camera. Width and Height define
// the output resolution frames are finally scaled to.
type Camera struct {
	Position types.Vec3
	LookAt   types.Vec3
	Up       types.Vec3
	Pitch    float32
	Yaw      float32

	// Camera FOV in degrees.
	FOV float32

	// Output resolution.
	Width  int
	Height int

	// Clip distances.
	Near float32
	Far  float32

	Frustum Frustum

	// Combined projection*view matrix retained for Project.
	pv *mat.Dense
}

func NewCamera(fov float32, width, height int) *Camera {
	c := &Camera{
		Position: types.XYZ(0, 0, 2.5),
		LookAt:   types.XYZ(0, 0, 0),
		Up:       types.XYZ(0, 1, 0),
		FOV:      fov,
		Width:    width,
		Height:   height,
		Near:     0.1,
		Far:      100,
	}
	c.Update()
	return c
}

// Move the camera along one of the view-relative directions.
func (c *Camera) Move(dir CameraDirection, amount float32) {
	var delta types.Vec3
	view := c.LookAt.Sub(c.Position).Normalize()
	right := view.Cross(c.Up).Normalize()

	switch dir {
	case Forward:
		delta = view.Mul(amount)
	case Backward:
		delta = view.Mul(-amount)
	case Left:
		delta = right.Mul(-amount)
	case Right:
		delta = right.Mul(amount)
	}

	c.Position = c.Position.Add(delta)
	c.LookAt = c.LookAt.Add(delta)
	c.Update()
}

// Update applies any pending pitch/yaw rotation and recomputes the
// frustum corner rays. Pitch and yaw are consumed by the call.
func (c *Camera) Update() {
	dir := c.LookAt.Sub(c.Position).Normalize()
	if c.Pitch != 0 || c.Yaw != 0 {
		pitchAxis := dir.Cross(c.Up)
		pitchQuat := types.QuatFromAxisAngle(pitchAxis, c.Pitch)
		yawQuat := types.QuatFromAxisAngle(c.Up, c.Yaw)
		orientQuat := pitchQuat.Mul(yawQuat).Normalize()

		dir = orientQuat.Rotate(dir)
		c.LookAt = c.Position.Add(dir)
		c.Pitch = 0
		c.Yaw = 0
	}

	c.updateFrustum()
}

// Generate a ray direction for each corner of the camera frustum by
// transforming clip space corner vectors with the inverse
// projection*view matrix, applying the perspective division and
// subtracting the camera eye position.
func (c *Camera) updateFrustum() {
	invPV := c.invViewProj()

	corners := [4][2]float64{
		{-1, 1}, {1, 1}, {-1, -1}, {1, -1},
	}
	for i, corner := range corners {
		clip := mat.NewVecDense(4, []float64{corner[0], corner[1], -1, 1})
		var world mat.VecDense
		world.MulVec(invPV, clip)

		w := world.AtVec(3)
		p := types.XYZ(
			float32(world.AtVec(0)/w),
			float32(world.AtVec(1)/w),
			float32(world.AtVec(2)/w),
		)
		c.Frustum[i] = p.Sub(c.Position)
	}
}

// Project maps a world-space point to pixel coordinates. ok is false
// for points behind the camera.
func (c *Camera) Project(p types.Vec3) (x, y float32, ok bool) {
	if c.pv == nil {
		return 0, 0, false
	}
	world := mat.NewVecDense(4, []float64{float64(p[0]), float64(p[1]), float64(p[2]), 1})
	var clip mat.VecDense
	clip.MulVec(c.pv, world)

	w := clip.AtVec(3)
	if w <= 0 {
		return 0, 0, false
	}
	ndcX := clip.AtVec(0) / w
	ndcY := clip.AtVec(1) / w
	x = float32((ndcX + 1) / 2 * float64(c.Width))
	y = float32((1 - ndcY) / 2 * float64(c.Height))
	return x, y, true
}

// invViewProj builds and inverts the combined projection*view matrix.
func (c *Camera) invViewProj() *mat.Dense {
	aspect := float64(c.Width) / float64(c.Height)
	fovRad := float64(c.FOV) * float64(math32.Pi) / 180
	f := 1 / math32.Tan(float32(fovRad)/2)
	near, far := float64(c.Near), float64(c.Far)

	proj := mat.NewDense(4, 4, []float64{
		float64(f) / aspect, 0, 0, 0,
		0, float64(f), 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	})

	view := lookAtMatrix(c.Position, c.LookAt, c.Up)

	pv := &mat.Dense{}
	pv.Mul(proj, view)
	c.pv = pv

	var inv mat.Dense
	if err := inv.Inverse(pv); err != nil {
		// Degenerate view setup; keep the previous frustum.
		return mat.NewDense(4, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		})
	}
	return &inv
}

func lookAtMatrix(eye, center, up types.Vec3) *mat.Dense {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)

	return mat.NewDense(4, 4, []float64{
		float64(s[0]), float64(s[1]), float64(s[2]), -float64(s.Dot(eye)),
		float64(u[0]), float64(u[1]), float64(u[2]), -float64(u.Dot(eye)),
		-float64(f[0]), -float64(f[1]), -float64(f[2]), float64(f.Dot(eye)),
		0, 0, 0, 1,
	})
}

// GenerateRays emits one normalized ray per pixel of a resX x resY
// frame in row-major order, interpolating the frustum corner rays.
func (c *Camera) GenerateRays(resX, resY int) *core.Rays {
	count := resX * resY
	origins := make([]types.Vec3, count)
	dirs := make([]types.Vec3, count)

	for y := 0; y < resY; y++ {
		ty := (float32(y) + 0.5) / float32(resY)
		left := types.Lerp(c.Frustum[0], c.Frustum[2], ty)
		right := types.Lerp(c.Frustum[1], c.Frustum[3], ty)
		for x := 0; x < resX; x++ {
			tx := (float32(x) + 0.5) / float32(resX)
			idx := y*resX + x
			origins[idx] = c.Position
			dirs[idx] = types.Lerp(left, right, tx).Normalize()
		}
	}

	return &core.Rays{
		Origins: origins,
		Dirs:    dirs,
		DistMax: c.Far,
	}
}
