package scene

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/lyra-render/lyra/types"
)

func TestGenerateRaysCountAndNormalization(t *testing.T) {
	camera := NewCamera(45, 100, 100)

	type spec struct {
		resX, resY int
	}
	specs := []spec{
		{1, 1},
		{3, 3},
		{4, 2},
		{16, 16},
	}

	for index, s := range specs {
		rays := camera.GenerateRays(s.resX, s.resY)
		if rays.Count() != s.resX*s.resY {
			t.Fatalf("[spec %d] expected %d rays; got %d", index, s.resX*s.resY, rays.Count())
		}
		if rays.DistMax != camera.Far {
			t.Fatalf("[spec %d] expected DistMax %f; got %f", index, camera.Far, rays.DistMax)
		}
		for i, dir := range rays.Dirs {
			if math32.Abs(dir.Len()-1) > 1e-3 {
				t.Fatalf("[spec %d] ray %d direction is not normalized (len %f)", index, i, dir.Len())
			}
			if rays.Origins[i] != camera.Position {
				t.Fatalf("[spec %d] ray %d does not originate at the camera", index, i)
			}
		}
	}
}

func TestCenterRayLooksAtTarget(t *testing.T) {
	camera := NewCamera(45, 64, 64)

	rays := camera.GenerateRays(3, 3)
	center := rays.Dirs[4]
	want := camera.LookAt.Sub(camera.Position).Normalize()

	for axis := 0; axis < 3; axis++ {
		if math32.Abs(center[axis]-want[axis]) > 1e-2 {
			t.Fatalf("center ray %v should match view direction %v", center, want)
		}
	}
}

func TestProjectLookAtPoint(t *testing.T) {
	camera := NewCamera(45, 200, 100)

	x, y, ok := camera.Project(camera.LookAt)
	if !ok {
		t.Fatal("look-at point should be projectable")
	}
	if math32.Abs(x-100) > 1 || math32.Abs(y-50) > 1 {
		t.Fatalf("look-at point should project to the frame center; got (%f, %f)", x, y)
	}

	if _, _, ok = camera.Project(camera.Position.Add(types.XYZ(0, 0, 10))); ok {
		t.Fatal("point behind the camera should not be projectable")
	}
}

func TestMoveTranslatesAlongView(t *testing.T) {
	camera := NewCamera(45, 64, 64)
	startZ := camera.Position[2]

	camera.Move(Forward, 0.5)
	if math32.Abs(camera.Position[2]-(startZ-0.5)) > 1e-5 {
		t.Fatalf("expected forward move along -z; got z=%f", camera.Position[2])
	}

	camera.Move(Right, 0.25)
	if math32.Abs(camera.Position[0]-0.25) > 1e-5 {
		t.Fatalf("expected right move along +x; got x=%f", camera.Position[0])
	}
}

func TestYawRotatesView(t *testing.T) {
	camera := NewCamera(45, 64, 64)
	before := camera.LookAt.Sub(camera.Position).Normalize()

	camera.Yaw = 0.2
	camera.Update()
	after := camera.LookAt.Sub(camera.Position).Normalize()

	if math32.Abs(after.Len()-1) > 1e-3 {
		t.Fatalf("rotated view direction is not normalized (len %f)", after.Len())
	}
	if math32.Abs(before.Dot(after)-1) < 1e-6 {
		t.Fatal("yaw rotation should change the view direction")
	}
	if camera.Yaw != 0 || camera.Pitch != 0 {
		t.Fatal("Update should consume pending pitch/yaw")
	}
}
