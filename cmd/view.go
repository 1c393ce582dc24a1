package cmd

import (
	"runtime"

	"github.com/urfave/cli"

	"github.com/lyra-render/lyra/renderer"
	"github.com/lyra-render/lyra/scene"
	"github.com/lyra-render/lyra/tracer"
	"github.com/lyra-render/lyra/viewer"
)

// Render a continuously refining interactive view of the field.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	// The GL context and event loop must stay on the main OS thread.
	runtime.LockOSThread()

	f, err := loadField(ctx)
	if err != nil {
		return err
	}

	camera := scene.NewCamera(float32(ctx.Float64("fov")), ctx.Int("width"), ctx.Int("height"))
	r, err := renderer.New(f, tracer.KindRadiance, renderer.Options{
		BatchSize: ctx.Int("batch-size"),
		NumSteps:  ctx.Int("steps"),
	})
	if err != nil {
		return err
	}

	v, err := viewer.New(r, camera, viewer.Options{
		Title:    "lyra - " + r.Name(),
		Channels: channelsFromFlag(ctx),
	})
	if err != nil {
		return err
	}
	defer v.Close()

	logger.Noticef("starting interactive view of %s", f.Name())
	return v.Run()
}
