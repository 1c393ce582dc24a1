package cmd

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lyra-render/lyra/core"
	"github.com/lyra-render/lyra/renderer"
	"github.com/lyra-render/lyra/scene"
	"github.com/lyra-render/lyra/tracer"
)

// Render a still frame to a PNG file.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

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

	renderScale := ctx.Float64("render-scale")
	if renderScale <= 0 || renderScale > 1 {
		renderScale = 1
	}
	resX := int(float64(camera.Width) * renderScale)
	resY := int(float64(camera.Height) * renderScale)

	payload := renderer.FramePayload{
		RenderResX:      resX,
		RenderResY:      resY,
		Camera:          camera,
		InteractiveMode: false,
		Channels:        channelsFromFlag(ctx),
	}

	if err = r.PreRender(payload); err != nil {
		return err
	}

	logger.Noticef("rendering %dx%d frame at internal resolution %dx%d", camera.Width, camera.Height, resX, resY)
	start := time.Now()
	rays := camera.GenerateRays(resX, resY)
	rb, err := r.Render(rays)
	if err != nil {
		return err
	}
	r.PostRender()
	logger.Noticef("rendered frame in %d ms", time.Since(start).Milliseconds())

	if statsSource, ok := r.(interface{ Stats() renderer.FrameStats }); ok {
		displayFrameStats(statsSource.Stats())
	}

	img, err := rb.RGBA()
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if err = writePNG(out, img); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", out)

	// Optionally emit a quarter-size preview next to the frame.
	if ctx.Bool("preview") {
		preview := resize.Resize(uint(camera.Width/4), 0, img, resize.Bilinear)
		previewPath := previewName(out)
		pf, err := os.Create(previewPath)
		if err != nil {
			return err
		}
		defer pf.Close()
		if err = png.Encode(pf, preview); err != nil {
			return err
		}
		logger.Noticef("wrote preview to %s", previewPath)
	}

	return nil
}

func channelsFromFlag(ctx *cli.Context) core.ChannelSet {
	names := ctx.StringSlice("channels")
	if len(names) == 0 {
		return core.NewChannelSet(core.ChannelRGB, core.ChannelAlpha)
	}
	return core.NewChannelSet(names...)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func previewName(out string) string {
	if strings.HasSuffix(out, ".png") {
		return strings.TrimSuffix(out, ".png") + "_preview.png"
	}
	return out + "_preview.png"
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Render res", "Output res", "Batches", "Rays", "Steps", "Render time"})
	table.Append([]string{
		fmt.Sprintf("%dx%d", stats.RenderResX, stats.RenderResY),
		fmt.Sprintf("%dx%d", stats.OutputW, stats.OutputH),
		fmt.Sprintf("%d", stats.Batches),
		fmt.Sprintf("%d", stats.Rays),
		fmt.Sprintf("%d", stats.NumSteps),
		stats.RenderTime.String(),
	})
	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
