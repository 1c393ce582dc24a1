package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/lyra-render/lyra/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 512,
			Usage: "output frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 512,
			Usage: "output frame height",
		},
		cli.IntFlag{
			Name:  "steps",
			Value: 16,
			Usage: "ray marching steps at full fidelity",
		},
		cli.IntFlag{
			Name:  "batch-size",
			Value: 0,
			Usage: "rays per tracer call (0 selects the default)",
		},
		cli.Float64Flag{
			Name:  "fov",
			Value: 45.0,
			Usage: "camera field of view in degrees",
		},
		cli.StringSliceFlag{
			Name:  "channels",
			Value: &cli.StringSlice{},
			Usage: "channels to render (rgb, depth, alpha)",
		},
		cli.StringFlag{
			Name:  "field",
			Usage: "path or URL of a baked grid field (empty bakes the demo field)",
		},
	}

	app := cli.NewApp()
	app.Name = "lyra"
	app.Usage = "render neural fields with ray tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a field",
			Subcommands: []cli.Command{
				{
					Name:        "frame",
					Usage:       "render single frame",
					Description: `Render a single still frame at full fidelity and write it to a PNG file.`,
					Flags: append(renderFlags,
						cli.Float64Flag{
							Name:  "render-scale",
							Value: 1.0,
							Usage: "internal render resolution as a fraction of the output resolution",
						},
						cli.StringFlag{
							Name:  "out, o",
							Value: "frame.png",
							Usage: "image filename for the rendered frame",
						},
						cli.BoolFlag{
							Name:  "preview",
							Usage: "also write a quarter-size preview image",
						},
					),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render interactive view of the field",
					Description: `Open a window with an interactive camera. While the camera moves the
view renders at reduced fidelity; once it stops the image progressively
refines back to the target step count.`,
					Flags:  renderFlags,
					Action: cmd.RenderInteractive,
				},
			},
		},
		{
			Name:   "info",
			Usage:  "show registered renderers and field properties",
			Flags:  renderFlags,
			Action: cmd.Info,
		},
	}

	app.Run(os.Args)
}
