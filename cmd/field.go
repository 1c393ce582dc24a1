package cmd

import (
	"github.com/urfave/cli"

	"github.com/lyra-render/lyra/field"
	"github.com/lyra-render/lyra/types"
)

// Grid resolution for the built-in demo field.
const demoFieldRes = 64

// loadField reads the baked field named by the --field flag, or bakes
// the built-in demo field when the flag is empty.
func loadField(ctx *cli.Context) (*field.GridField, error) {
	if path := ctx.String("field"); path != "" {
		return field.LoadGridField(path)
	}

	logger.Notice("no field supplied; baking demo field")
	return demoField()
}

// demoField bakes a soft sphere whose color follows position. Handy for
// exercising the full render path without a field payload on disk.
func demoField() (*field.GridField, error) {
	min := types.XYZ(-1, -1, -1)
	max := types.XYZ(1, 1, 1)
	return field.BakeGridField(demoFieldRes, min, max, func(p types.Vec3) (types.Vec3, float32) {
		r := p.Len()
		if r > 0.8 {
			return types.Vec3{}, 0
		}
		density := (0.8 - r) * 12
		color := types.XYZ(0.5+0.5*p[0], 0.5+0.5*p[1], 0.5+0.5*p[2])
		return color, density
	})
}
