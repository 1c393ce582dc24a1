package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/lyra-render/lyra/renderer"
)

// Display the registered renderer bindings and, when a field is
// supplied, its properties.
func Info(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Field kind", "Tracer kind"})
	for _, reg := range renderer.Registrations() {
		table.Append([]string{reg.FieldKind, reg.TracerKind})
	}
	table.Render()
	logger.Noticef("registered renderers\n%s", buf.String())

	if ctx.String("field") == "" {
		return nil
	}

	f, err := loadField(ctx)
	if err != nil {
		return err
	}
	min, max := f.Bounds()

	buf.Reset()
	table = tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Name", "Kind", "BLAS", "Resolution", "Channels", "Bounds"})
	table.Append([]string{
		f.Name(),
		f.Kind(),
		f.BLAS().Name(),
		fmt.Sprintf("%d^3", f.Resolution()),
		strings.Join(f.SupportedChannels(), ","),
		fmt.Sprintf("(%.2f,%.2f,%.2f)-(%.2f,%.2f,%.2f)", min[0], min[1], min[2], max[0], max[1], max[2]),
	})
	table.Render()
	logger.Noticef("field info\n%s", buf.String())

	return nil
}
