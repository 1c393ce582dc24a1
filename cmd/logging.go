package cmd

import (
	"github.com/urfave/cli"

	"github.com/lyra-render/lyra/log"
)

var logger = log.New("lyra")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
